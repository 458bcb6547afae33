package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/keys"
	"lnp-bp.org/rgbiface/registry"
)

func (a *app) keyCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage developer keys",
	}
	cmd.PersistentFlags().StringVar(&dir, "keys-dir", "", "key store directory (default ~/.rgb-iface/keys)")

	var seedHex string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create a root key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keys.Open(dir)
			if err != nil {
				return err
			}
			var seed []byte
			if seedHex != "" {
				if seed, err = keys.ParseSeedHex(seedHex); err != nil {
					return err
				}
			} else {
				seed = make([]byte, ed25519.SeedSize)
				if _, err := rand.Read(seed); err != nil {
					return err
				}
			}
			pub, err := ks.Init(args[0], seed, force)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, pub)
			return err
		},
	}
	initCmd.Flags().StringVar(&seedHex, "seed-hex", "", "32-byte seed as hex (default: random)")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key")

	var role string
	deriveCmd := &cobra.Command{
		Use:   "derive <name> --role <role>",
		Short: "Derive a role key from a root key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keys.Open(dir)
			if err != nil {
				return err
			}
			pub, err := ks.Derive(args[0], role, force)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, pub)
			return err
		},
	}
	deriveCmd.Flags().StringVar(&role, "role", "", "role name")
	deriveCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key")
	_ = deriveCmd.MarkFlagRequired("role")

	var alg string
	showCmd := &cobra.Command{
		Use:   "show <name> [--role <role>] [--alg ed25519|dilithium3]",
		Short: "Print a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keys.Open(dir)
			if err != nil {
				return err
			}
			pub, err := ks.PublicKey(args[0], role, alg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, pub)
			return err
		},
	}
	showCmd.Flags().StringVar(&role, "role", "", "role name")
	showCmd.Flags().StringVar(&alg, "alg", keys.AlgEd25519, "key algorithm")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keys.Open(dir)
			if err != nil {
				return err
			}
			entries, err := ks.List()
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []keys.KeyEntry{}
			}
			return a.print(entries)
		},
	}

	cmd.AddCommand(initCmd, deriveCmd, showCmd, listCmd)
	return cmd
}

func (a *app) signCmd() *cobra.Command {
	var dir, signer, role, alg, hashAlg, developer string
	cmd := &cobra.Command{
		Use:   "sign <id> --signer <name>",
		Short: "Certify an interface id as its developer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := iface.ParseIfaceId(args[0])
			if err != nil {
				return err
			}
			ks, err := keys.Open(dir)
			if err != nil {
				return err
			}
			c, err := ks.Certify(id, developer, signer, role, alg, hashAlg)
			if err != nil {
				return err
			}
			return a.print(c)
		},
	}
	f := cmd.Flags()
	f.StringVar(&dir, "keys-dir", "", "key store directory (default ~/.rgb-iface/keys)")
	f.StringVar(&signer, "signer", "", "key name")
	f.StringVar(&role, "role", "", "role key to sign with (default: root key)")
	f.StringVar(&alg, "alg", keys.AlgEd25519, "signature algorithm: ed25519|dilithium3")
	f.StringVar(&hashAlg, "hash", keys.HashSHA256, "hash algorithm: sha256|sha512|sha3-256")
	f.StringVar(&developer, "developer", fragment.LNPBPIdentity, "developer identity")
	_ = cmd.MarkFlagRequired("signer")
	return cmd
}

type verifyResult struct {
	Iface     string `json:"iface" yaml:"iface"`
	Developer string `json:"developer" yaml:"developer"`
	Name      string `json:"name" yaml:"name"`
	Certified bool   `json:"certified" yaml:"certified"`
}

func (a *app) verifyCmd() *cobra.Command {
	var trust []string
	cmd := &cobra.Command{
		Use:   "verify <certificate> [--trust <key>...]",
		Short: "Verify a developer certificate against the standard interfaces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var c keys.Certificate
			if err := yaml.Unmarshal(b, &c); err != nil {
				return fmt.Errorf("decode certificate: %w", err)
			}
			reg := registry.Standard()
			for _, k := range trust {
				reg.Trust(c.Developer, k)
			}
			if err := reg.Certify(c); err != nil {
				return err
			}
			ok, err := reg.Verify(c.Iface)
			if err != nil {
				return err
			}
			e, _ := reg.Lookup(c.Iface)
			return a.print(verifyResult{Iface: c.Iface.String(), Developer: c.Developer, Name: e.Name, Certified: ok})
		},
	}
	cmd.Flags().StringSliceVar(&trust, "trust", nil, "pinned developer key (repeatable)")
	return cmd
}
