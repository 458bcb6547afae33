package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/registry"
	"lnp-bp.org/rgbiface/storage/backend"
	"lnp-bp.org/rgbiface/storage/bundle"
)

func (a *app) backendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List interface library backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, b := range backend.List(backend.UsageCLI) {
				if b.Description == "" {
					fmt.Fprintln(a.out, b.Name)
					continue
				}
				fmt.Fprintf(a.out, "%s\t%s\n", b.Name, b.Description)
			}
			return nil
		},
	}
}

func (a *app) publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Store every standard interface in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, closeFn, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer closeQuietly(closeFn)
			ids, err := registry.Standard().Publish(lib)
			if err != nil {
				return err
			}
			return a.print(ids)
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch canonical interface bytes from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := iface.ParseIfaceId(args[0])
			if err != nil {
				return err
			}
			lib, closeFn, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer closeQuietly(closeFn)
			b, err := lib.Get(id)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = a.out.Write(b)
				return err
			}
			return os.WriteFile(outPath, b, 0o600)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var outPath string
	var noIndex bool
	cmd := &cobra.Command{
		Use:   "export --out <bundle.tar> [id...]",
		Short: "Write interfaces from the library to a bundle (default: all standard ones)",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, closeFn, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer closeQuietly(closeFn)

			labels := map[string]iface.IfaceId{}
			var ids []iface.IfaceId
			reg := registry.Standard()
			if len(args) == 0 {
				for _, e := range reg.Entries() {
					ids = append(ids, e.ID)
				}
			}
			for _, arg := range args {
				id, err := iface.ParseIfaceId(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			for _, id := range ids {
				if e, ok := reg.Lookup(id); ok {
					labels[e.Name] = id
				}
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := bundle.Export(f, lib, ids, bundle.ExportOptions{Labels: labels, IncludeIndex: !noIndex}); err != nil {
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "bundle path")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "omit index.json")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bundle.tar>",
		Short: "Verify and store every interface of a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			lib, closeFn, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer closeQuietly(closeFn)
			res, err := bundle.Import(f, lib)
			if err != nil {
				return err
			}
			return a.print(res)
		},
	}
}
