package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/model"
	"lnp-bp.org/rgbiface/registry"
	"lnp-bp.org/rgbiface/rgb20"
	"lnp-bp.org/rgbiface/rgb25"
)

func (a *app) idsCmd() *cobra.Command {
	var family string
	cmd := &cobra.Command{
		Use:   "ids",
		Short: "List every standard interface with its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var want iface.AssetFamily
			if family != "" {
				f, err := iface.ParseAssetFamily(family)
				if err != nil {
					return err
				}
				want = f
			}
			reg := registry.Standard()
			out := []model.IfaceSummary{}
			for _, e := range reg.Entries() {
				if want == "" || e.Family == want {
					out = append(out, model.Summarize(e, nil))
				}
			}
			return a.print(out)
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "only this family (fungible-token|named-collectible|RGB20|RGB25)")
	return cmd
}

type featureFlags struct {
	family    string
	renaming  bool
	inflation string
	burnable  bool
}

func (f featureFlags) features() (iface.FeatureSet, error) {
	fam, err := iface.ParseAssetFamily(f.family)
	if err != nil {
		return nil, err
	}
	switch fam {
	case iface.FamilyFungibleToken:
		inf := rgb20.Fixed
		if f.inflation != "" {
			if inf, err = rgb20.ParseInflation(f.inflation); err != nil {
				return nil, err
			}
		}
		if f.burnable {
			return nil, fmt.Errorf("--burnable is for named-collectible; use --inflation for RGB20")
		}
		return rgb20.Features{Renaming: f.renaming, Inflation: inf}, nil
	default:
		if f.inflation != "" {
			return nil, fmt.Errorf("--inflation is for fungible-token")
		}
		return rgb25.Features{Renaming: f.renaming, Burnable: f.burnable}, nil
	}
}

func (a *app) renderCmd() *cobra.Command {
	var ff featureFlags
	var showID bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Compose an interface and print its canonical bytes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := ff.features()
			if err != nil {
				return err
			}
			i := fs.Iface()
			if showID {
				_, err := fmt.Fprintln(a.out, i.ID())
				return err
			}
			b, err := iface.Render(i)
			if err != nil {
				return err
			}
			_, err = a.out.Write(b)
			return err
		},
	}
	cmd.Flags().StringVar(&ff.family, "family", "fungible-token", "asset family")
	cmd.Flags().BoolVar(&ff.renaming, "renaming", false, "allow renaming")
	cmd.Flags().StringVar(&ff.inflation, "inflation", "", "RGB20 supply policy: fixed|inflatable|burnable|inflatableBurnable|replaceable")
	cmd.Flags().BoolVar(&ff.burnable, "burnable", false, "RGB25 burning")
	cmd.Flags().BoolVar(&showID, "id", false, "print the interface id instead of the bytes")
	return cmd
}

func (a *app) featuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features <file|id>",
		Short: "Classify an interface and print its feature selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := ifaceRef(args[0])
			if err != nil {
				return err
			}
			opts := model.Options{}
			if ref.ID != "" {
				lib, closeFn, err := a.openLibrary()
				if err != nil {
					return err
				}
				defer closeQuietly(closeFn)
				opts.Library = lib
			}
			resp, err := model.Describe(model.DescribeRequest{Iface: ref}, opts)
			if err != nil {
				return err
			}
			return a.print(resp.Iface)
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	var ifaceArg, statePath string
	cmd := &cobra.Command{
		Use:   "info --state <state.yaml> [--iface <file|id>]",
		Short: "Print the typed view of a contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := os.ReadFile(statePath)
			if err != nil {
				return fmt.Errorf("read --state: %w", err)
			}
			mode, err := modelMode()
			if err != nil {
				return err
			}
			req := model.ProjectRequest{State: state, Compliance: mode}
			if ifaceArg != "" {
				if req.Iface, err = ifaceRef(ifaceArg); err != nil {
					return err
				}
			}
			opts := model.Options{}
			if len(req.Iface.Bytes) == 0 {
				lib, closeFn, err := a.openLibrary()
				if err != nil {
					return err
				}
				defer closeQuietly(closeFn)
				opts.Library = lib
			}
			resp, err := model.Project(req, opts)
			if err != nil {
				return err
			}
			return a.print(resp)
		},
	}
	cmd.Flags().StringVar(&ifaceArg, "iface", "", "interface file or id (default: the id named in the state)")
	cmd.Flags().StringVar(&statePath, "state", "", "contract state YAML")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}
