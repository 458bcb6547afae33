package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"lnp-bp.org/rgbiface/config"
	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/backend"
	"lnp-bp.org/rgbiface/storage/grpclib"
	"lnp-bp.org/rgbiface/storage/libconfig"
	"lnp-bp.org/rgbiface/storage/localfs"

	_ "lnp-bp.org/rgbiface/storage/ipfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

type app struct {
	out    io.Writer
	errOut io.Writer
	cfgDir string
	flags  *pflag.FlagSet
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	defaultDir, err := config.DefaultDir()
	if err != nil {
		defaultDir = config.DirName
	}

	root := &cobra.Command{
		Use:           "rgb-iface",
		Short:         "RGB20/RGB25 interface composer and contract viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	a.flags = pf
	pf.StringVar(&a.cfgDir, "config", defaultDir, "config directory")
	pf.String("backend", "", "interface library backend (see 'backends')")
	pf.StringP("output", "o", "", "output format: json|yaml")
	pf.String("log-level", "", "log level")
	pf.String("mode", "", "compliance mode: permissive|strict")
	backend.RegisterFlags(pf, backend.UsageCLI)

	_ = viper.BindPFlag(config.CfgLibraryBackend, pf.Lookup("backend"))
	_ = viper.BindPFlag(config.CfgOutputFormat, pf.Lookup("output"))
	_ = viper.BindPFlag(config.CfgLogLevel, pf.Lookup("log-level"))
	_ = viper.BindPFlag(config.CfgComplianceMode, pf.Lookup("mode"))

	root.AddCommand(
		a.idsCmd(),
		a.renderCmd(),
		a.featuresCmd(),
		a.infoCmd(),
		a.backendsCmd(),
		a.publishCmd(),
		a.getCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.keyCmd(),
		a.signCmd(),
		a.verifyCmd(),
	)
	return root
}

func (a *app) setup() error {
	if err := config.Load(a.cfgDir); err != nil {
		return err
	}
	if err := config.SetupLogging(viper.GetString(config.CfgLogLevel)); err != nil {
		return err
	}
	dir, err := config.LibraryDir(a.cfgDir)
	if err != nil {
		return err
	}
	localfs.SetDir(dir)
	grpclib.SetDefaults(viper.GetString(config.CfgGRPCTarget), viper.GetDuration(config.CfgGRPCTimeout))
	return nil
}

// openLibrary uses library.backends from the config file when present and
// the single --backend otherwise.
func (a *app) openLibrary() (storage.Library, func() error, error) {
	name := viper.GetString(config.CfgLibraryBackend)
	if viper.IsSet("library.backends") {
		cfg, err := libconfig.FromViper(viper.GetViper(), "library")
		if err != nil {
			return nil, nil, err
		}
		preferred := ""
		if a.flags.Changed("backend") {
			preferred = name
		}
		return cfg.Open(backend.UsageCLI, preferred)
	}
	return backend.Open(name, backend.UsageCLI)
}

func closeQuietly(closeFn func() error) {
	if closeFn != nil {
		_ = closeFn()
	}
}
