package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"

	"lnp-bp.org/rgbiface/config"
	"lnp-bp.org/rgbiface/registry"
	"lnp-bp.org/rgbiface/storage/backend"
	"lnp-bp.org/rgbiface/storage/grpclib"
	"lnp-bp.org/rgbiface/storage/localfs"

	_ "lnp-bp.org/rgbiface/storage/ipfs"
)

var logger = log.WithFields(log.Fields{"prefix": "rgb-ifaced"})

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgDir string
	var listBackends, seed bool
	defaultDir, err := config.DefaultDir()
	if err != nil {
		defaultDir = config.DirName
	}

	cmd := &cobra.Command{
		Use:           "rgb-ifaced",
		Short:         "Serve an interface library over gRPC",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listBackends {
				for _, b := range backend.List(backend.UsageDaemon) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Name, b.Description)
				}
				return nil
			}
			if err := config.Load(cfgDir); err != nil {
				return err
			}
			if err := config.SetupLogging(viper.GetString(config.CfgLogLevel)); err != nil {
				return err
			}
			dir, err := config.LibraryDir(cfgDir)
			if err != nil {
				return err
			}
			localfs.SetDir(dir)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, seed)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgDir, "config", defaultDir, "config directory")
	f.String("listen", "", "listen address")
	f.String("backend", "", "interface library backend")
	f.String("log-level", "", "log level")
	f.Bool("strict", true, "parse interfaces before storing them")
	f.BoolVar(&listBackends, "list-backends", false, "list supported backends and exit")
	f.BoolVar(&seed, "publish-standard", false, "store every standard interface before serving")
	backend.RegisterFlags(f, backend.UsageDaemon)

	_ = viper.BindPFlag(config.CfgGRPCListen, f.Lookup("listen"))
	_ = viper.BindPFlag(config.CfgLibraryBackend, f.Lookup("backend"))
	_ = viper.BindPFlag(config.CfgLogLevel, f.Lookup("log-level"))
	_ = viper.BindPFlag(config.CfgGRPCStrict, f.Lookup("strict"))
	return cmd
}

func run(ctx context.Context, seed bool) error {
	name := viper.GetString(config.CfgLibraryBackend)
	lib, closeFn, err := backend.Open(name, backend.UsageDaemon)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	if seed {
		if _, err := registry.Standard().Publish(lib); err != nil {
			return err
		}
	}

	lis, err := net.Listen("tcp", viper.GetString(config.CfgGRPCListen))
	if err != nil {
		return err
	}
	logger.WithFields(log.Fields{"addr": lis.Addr().String(), "backend": name}).Info("listening")
	return serve(ctx, lis, &grpclib.Server{Library: lib, Strict: viper.GetBool(config.CfgGRPCStrict)})
}

// serve blocks until ctx is done, then drains in-flight calls.
func serve(ctx context.Context, lis net.Listener, srv *grpclib.Server) error {
	s := grpc.NewServer()
	grpclib.RegisterLibraryServer(s, srv)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		s.GracefulStop()
	}()
	return s.Serve(lis)
}
