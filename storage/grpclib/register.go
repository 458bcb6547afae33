package grpclib

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/backend"
)

var (
	flagTarget      string
	flagDialTimeout time.Duration
	flagTimeout     time.Duration
	flagMaxMsgBytes int
)

func init() {
	backend.MustRegister(backend.Backend{
		Name:        "grpc",
		Description: "gRPC interface library client (talks to rgb-ifaced)",
		Usage:       backend.UsageCLI,
		RegisterFlags: func(fs *pflag.FlagSet) {
			fs.StringVar(&flagTarget, "grpc-target", "", "gRPC target host:port (for --backend=grpc)")
			fs.DurationVar(&flagDialTimeout, "grpc-dial-timeout", 5*time.Second, "Dial timeout (for --backend=grpc)")
			fs.DurationVar(&flagTimeout, "grpc-timeout", 0, "Per-RPC timeout (for --backend=grpc)")
			fs.IntVar(&flagMaxMsgBytes, "grpc-max-msg-bytes", 0, "Max gRPC message size in bytes; 0 uses grpc defaults")
		},
		Open: func() (storage.Library, func() error, error) {
			target := strings.TrimSpace(flagTarget)
			if target == "" {
				return nil, nil, fmt.Errorf("missing --grpc-target")
			}
			client, err := Dial(target, DialOptions{Timeout: flagDialTimeout, MaxMsgBytes: flagMaxMsgBytes})
			if err != nil {
				return nil, nil, err
			}
			client.Timeout = flagTimeout
			return client, client.Close, nil
		},
	})
}

// SetDefaults fills the target and per-RPC timeout from configuration when
// the flags were left empty.
func SetDefaults(target string, timeout time.Duration) {
	if flagTarget == "" {
		flagTarget = target
	}
	if flagTimeout == 0 {
		flagTimeout = timeout
	}
}
