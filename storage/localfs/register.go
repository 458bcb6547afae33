package localfs

import (
	"fmt"

	"github.com/spf13/pflag"

	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/backend"
)

var flagDir string

func init() {
	backend.MustRegister(backend.Backend{
		Name:        "localfs",
		Description: "Local filesystem interface library (directory)",
		Usage:       backend.UsageCLI | backend.UsageDaemon,
		RegisterFlags: func(fs *pflag.FlagSet) {
			fs.StringVar(&flagDir, "localfs-dir", "", "Interface library directory (for --backend=localfs)")
		},
		Open: func() (storage.Library, func() error, error) {
			if flagDir == "" {
				return nil, nil, fmt.Errorf("missing --localfs-dir")
			}
			lib, err := New(flagDir)
			return lib, nil, err
		},
	})
}

// SetDir sets the directory the registered backend opens when no flag was
// given, e.g. from configuration.
func SetDir(dir string) {
	if flagDir == "" {
		flagDir = dir
	}
}
