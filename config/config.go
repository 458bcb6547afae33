// Package config holds the viper keys shared by the rgb-iface binaries.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// CfgLibraryDir is the directory of the local interface library.
	CfgLibraryDir = "library.dir"
	// CfgLibraryBackend selects the storage backend by registered name.
	CfgLibraryBackend = "library.backend"

	// CfgGRPCListen is the address rgb-ifaced listens on.
	CfgGRPCListen = "grpc.listen"
	// CfgGRPCTarget is the address the grpc backend dials.
	CfgGRPCTarget = "grpc.target"
	// CfgGRPCTimeout bounds dialing and each RPC.
	CfgGRPCTimeout = "grpc.timeout"
	// CfgGRPCStrict makes the daemon parse interfaces before storing them.
	CfgGRPCStrict = "grpc.strict"

	// CfgLogLevel sets the log level.
	CfgLogLevel = "log.level"

	// CfgComplianceMode is "permissive" or "strict".
	CfgComplianceMode = "compliance.mode"

	// CfgOutputFormat is "json" or "yaml".
	CfgOutputFormat = "output.format"
)

// DirName is the per-user configuration directory under $HOME.
const DirName = ".rgb-iface"

// InitialConfig is written by "rgb-iface init".
const InitialConfig = `# rgb-iface configuration
library:
  backend: localfs
log:
  level: info
compliance:
  mode: permissive
output:
  format: json
`

func init() {
	viper.SetDefault(CfgLibraryBackend, "localfs")
	viper.SetDefault(CfgGRPCListen, "127.0.0.1:7420")
	viper.SetDefault(CfgGRPCTarget, "127.0.0.1:7420")
	viper.SetDefault(CfgGRPCTimeout, 5*time.Second)
	viper.SetDefault(CfgGRPCStrict, true)
	viper.SetDefault(CfgLogLevel, "info")
	viper.SetDefault(CfgComplianceMode, "permissive")
	viper.SetDefault(CfgOutputFormat, "json")
}

// DefaultDir is ~/.rgb-iface.
func DefaultDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

// LibraryDir is the configured library directory, or <cfgDir>/ifaces.
func LibraryDir(cfgDir string) (string, error) {
	if dir := viper.GetString(CfgLibraryDir); dir != "" {
		return homedir.Expand(dir)
	}
	return filepath.Join(cfgDir, "ifaces"), nil
}

// Load reads config.yaml (or any viper-supported extension) from dir.
// A missing file is not an error.
func Load(dir string) error {
	viper.AddConfigPath(dir)
	viper.SetConfigName("config")
	viper.SetEnvPrefix("RGBIFACE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	return nil
}

// SetupLogging installs the text formatter and the given level.
func SetupLogging(level string) error {
	f := new(log.TextFormatter)
	f.TimestampFormat = "2006-01-02 15:04:05"
	f.FullTimestamp = true
	log.SetFormatter(f)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}
