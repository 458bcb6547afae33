package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "localfs", viper.GetString(CfgLibraryBackend))
	assert.Equal(t, 5*time.Second, viper.GetDuration(CfgGRPCTimeout))
	assert.Equal(t, "permissive", viper.GetString(CfgComplianceMode))
	assert.Equal(t, "json", viper.GetString(CfgOutputFormat))
}

func TestLoadAndLibraryDir(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	cfg := "library:\n  dir: " + lib + "\noutput:\n  format: yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o600))

	require.NoError(t, Load(dir))
	t.Cleanup(viper.Reset)

	assert.Equal(t, "yaml", viper.GetString(CfgOutputFormat))
	got, err := LibraryDir(dir)
	require.NoError(t, err)
	assert.Equal(t, lib, got)
}

func TestLibraryDirFallback(t *testing.T) {
	got, err := LibraryDir("/cfg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cfg", "ifaces"), got)
}

func TestSetupLogging(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	require.NoError(t, SetupLogging("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Error(t, SetupLogging("loud"))
}
