package libconfig

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/backend"
	_ "lnp-bp.org/rgbiface/storage/localfs"
	"lnp-bp.org/rgbiface/storage/testkit"
)

func load(t *testing.T, yaml string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yaml)))
	cfg, err := FromViper(v, "library")
	require.NoError(t, err)
	return cfg
}

func TestOpenReplicating(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	cfg := load(t, `
library:
  write_policy: all
  backends:
    - name: localfs
      id: primary
      config: {localfs-dir: "`+filepath.ToSlash(a)+`"}
    - name: localfs
      id: mirror
      config: {localfs-dir: "`+filepath.ToSlash(b)+`"}
`)
	lib, closeFn, err := cfg.Open(backend.UsageCLI, "")
	require.NoError(t, err)
	defer closeFn()

	rep, ok := lib.(storage.ReplicatingLibrary)
	require.True(t, ok)
	id, per, err := rep.PutAll(testkit.Canonical(t, fragment.Fungible()))
	require.NoError(t, err)
	assert.Equal(t, id, per["primary"])
	assert.Equal(t, id, per["mirror"])
}

func TestOpenFirstPolicyPrefers(t *testing.T) {
	cfg := Config{Backends: []BackendConfig{
		{Name: "localfs", ID: "one", Config: map[string]string{"localfs-dir": t.TempDir()}},
		{Name: "localfs", ID: "two", Config: map[string]string{"localfs-dir": t.TempDir()}},
	}}
	lib, _, err := cfg.Open(backend.UsageCLI, "two")
	require.NoError(t, err)
	_, ok := lib.(storage.MultiLibrary)
	assert.True(t, ok)

	_, _, err = cfg.Open(backend.UsageCLI, "three")
	assert.ErrorContains(t, err, "not found")
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Backends: []BackendConfig{{}}}.Validate())
	assert.Error(t, Config{Backends: []BackendConfig{{Name: "a"}, {Name: "a"}}}.Validate())
	assert.Error(t, Config{WritePolicy: "some", Backends: []BackendConfig{{Name: "a"}}}.Validate())
	assert.NoError(t, Config{WritePolicy: "all", Backends: []BackendConfig{{Name: "a"}, {Name: "a", ID: "b"}}}.Validate())

	_, _, err := Config{Backends: []BackendConfig{{Name: "nope"}}}.Open(backend.UsageCLI, "")
	assert.ErrorContains(t, err, "unknown backend")
}
