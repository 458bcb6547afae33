package backend

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnp-bp.org/rgbiface/storage"
)

func TestRegisterValidation(t *testing.T) {
	noop := func(*pflag.FlagSet) {}
	open := func() (storage.Library, func() error, error) { return nil, nil, nil }

	assert.Error(t, Register(Backend{}))
	assert.Error(t, Register(Backend{Name: "x", Open: open, Usage: UsageCLI}))
	assert.Error(t, Register(Backend{Name: "x", RegisterFlags: noop, Usage: UsageCLI}))
	assert.Error(t, Register(Backend{Name: "x", RegisterFlags: noop, Open: open}))

	require.NoError(t, Register(Backend{Name: "test-daemon-only", RegisterFlags: noop, Open: open, Usage: UsageDaemon}))
	assert.Error(t, Register(Backend{Name: "test-daemon-only", RegisterFlags: noop, Open: open, Usage: UsageDaemon}))

	assert.Contains(t, Names(UsageDaemon), "test-daemon-only")
	assert.NotContains(t, Names(UsageCLI), "test-daemon-only")

	_, _, err := Open("test-daemon-only", UsageCLI)
	assert.ErrorContains(t, err, "not supported")
	_, _, err = Open("missing", UsageCLI)
	assert.ErrorContains(t, err, "unknown backend")
}

func TestRegisterFlags(t *testing.T) {
	var value string
	require.NoError(t, Register(Backend{
		Name:          "test-flags",
		Usage:         UsageCLI,
		RegisterFlags: func(fs *pflag.FlagSet) { fs.StringVar(&value, "test-flags-dir", "", "") },
		Open:          func() (storage.Library, func() error, error) { return nil, nil, nil },
	}))
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, UsageCLI)
	require.NoError(t, fs.Parse([]string{"--test-flags-dir=/tmp/x"}))
	assert.Equal(t, "/tmp/x", value)
}
