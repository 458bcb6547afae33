// Package backend is the build-time registry of interface library backends.
//
// Backends register themselves in init(); a binary enables a backend by
// importing its package, usually as a blank import.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/pflag"

	"lnp-bp.org/rgbiface/storage"
)

// Usage restricts which programs accept a backend.
type Usage uint8

const (
	// UsageCLI marks backends available to rgb-iface.
	UsageCLI Usage = 1 << iota
	// UsageDaemon marks backends a long-running daemon can serve from.
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }

// Backend opens a storage.Library.
type Backend struct {
	Name        string
	Description string
	Usage       Usage

	// RegisterFlags adds backend-specific flags. It is called at most once
	// per flag set.
	RegisterFlags func(fs *pflag.FlagSet)

	// Open builds the library from the parsed flags and returns an optional
	// close function.
	Open func() (storage.Library, func() error, error)
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

func Register(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("backend: name is required")
	}
	if b.RegisterFlags == nil {
		return fmt.Errorf("backend: %q missing RegisterFlags", b.Name)
	}
	if b.Open == nil {
		return fmt.Errorf("backend: %q missing Open", b.Name)
	}
	if b.Usage == 0 {
		return fmt.Errorf("backend: %q missing Usage", b.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[b.Name]; exists {
		return fmt.Errorf("backend: %q already registered", b.Name)
	}
	backends[b.Name] = b
	return nil
}

func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns backends matching usage, sorted by name.
func List(usage Usage) []Backend {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b.Usage.allows(usage) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func Names(usage Usage) []string {
	bs := List(usage)
	n := make([]string, 0, len(bs))
	for _, b := range bs {
		n = append(n, b.Name)
	}
	return n
}

// RegisterFlags registers the flags of every backend matching usage.
func RegisterFlags(fs *pflag.FlagSet, usage Usage) {
	for _, b := range List(usage) {
		b.RegisterFlags(fs)
	}
}

// Open opens the named backend if it exists and matches usage.
func Open(name string, usage Usage) (storage.Library, func() error, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown backend %q (known: %v)", name, Names(usage))
	}
	if !b.Usage.allows(usage) {
		return nil, nil, fmt.Errorf("backend %q not supported in this binary", name)
	}
	return b.Open()
}

// OpenWithConfig opens the named backend with flag values taken from cfg,
// keyed by flag name without the leading dashes.
func OpenWithConfig(name string, usage Usage, cfg map[string]string) (storage.Library, func() error, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	b.RegisterFlags(fs)
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fs.Set(k, cfg[k]); err != nil {
			return nil, nil, fmt.Errorf("backend %q: %s: %w", name, k, err)
		}
	}
	return Open(name, usage)
}
