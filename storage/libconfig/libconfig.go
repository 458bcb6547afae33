// Package libconfig opens interface libraries described by configuration.
//
// Backends still need to be linked into the binary with blank imports.
//
// WritePolicy values:
// - "first" (default): write only to the first backend; reads fall back in order
// - "all": write to all backends and require id equality
//
// Example (YAML):
//
//	library:
//	  write_policy: all
//	  backends:
//	    - name: localfs
//	      config: {localfs-dir: /var/lib/rgb/ifaces}
//	    - name: grpc
//	      id: mirror
//	      config: {grpc-target: "mirror:7420"}
package libconfig

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/backend"
)

type Config struct {
	WritePolicy string          `mapstructure:"write_policy"`
	Backends    []BackendConfig `mapstructure:"backends"`
}

type BackendConfig struct {
	// Name is the registered backend to open.
	Name string `mapstructure:"name"`
	// ID is an optional alias used in per-backend reports; Name if empty.
	ID     string            `mapstructure:"id"`
	Config map[string]string `mapstructure:"config"`
}

func (b BackendConfig) alias() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}

// FromViper reads the config stored under key.
func FromViper(v *viper.Viper, key string) (Config, error) {
	var cfg Config
	if !v.IsSet(key) {
		return cfg, fmt.Errorf("libconfig: %q is not configured", key)
	}
	if err := v.UnmarshalKey(key, &cfg); err != nil {
		return cfg, fmt.Errorf("libconfig: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("libconfig: at least one backend is required")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return errors.New("libconfig: backend name is required")
		}
		if _, ok := seen[b.alias()]; ok {
			return fmt.Errorf("libconfig: duplicate backend id %q", b.alias())
		}
		seen[b.alias()] = struct{}{}
	}
	switch c.WritePolicy {
	case "", "first", "all":
		return nil
	}
	return fmt.Errorf("libconfig: invalid write_policy %q", c.WritePolicy)
}

// Open opens every configured backend. A non-empty preferred backend is
// moved to the front, so it receives writes under the "first" policy.
func (c Config) Open(usage backend.Usage, preferred string) (storage.Library, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	ordered := append([]BackendConfig(nil), c.Backends...)
	if preferred != "" {
		idx := -1
		for i := range ordered {
			if ordered[i].Name == preferred || ordered[i].ID == preferred {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil, fmt.Errorf("libconfig: preferred backend %q not found in config", preferred)
		}
		b := ordered[idx]
		copy(ordered[1:idx+1], ordered[0:idx])
		ordered[0] = b
	}

	named := make([]storage.NamedLibrary, 0, len(ordered))
	var closers []func() error
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	for _, b := range ordered {
		lib, closeFn, err := backend.OpenWithConfig(b.Name, usage, b.Config)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		named = append(named, storage.NamedLibrary{Name: b.alias(), Library: lib})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	if len(named) == 1 {
		return named[0].Library, closeAll, nil
	}
	if c.WritePolicy == "all" {
		return storage.ReplicatingLibrary{Backends: named}, closeAll, nil
	}
	libs := make([]storage.Library, 0, len(named))
	for _, n := range named {
		libs = append(libs, n.Library)
	}
	return storage.MultiLibrary{Libraries: libs}, closeAll, nil
}
