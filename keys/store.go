package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

// KeyStore keeps developer seeds as hex files:
//
//	<dir>/<name>/root.key
//	<dir>/<name>/roles/<role>.key
//
// Every seed is 32 bytes and serves as an Ed25519 seed or a Dilithium3 seed.
type KeyStore struct {
	Directory string
}

type KeyEntry struct {
	Name  string   `json:"name" yaml:"name"`
	Roles []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// DefaultDirectory is ~/.rgb-iface/keys.
func DefaultDirectory() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rgb-iface", "keys"), nil
}

func Open(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		if directory, err = DefaultDirectory(); err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) rootPath(name string) string {
	return filepath.Join(ks.Directory, name, "root.key")
}

func (ks *KeyStore) rolePath(name, role string) string {
	return filepath.Join(ks.Directory, name, "roles", role+".key")
}

// CheckName validates key and role names: ASCII letters, digits, '-', '_'.
func CheckName(what, s string) error {
	if s == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in %s", c, what)
	}
	return nil
}

func ParseSeedHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return seed, nil
}

func writeSeed(path string, seed []byte, overwrite bool) error {
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", ed25519.SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		return err
	}
	return f.Close()
}

func readSeed(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(string(b))
}

// Init stores a root seed under name and returns its Ed25519 public key.
func (ks *KeyStore) Init(name string, seed []byte, overwrite bool) (string, error) {
	if err := CheckName("key name", name); err != nil {
		return "", err
	}
	if err := writeSeed(ks.rootPath(name), seed, overwrite); err != nil {
		return "", err
	}
	return Ed25519Key(seed), nil
}

// Derive stores the role seed derived from name's root seed.
func (ks *KeyStore) Derive(name, role string, overwrite bool) (string, error) {
	if err := CheckName("key name", name); err != nil {
		return "", err
	}
	root, err := readSeed(ks.rootPath(name))
	if err != nil {
		return "", err
	}
	seed, err := DeriveRoleSeed(root, role)
	if err != nil {
		return "", err
	}
	if err := writeSeed(ks.rolePath(name, role), seed, overwrite); err != nil {
		return "", err
	}
	return Ed25519Key(seed), nil
}

// Seed loads a stored seed; role may be empty for the root seed.
func (ks *KeyStore) Seed(name, role string) ([]byte, error) {
	if err := CheckName("key name", name); err != nil {
		return nil, err
	}
	if role == "" {
		return readSeed(ks.rootPath(name))
	}
	if err := CheckName("role", role); err != nil {
		return nil, err
	}
	return readSeed(ks.rolePath(name, role))
}

// PublicKey returns the encoded public key of a stored seed for alg.
func (ks *KeyStore) PublicKey(name, role, alg string) (string, error) {
	seed, err := ks.Seed(name, role)
	if err != nil {
		return "", err
	}
	switch alg {
	case "", AlgEd25519:
		return Ed25519Key(seed), nil
	case AlgDilithium3:
		pk, _, err := Dilithium3FromSeed(seed)
		if err != nil {
			return "", err
		}
		return EncodeDilithium3(pk), nil
	}
	return "", fmt.Errorf("unsupported key algorithm %q", alg)
}

func (ks *KeyStore) List() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []KeyEntry
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		entry := KeyEntry{Name: e.Name()}
		roles, _ := os.ReadDir(filepath.Join(ks.Directory, e.Name(), "roles"))
		for _, r := range roles {
			if !r.IsDir() && strings.HasSuffix(r.Name(), ".key") {
				entry.Roles = append(entry.Roles, strings.TrimSuffix(r.Name(), ".key"))
			}
		}
		sort.Strings(entry.Roles)
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
