// Package ipfs publishes interfaces as raw IPFS blocks through the local
// Kubo "ipfs" CLI.
//
// Interface ids are CIDv1 raw + sha2-256, so a stored interface is
// retrievable from any IPFS node under the same identifier. The adapter is
// offline: it works on the local repo and needs no daemon. Reachability is
// not validity; every read is checked against the requested id.
package ipfs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/pflag"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/backend"
)

// Library is a storage.Library backed by the ipfs CLI.
type Library struct {
	bin string
	env []string
}

var _ storage.Library = (*Library)(nil)

type Options struct {
	// Bin is the path to the ipfs binary; "ipfs" if empty.
	Bin string
	// Env overrides the command environment, e.g. to set IPFS_PATH. The
	// process environment is used when nil.
	Env []string
}

func New(opts Options) *Library {
	bin := opts.Bin
	if bin == "" {
		bin = "ipfs"
	}
	return &Library{bin: bin, env: opts.Env}
}

func (l *Library) Put(canonical []byte) (iface.IfaceId, error) {
	want := iface.IdOf(canonical)
	out, err := l.run(canonical,
		"block", "put",
		"--quiet",
		"--cid-codec=raw",
		"--mhtype=sha2-256",
		"--mhlen=32",
		"/dev/stdin",
	)
	if err != nil {
		return iface.IfaceId{}, err
	}
	got, err := iface.ParseIfaceId(strings.TrimSpace(string(out)))
	if err != nil {
		return iface.IfaceId{}, fmt.Errorf("ipfs: unexpected block put output: %w", err)
	}
	if got != want {
		return iface.IfaceId{}, storage.ErrIDMismatch
	}
	return want, nil
}

func (l *Library) Get(id iface.IfaceId) ([]byte, error) {
	if id.IsZero() {
		return nil, storage.ErrInvalidID
	}
	out, err := l.run(nil, "block", "get", id.String())
	if err != nil {
		if isLikelyNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := storage.Verify(id, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Library) Has(id iface.IfaceId) bool {
	if id.IsZero() {
		return false
	}
	_, err := l.run(nil, "block", "stat", "--offline", id.String())
	return err == nil
}

func (l *Library) run(stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.Command(l.bin, args...)
	if l.env != nil {
		cmd.Env = l.env
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if s := strings.TrimSpace(string(ee.Stderr)); s != "" {
			return nil, fmt.Errorf("ipfs: %s", s)
		}
		return nil, fmt.Errorf("ipfs: %v", err)
	}
	return nil, err
}

func isLikelyNotFound(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

var (
	flagBin  string
	flagPath string
)

func init() {
	backend.MustRegister(backend.Backend{
		Name:        "ipfs",
		Description: "Local IPFS repo via the Kubo CLI",
		Usage:       backend.UsageCLI | backend.UsageDaemon,
		RegisterFlags: func(fs *pflag.FlagSet) {
			fs.StringVar(&flagBin, "ipfs-bin", "ipfs", "Path to the ipfs binary (for --backend=ipfs)")
			fs.StringVar(&flagPath, "ipfs-path", "", "IPFS repo path, sets IPFS_PATH (for --backend=ipfs)")
		},
		Open: func() (storage.Library, func() error, error) {
			opts := Options{Bin: flagBin}
			if flagPath != "" {
				opts.Env = append(os.Environ(), "IPFS_PATH="+flagPath)
			}
			return New(opts), nil, nil
		},
	})
}
