// Package localfs is a filesystem interface library.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/storage"
)

var logger = log.WithFields(log.Fields{"prefix": "localfs"})

// Library stores each interface in a read-only file named by its id.
//
// It is offline and deterministic: it never uses the network and never
// depends on wall-clock time.
type Library struct {
	root string
}

var _ storage.Library = (*Library)(nil)

// New opens a library rooted at root, creating the directory if needed.
func New(root string) (*Library, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Library{root: root}, nil
}

func (l *Library) Root() string { return l.root }

func (l *Library) Put(canonical []byte) (iface.IfaceId, error) {
	id := iface.IdOf(canonical)
	path := l.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return iface.IfaceId{}, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := l.Get(id)
			if rerr != nil || !bytes.Equal(existing, canonical) {
				// an unreadable or corrupted file is never repaired
				logger.WithField("id", id).Warn("stored interface does not match its id")
				return iface.IfaceId{}, storage.ErrImmutable
			}
			return id, nil
		}
		return iface.IfaceId{}, err
	}
	defer f.Close()

	if _, err := f.Write(canonical); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return iface.IfaceId{}, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return iface.IfaceId{}, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return iface.IfaceId{}, err
	}
	logger.WithFields(log.Fields{"id": id, "path": path}).Debug("stored interface")
	return id, nil
}

func (l *Library) Get(id iface.IfaceId) ([]byte, error) {
	if id.IsZero() {
		return nil, storage.ErrInvalidID
	}
	b, err := os.ReadFile(l.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := storage.Verify(id, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (l *Library) Has(id iface.IfaceId) bool {
	if id.IsZero() {
		return false
	}
	_, err := os.Stat(l.pathFor(id))
	return err == nil
}

// List returns the ids of every stored interface, in directory order.
func (l *Library) List() ([]iface.IfaceId, error) {
	var out []iface.IfaceId
	err := filepath.WalkDir(l.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		id, perr := iface.ParseIfaceId(filepath.Base(path))
		if perr != nil {
			logger.WithField("path", path).Debug("skipping foreign file")
			return nil
		}
		out = append(out, id)
		return nil
	})
	return out, err
}

func (l *Library) pathFor(id iface.IfaceId) string {
	s := id.String()
	// CIDv1 strings share their first characters, so shard on the tail.
	return filepath.Join(l.root, s[len(s)-2:], s)
}
