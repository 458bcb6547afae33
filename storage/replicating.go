package storage

import (
	"fmt"

	"lnp-bp.org/rgbiface/iface"
)

// NamedLibrary pairs a library with the backend name it was opened from.
type NamedLibrary struct {
	Name    string
	Library Library
}

// ReplicatingLibrary writes to every backend and reads from the first that
// has the object. Every backend must agree on the id of a write.
type ReplicatingLibrary struct {
	Backends []NamedLibrary
}

var _ Library = ReplicatingLibrary{}

// PutAll writes the bytes to every backend and reports the id each
// returned. A disagreeing backend fails the write with ErrIDMismatch.
func (r ReplicatingLibrary) PutAll(canonical []byte) (iface.IfaceId, map[string]iface.IfaceId, error) {
	want := iface.IdOf(canonical)
	if len(r.Backends) == 0 {
		return iface.IfaceId{}, nil, fmt.Errorf("storage: ReplicatingLibrary has no backends")
	}
	out := make(map[string]iface.IfaceId, len(r.Backends))
	for _, b := range r.Backends {
		if b.Library == nil {
			return iface.IfaceId{}, nil, fmt.Errorf("storage: nil library for backend %q", b.Name)
		}
		got, err := b.Library.Put(canonical)
		if err != nil {
			return iface.IfaceId{}, out, fmt.Errorf("storage: backend %q: %w", b.Name, err)
		}
		out[b.Name] = got
		if got != want {
			return iface.IfaceId{}, out, ErrIDMismatch
		}
	}
	return want, out, nil
}

func (r ReplicatingLibrary) Put(canonical []byte) (iface.IfaceId, error) {
	id, _, err := r.PutAll(canonical)
	return id, err
}

func (r ReplicatingLibrary) Get(id iface.IfaceId) ([]byte, error) {
	libs := make([]Library, 0, len(r.Backends))
	for _, b := range r.Backends {
		if b.Library != nil {
			libs = append(libs, b.Library)
		}
	}
	return MultiLibrary{Libraries: libs}.Get(id)
}

func (r ReplicatingLibrary) Has(id iface.IfaceId) bool {
	for _, b := range r.Backends {
		if b.Library != nil && b.Library.Has(id) {
			return true
		}
	}
	return false
}
