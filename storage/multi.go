package storage

import (
	"errors"

	"lnp-bp.org/rgbiface/iface"
)

// MultiLibrary reads through several libraries in slice order; the first
// hit wins. Put writes only to the first library.
type MultiLibrary struct {
	Libraries []Library
}

var _ Library = MultiLibrary{}

func (m MultiLibrary) Put(canonical []byte) (iface.IfaceId, error) {
	if len(m.Libraries) == 0 {
		return iface.IfaceId{}, errors.New("storage: MultiLibrary has no libraries")
	}
	return m.Libraries[0].Put(canonical)
}

func (m MultiLibrary) Get(id iface.IfaceId) ([]byte, error) {
	if id.IsZero() {
		return nil, ErrInvalidID
	}
	for _, lib := range m.Libraries {
		b, err := lib.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (m MultiLibrary) Has(id iface.IfaceId) bool {
	for _, lib := range m.Libraries {
		if lib.Has(id) {
			return true
		}
	}
	return false
}
