// Package storage defines the interface library: a content-addressed store
// of canonical interface texts keyed by their IfaceId.
package storage

import "lnp-bp.org/rgbiface/iface"

// Library stores canonical interface bytes.
//
// Contract:
// - Put MUST be idempotent and return iface.IdOf(bytes).
// - Stored objects MUST be immutable.
// - Get MUST return ErrNotFound when the id is absent and ErrInvalidID for
// the zero id.
// - Callers supply canonical bytes; a library does not parse what it stores.
type Library interface {
	Put(canonical []byte) (iface.IfaceId, error)
	Get(id iface.IfaceId) ([]byte, error)
	Has(id iface.IfaceId) bool
}

// Verify checks that b is what id names.
func Verify(id iface.IfaceId, b []byte) error {
	if id.IsZero() {
		return ErrInvalidID
	}
	if iface.IdOf(b) != id {
		return ErrIDMismatch
	}
	return nil
}
