// Package testkit is a conformance suite for storage.Library
// implementations.
package testkit

import (
	"bytes"
	"testing"

	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/storage"
)

// NewLibrary constructs a fresh, empty library for a test. The returned
// library MUST be isolated from other tests.
type NewLibrary func(t *testing.T) storage.Library

// Canonical renders a standard fragment for use as a stored object.
func Canonical(t *testing.T, f iface.Iface) []byte {
	t.Helper()
	b, err := iface.Render(f)
	if err != nil {
		t.Fatalf("Render(%s) failed: %v", f.Name, err)
	}
	return b
}

func RunLibraryConformance(t *testing.T, newLibrary NewLibrary) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		lib := newLibrary(t)
		want := Canonical(t, fragment.Fungible())

		id, err := lib.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if id != iface.IdOf(want) {
			t.Fatalf("Put id mismatch: got %s want %s", id, iface.IdOf(want))
		}

		got, err := lib.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
		if err := storage.Verify(id, got); err != nil {
			t.Fatalf("Get returned bytes not matching requested id: %v", err)
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		lib := newLibrary(t)
		b := Canonical(t, fragment.Burnable())

		id1, err := lib.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := lib.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		lib := newLibrary(t)
		b := Canonical(t, fragment.Renameable())
		id := iface.IdOf(b)

		if lib.Has(id) {
			t.Fatalf("Has returned true for missing id")
		}
		if _, err := lib.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}
		if _, err := lib.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !lib.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectZeroID", func(t *testing.T) {
		lib := newLibrary(t)
		var zero iface.IfaceId
		if lib.Has(zero) {
			t.Fatalf("Has should be false for the zero id")
		}
		if _, err := lib.Get(zero); err == nil {
			t.Fatalf("Get should fail for the zero id")
		}
	})
}
