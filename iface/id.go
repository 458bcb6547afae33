package iface

import (
	"bytes"
	"encoding/hex"

	"github.com/ipfs/go-cid"

	"lnp-bp.org/rgbiface/cidutil"
)

// IfaceId is the content-derived identifier of a composed interface: the
// sha2-256 digest of its canonical bytes.
//
// The 32-byte layout is a cross-implementation agreement key and must not
// change. Two interfaces composed from the same fragments in the same order
// always have equal ids.
type IfaceId [32]byte

// IfaceIdFromArray wraps a raw digest.
func IfaceIdFromArray(b [32]byte) IfaceId { return IfaceId(b) }

// IdOf returns the identifier of canonical interface bytes. Callers must pass
// bytes that went through Canonicalize or Render.
func IdOf(canonical []byte) IfaceId {
	return IfaceId(cidutil.Digest(canonical))
}

// ParseIfaceId parses the CID text form produced by String.
func ParseIfaceId(s string) (IfaceId, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return IfaceId{}, wrapError(KindParse, "IFACE-ID-001", "invalid interface id encoding", err)
	}
	d, err := cidutil.DigestOf(c)
	if err != nil {
		return IfaceId{}, wrapError(KindParse, "IFACE-ID-002", "interface id is not a raw sha2-256 CID", err)
	}
	return IfaceId(d), nil
}

// CID returns the CIDv1 (raw + sha2-256) form of the id.
func (id IfaceId) CID() cid.Cid { return cidutil.FromDigest(id) }

func (id IfaceId) String() string { return id.CID().String() }

// Hex returns the lowercase hex form of the digest.
func (id IfaceId) Hex() string { return hex.EncodeToString(id[:]) }

func (id IfaceId) IsZero() bool { return id == IfaceId{} }

// Compare orders ids bytewise.
func (id IfaceId) Compare(other IfaceId) int { return bytes.Compare(id[:], other[:]) }

func (id IfaceId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *IfaceId) UnmarshalText(b []byte) error {
	parsed, err := ParseIfaceId(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
