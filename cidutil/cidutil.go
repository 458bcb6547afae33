// Package cidutil derives content identifiers for canonical interface bytes.
//
// Every identifier in this module is a CIDv1 using the "raw" multicodec and a
// sha2-256 multihash. The 32-byte digest is the stable, cross-implementation
// part; the CID string is its human/transport form.
package cidutil

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// DigestSize is the byte length of a sha2-256 digest.
const DigestSize = 32

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return id.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Digest returns the sha2-256 digest of data as carried inside the multihash.
func Digest(data []byte) [DigestSize]byte {
	var out [DigestSize]byte
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		panic(fmt.Sprintf("cidutil: sha2-256 multihash failed: %v", err))
	}
	dec, err := multihash.Decode(sum)
	if err != nil || len(dec.Digest) != DigestSize {
		panic("cidutil: malformed sha2-256 multihash")
	}
	copy(out[:], dec.Digest)
	return out
}

// FromDigest rebuilds the raw+sha2-256 CID for a known digest.
func FromDigest(digest [DigestSize]byte) cid.Cid {
	mh, err := multihash.Encode(digest[:], multihash.SHA2_256)
	if err != nil {
		panic(fmt.Sprintf("cidutil: encode multihash: %v", err))
	}
	return cid.NewCidV1(cid.Raw, mh)
}

// DigestOf extracts the sha2-256 digest from a CID, rejecting any CID that is
// not CIDv1 raw + sha2-256.
func DigestOf(id cid.Cid) ([DigestSize]byte, error) {
	var out [DigestSize]byte
	if !id.Defined() {
		return out, errors.New("undefined cid")
	}
	pref := id.Prefix()
	if pref.Version != 1 || pref.Codec != cid.Raw {
		return out, fmt.Errorf("cid %s is not CIDv1 raw", id)
	}
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return out, fmt.Errorf("cid %s: %w", id, err)
	}
	if dec.Code != multihash.SHA2_256 || len(dec.Digest) != DigestSize {
		return out, fmt.Errorf("cid %s is not sha2-256", id)
	}
	copy(out[:], dec.Digest)
	return out, nil
}
