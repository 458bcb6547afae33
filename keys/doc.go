// Package keys manages developer keys and the certificates they issue over
// interface identifiers.
//
// A certificate binds a developer identity (e.g. "lnp-bp.org") to an IfaceId.
// The pure primitives (key formatting, role derivation, signing and
// verification) are stable. The filesystem KeyStore is a local convenience.
package keys
