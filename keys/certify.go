package keys

import (
	"crypto/ed25519"
	"fmt"

	"lnp-bp.org/rgbiface/iface"
)

// Certify signs id for developer with the stored seed, using alg
// (ed25519 or dilithium3) over hashAlg.
func (ks *KeyStore) Certify(id iface.IfaceId, developer, name, role, alg, hashAlg string) (Certificate, error) {
	seed, err := ks.Seed(name, role)
	if err != nil {
		return Certificate{}, err
	}
	if hashAlg == "" {
		hashAlg = HashSHA256
	}
	switch alg {
	case "", AlgEd25519:
		return CertifyEd25519(id, developer, hashAlg, ed25519.NewKeyFromSeed(seed))
	case AlgDilithium3:
		_, sk, err := Dilithium3FromSeed(seed)
		if err != nil {
			return Certificate{}, err
		}
		return CertifyDilithium3(id, developer, hashAlg, sk)
	}
	return Certificate{}, fmt.Errorf("unsupported key algorithm %q", alg)
}
