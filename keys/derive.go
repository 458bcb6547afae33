package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

const kdfLabel = "rgb-iface-devkeys-v1"

// Ed25519Key returns the "ed25519:<base64>" public key string for a seed.
func Ed25519Key(seed []byte) string {
	priv := ed25519.NewKeyFromSeed(seed)
	return EncodeEd25519(priv.Public().(ed25519.PublicKey))
}

func EncodeEd25519(pub ed25519.PublicKey) string {
	return AlgEd25519 + ":" + base64.StdEncoding.EncodeToString(pub)
}

// Dilithium3FromSeed expands a 32-byte seed into a Dilithium3 keypair, so a
// stored seed serves both schemes.
func Dilithium3FromSeed(seed []byte) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	if len(seed) != mode3.SeedSize {
		return nil, nil, fmt.Errorf("seed must be %d bytes, got %d", mode3.SeedSize, len(seed))
	}
	var s [mode3.SeedSize]byte
	copy(s[:], seed)
	pk, sk := mode3.NewKeyFromSeed(&s)
	return pk, sk, nil
}

func EncodeDilithium3(pk *mode3.PublicKey) string {
	return AlgDilithium3 + ":" + base64.StdEncoding.EncodeToString(pk.Bytes())
}

// DeriveRoleSeed derives a role seed (e.g. "release", "ci") from a root seed.
func DeriveRoleSeed(rootSeed []byte, role string) ([]byte, error) {
	if len(rootSeed) != ed25519.SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", ed25519.SeedSize)
	}
	if err := CheckName("role", role); err != nil {
		return nil, err
	}

	h := sha256.New()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(kdfLabel))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("role:" + role))
	return h.Sum(nil)[:ed25519.SeedSize], nil
}
