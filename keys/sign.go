package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"

	"lnp-bp.org/rgbiface/iface"
)

const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"

	HashSHA256  = "sha256"
	HashSHA512  = "sha512"
	HashSHA3256 = "sha3-256"
)

const certDomain = "rgb-iface-cert-v1"

// Certificate is a developer's signature over an interface id.
type Certificate struct {
	Iface     iface.IfaceId `json:"iface" yaml:"iface"`
	Developer string        `json:"developer" yaml:"developer"`
	// Key is "<alg>:<base64 public key>".
	Key       string `json:"key" yaml:"key"`
	Hash      string `json:"hash" yaml:"hash"`
	Signature string `json:"signature" yaml:"signature"`
}

// Message is the byte string a certificate signs.
func Message(id iface.IfaceId, developer string) []byte {
	var b strings.Builder
	b.WriteString(certDomain)
	b.WriteByte(0)
	b.WriteString(developer)
	b.WriteByte(0)
	b.WriteString(id.String())
	return []byte(b.String())
}

func digestFor(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case HashSHA256:
		s := sha256.Sum256(message)
		return s[:], nil
	case HashSHA512:
		s := sha512.Sum512(message)
		return s[:], nil
	case HashSHA3256:
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-201", "unsupported hash algorithm "+hashAlg)
	}
}

func checkDeveloper(developer string) error {
	if strings.TrimSpace(developer) == "" || strings.ContainsAny(developer, "\x00\n") {
		return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-100", "invalid developer identity")
	}
	return nil
}

// CertifyEd25519 signs hash(Message(id, developer)) with an Ed25519 key.
func CertifyEd25519(id iface.IfaceId, developer, hashAlg string, priv ed25519.PrivateKey) (Certificate, error) {
	if err := checkDeveloper(developer); err != nil {
		return Certificate{}, err
	}
	digest, err := digestFor(hashAlg, Message(id, developer))
	if err != nil {
		return Certificate{}, err
	}
	return Certificate{
		Iface:     id,
		Developer: developer,
		Key:       EncodeEd25519(priv.Public().(ed25519.PublicKey)),
		Hash:      hashAlg,
		Signature: base64.StdEncoding.EncodeToString(ed25519.Sign(priv, digest)),
	}, nil
}

// CertifyDilithium3 is CertifyEd25519 for the post-quantum scheme.
func CertifyDilithium3(id iface.IfaceId, developer, hashAlg string, sk *mode3.PrivateKey) (Certificate, error) {
	if sk == nil {
		return Certificate{}, iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-001", "missing private key")
	}
	if err := checkDeveloper(developer); err != nil {
		return Certificate{}, err
	}
	digest, err := digestFor(hashAlg, Message(id, developer))
	if err != nil {
		return Certificate{}, err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(sk, digest, sig)
	return Certificate{
		Iface:     id,
		Developer: developer,
		Key:       EncodeDilithium3(sk.Public().(*mode3.PublicKey)),
		Hash:      hashAlg,
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// Verify checks the signature against the embedded key. It does not decide
// whether the key is trusted for the developer.
func (c Certificate) Verify() error {
	if c.Iface.IsZero() {
		return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-002", "certificate has no interface id")
	}
	if err := checkDeveloper(c.Developer); err != nil {
		return err
	}
	alg, enc, ok := strings.Cut(c.Key, ":")
	if !ok {
		return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-111", "invalid key encoding")
	}
	pub, err := decodeBase64(enc)
	if err != nil {
		return iface.WrapError(iface.KindCrypto, "KEYS-CRYPTO-113", "invalid key base64", err)
	}
	sig, err := decodeBase64(c.Signature)
	if err != nil {
		return iface.WrapError(iface.KindCrypto, "KEYS-CRYPTO-131", "invalid signature base64", err)
	}
	digest, err := digestFor(c.Hash, Message(c.Iface, c.Developer))
	if err != nil {
		return err
	}

	switch alg {
	case AlgEd25519:
		if len(pub) != ed25519.PublicKeySize {
			return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-114", "invalid ed25519 public key length")
		}
		if len(sig) != ed25519.SignatureSize {
			return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-132", "invalid ed25519 signature length")
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-401", "signature invalid")
		}
		return nil
	case AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return iface.WrapError(iface.KindCrypto, "KEYS-CRYPTO-115", "invalid dilithium3 public key", err)
		}
		if len(sig) != mode3.SignatureSize {
			return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-133", "invalid dilithium3 signature length")
		}
		if !mode3.Verify(&pk, digest, sig) {
			return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-401", "signature invalid")
		}
		return nil
	default:
		return iface.NewError(iface.KindCrypto, "KEYS-CRYPTO-112", "unsupported key algorithm "+alg)
	}
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
