package registry

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/keys"
	"lnp-bp.org/rgbiface/rgb20"
	"lnp-bp.org/rgbiface/rgb25"
	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/localfs"
)

func newLib(t *testing.T) storage.Library {
	t.Helper()
	lib, err := localfs.New(t.TempDir())
	require.NoError(t, err)
	return lib
}

func devKey(b byte) ed25519.PrivateKey {
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = b
	return ed25519.NewKeyFromSeed(seed)
}

func TestStandard(t *testing.T) {
	entries := Standard().Entries()
	require.Len(t, entries, 14)

	for n, e := range entries[:10] {
		assert.Equal(t, iface.FamilyFungibleToken, e.Family)
		assert.Equal(t, rgb20.AllFeatures()[n], e.Features)
	}
	for n, e := range entries[10:] {
		assert.Equal(t, iface.FamilyNamedCollectible, e.Family)
		assert.Equal(t, rgb25.AllFeatures()[n], e.Features)
	}

	e, ok := Standard().Lookup(rgb20.FullIfaceID)
	require.True(t, ok)
	assert.Equal(t, "RGB20Replaceable", e.Name)
}

func TestRegisterIdempotent(t *testing.T) {
	r := New()
	a := r.Register(rgb25.FullFeatures)
	b := r.Register(rgb25.FullFeatures)
	assert.Equal(t, a.ID, b.ID)
	assert.Len(t, r.Entries(), 1)
}

func TestClassify(t *testing.T) {
	for _, e := range Standard().Entries() {
		got, err := Classify(e.Iface)
		require.NoError(t, err, e.Name)
		assert.Equal(t, e.Features, got.Features)
		assert.Equal(t, e.Family, got.Family)
	}

	custom := fragment.NamedAsset().ExpectExtended(fragment.Fungible(), "Custom")
	_, err := Classify(custom)
	assert.Equal(t, "REGISTRY-CLASSIFY-001", iface.RuleID(err))
}

func TestPublishAndLoad(t *testing.T) {
	lib := newLib(t)
	ids, err := Standard().Publish(lib)
	require.NoError(t, err)
	require.Len(t, ids, 14)

	r := New()
	e, err := r.Load(lib, rgb20.FullIfaceID)
	require.NoError(t, err)
	assert.Equal(t, rgb20.FullFeatures, e.Features)
	_, ok := r.Lookup(rgb20.FullIfaceID)
	assert.True(t, ok)

	e, err = r.Load(lib, rgb25.BaseIfaceID)
	require.NoError(t, err)
	assert.Equal(t, rgb25.Features{}, e.Features)
}

func TestLoadRejects(t *testing.T) {
	lib := newLib(t)
	r := New()

	_, err := r.Load(lib, rgb20.FixedIfaceID)
	assert.True(t, storage.IsNotFound(err))

	b, err := iface.Render(fragment.NamedAsset().ExpectExtended(fragment.Fungible(), "Custom"))
	require.NoError(t, err)
	id, err := lib.Put(b)
	require.NoError(t, err)
	_, err = r.Load(lib, id)
	assert.Equal(t, "REGISTRY-CLASSIFY-001", iface.RuleID(err))
	_, ok := r.Lookup(id)
	assert.False(t, ok)
}

func TestCertify(t *testing.T) {
	r := Standard()
	id := rgb20.FullIfaceID

	ok, err := r.Verify(id)
	require.NoError(t, err)
	assert.False(t, ok)

	c, err := keys.CertifyEd25519(id, fragment.LNPBPIdentity, keys.HashSHA256, devKey(1))
	require.NoError(t, err)
	require.NoError(t, r.Certify(c))
	require.NoError(t, r.Certify(c))
	assert.Len(t, r.Certificates(id), 1)

	ok, err = r.Verify(id)
	require.NoError(t, err)
	assert.True(t, ok)

	r.Trust(fragment.LNPBPIdentity, keys.EncodeEd25519(devKey(2).Public().(ed25519.PublicKey)))
	ok, err = r.Verify(id)
	require.NoError(t, err)
	assert.False(t, ok, "certificate key is not pinned")

	other, err := keys.CertifyEd25519(rgb20.FixedIfaceID, fragment.LNPBPIdentity, keys.HashSHA256, devKey(1))
	require.NoError(t, err)
	assert.Equal(t, "REGISTRY-CERT-002", iface.RuleID(r.Certify(other)))

	pinned, err := keys.CertifyEd25519(rgb20.FixedIfaceID, fragment.LNPBPIdentity, keys.HashSHA256, devKey(2))
	require.NoError(t, err)
	require.NoError(t, r.Certify(pinned))
	ok, err = r.Verify(rgb20.FixedIfaceID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCertifyRejects(t *testing.T) {
	r := Standard()

	c, err := keys.CertifyEd25519(rgb20.FullIfaceID, "someone.else", keys.HashSHA256, devKey(1))
	require.NoError(t, err)
	assert.Equal(t, "REGISTRY-CERT-001", iface.RuleID(r.Certify(c)))

	c, err = keys.CertifyEd25519(iface.IdOf([]byte("x")), fragment.LNPBPIdentity, keys.HashSHA256, devKey(1))
	require.NoError(t, err)
	assert.True(t, errors.Is(r.Certify(c), ErrUnknownInterface))

	c, err = keys.CertifyEd25519(rgb20.FullIfaceID, fragment.LNPBPIdentity, keys.HashSHA256, devKey(1))
	require.NoError(t, err)
	c.Signature = c.Signature[:len(c.Signature)-4] + "AAAA"
	assert.True(t, iface.IsKind(r.Certify(c), iface.KindCrypto))

	_, err = r.Verify(iface.IdOf([]byte("x")))
	assert.True(t, errors.Is(err, ErrUnknownInterface))
}

func TestClassifyUnrenderable(t *testing.T) {
	i := rgb25.Iface(rgb25.Features{})
	tr := i.Transitions[fragment.TransitionTransfer]
	tr.Errors = []string{"UNDECLARED"}
	i.Transitions[fragment.TransitionTransfer] = tr

	require.NotPanics(t, func() {
		_, err := Classify(i)
		require.Error(t, err)
		assert.True(t, iface.IsKind(err, iface.KindSchema))
		assert.Equal(t, "IFACE-SCHEMA-006", iface.RuleID(err))
	})
}
