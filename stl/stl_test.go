package stl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/strict"
)

func TestNewTicker(t *testing.T) {
	for _, ok := range []string{"T", "TCKR", "USDT0", "ABCDEFGH"} {
		_, err := NewTicker(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "tckr", "0ABC", "ABCDEFGHI", "AB-C"} {
		_, err := NewTicker(bad)
		assert.True(t, iface.IsKind(err, iface.KindParse), bad)
	}
}

func TestNewName(t *testing.T) {
	_, err := NewName("Test asset")
	require.NoError(t, err)
	_, err = NewName(" padded")
	assert.Equal(t, "STL-NAME-002", iface.RuleID(err))
	_, err = NewName(strings.Repeat("x", 41))
	assert.Equal(t, "STL-NAME-001", iface.RuleID(err))
	_, err = NewName("naïve")
	assert.Error(t, err)
}

func TestPrecision(t *testing.T) {
	p, err := ParsePrecision("centi")
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Decimals())

	p, err = ParsePrecision("8")
	require.NoError(t, err)
	assert.Equal(t, "centiMicro", p.String())

	_, err = NewPrecision(19)
	assert.Equal(t, "STL-PRECISION-001", iface.RuleID(err))
	_, err = ParsePrecision("lots")
	assert.Equal(t, "STL-PRECISION-002", iface.RuleID(err))
}

func TestAssetSpecFromStrict(t *testing.T) {
	v := strict.Struct(
		strict.F("ticker", strict.String("TCKR")),
		strict.F("name", strict.String("Test asset")),
		strict.F("details", strict.None()),
		strict.F("precision", strict.Uint(8)),
	)
	spec, err := AssetSpecFromStrict(v)
	require.NoError(t, err)
	assert.Equal(t, Ticker("TCKR"), spec.Ticker)
	assert.Equal(t, Name("Test asset"), spec.Name)
	assert.Nil(t, spec.Details)
	assert.EqualValues(t, 8, spec.Precision)

	withDetails := strict.Struct(
		strict.F("ticker", strict.String("TCKR")),
		strict.F("name", strict.String("Test asset")),
		strict.F("details", strict.String("A test asset")),
		strict.F("precision", strict.String("milli")),
	)
	spec, err = AssetSpecFromStrict(withDetails)
	require.NoError(t, err)
	require.NotNil(t, spec.Details)
	assert.Equal(t, "A test asset", spec.Details.String())
	assert.EqualValues(t, 3, spec.Precision)

	_, err = AssetSpecFromStrict(strict.Struct(strict.F("ticker", strict.String("TCKR"))))
	assert.Equal(t, "STL-DECODE-001", iface.RuleID(err))

	_, err = AssetSpecFromStrict(strict.Uint(1))
	assert.Error(t, err)
}

func TestContractTermsFromStrict(t *testing.T) {
	terms, err := ContractTermsFromStrict(strict.Struct(strict.F("text", strict.String("Terms"))))
	require.NoError(t, err)
	assert.Equal(t, "Terms", terms.Text)
	assert.Nil(t, terms.Media)

	digest := strings.Repeat("ab", 32)
	terms, err = ContractTermsFromStrict(strict.Struct(
		strict.F("text", strict.String("Terms")),
		strict.F("media", strict.Struct(
			strict.F("type", strict.String("image/png")),
			strict.F("digest", strict.String(digest)),
		)),
	))
	require.NoError(t, err)
	require.NotNil(t, terms.Media)
	assert.Equal(t, "image/png", terms.Media.Type)
	assert.Equal(t, digest, terms.Media.DigestHex())

	_, err = ContractTermsFromStrict(strict.Struct(
		strict.F("text", strict.String("Terms")),
		strict.F("media", strict.Struct(
			strict.F("type", strict.String("image/png")),
			strict.F("digest", strict.Bytes([]byte{1, 2})),
		)),
	))
	assert.Equal(t, "STL-DECODE-003", iface.RuleID(err))
}

func TestAmountFromStrict(t *testing.T) {
	a, err := AmountFromStrict(strict.Uint(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, "1000000", a.String())

	_, err = AmountFromStrict(strict.String("1"))
	assert.Error(t, err)
}
