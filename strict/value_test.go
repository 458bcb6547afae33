package strict

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValueAccessors(t *testing.T) {
	v := Struct(
		F("ticker", String("TCKR")),
		F("precision", Uint(8)),
		F("details", None()),
	)

	tk, ok := v.Field("ticker")
	require.True(t, ok)
	s, ok := tk.Str()
	require.True(t, ok)
	assert.Equal(t, "TCKR", s)

	p, _ := v.Field("precision")
	n, ok := p.Uint64()
	require.True(t, ok)
	assert.EqualValues(t, 8, n)

	d, ok := v.Field("details")
	assert.True(t, ok)
	assert.True(t, d.IsNone())

	_, ok = v.Field("missing")
	assert.False(t, ok)

	_, ok = tk.Uint64()
	assert.False(t, ok, "string must not read as a number")
}

func TestValueIsImmutable(t *testing.T) {
	raw := []byte{1, 2, 3}
	v := Bytes(raw)
	raw[0] = 9
	b, _ := v.Bytes()
	assert.Equal(t, []byte{1, 2, 3}, b)

	num := big.NewInt(5)
	nv := Number(num)
	num.SetInt64(6)
	got, _ := nv.Big()
	assert.Equal(t, int64(5), got.Int64())
}

func TestUnmarshalYAML(t *testing.T) {
	src := `
ticker: TCKR
name: Test asset
details: ~
precision: 8
supply: 340282366920938463463374607431768211455
digest: !!binary AQID
tags: [a, b]
`
	var v Value
	require.NoError(t, yaml.Unmarshal([]byte(src), &v))
	require.Equal(t, KindStruct, v.Kind())

	fields, _ := v.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"ticker", "name", "details", "precision", "supply", "digest", "tags"}, names)

	supply, _ := v.Field("supply")
	n, ok := supply.Big()
	require.True(t, ok)
	assert.Equal(t, "340282366920938463463374607431768211455", n.String())

	digest, _ := v.Field("digest")
	b, ok := digest.Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, b)

	tags, _ := v.Field("tags")
	items, ok := tags.Items()
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestUnmarshalYAMLRejects(t *testing.T) {
	var v Value
	assert.Error(t, yaml.Unmarshal([]byte("flag: true"), &v))
	assert.Error(t, yaml.Unmarshal([]byte("a: 1\na: 2"), &v))
}

func TestYAMLRoundTrip(t *testing.T) {
	v := Struct(
		F("text", String("terms")),
		F("media", Struct(F("type", String("text/plain")), F("digest", Bytes([]byte{0xde, 0xad})))),
		F("amounts", List(Uint(1), Uint(2))),
		F("none", None()),
	)
	out, err := yaml.Marshal(v)
	require.NoError(t, err)

	var back Value
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, v.Equal(back), "got %s", back)
}
