package memstate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/strict"
)

var (
	tx1 = strings.Repeat("11", 32)
	tx2 = strings.Repeat("22", 32)
)

const dump = `
contract: rgb:` + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" + `
global:
  issuedSupply: [600, 400]
  spec:
    - {ticker: TEST, name: Test asset, precision: 8}
fungible:
  assetOwner:
    - {seal: "bc:TX1:0", amount: 100, witness: "bc:TX2"}
    - {seal: "bc:TX1:1", amount: 900}
rights:
  updateRight:
    - {seal: "bc:TX2:3"}
history:
  assetOwner:
    - witness: "bc:TX2"
      inputs: [{seal: "bc:TX1:5", amount: 100}]
      outputs: [{seal: "bc:TX1:0", amount: 100}]
`

func testDump() string {
	return strings.NewReplacer("TX1", tx1, "TX2", tx2).Replace(dump)
}

func TestParseDocument(t *testing.T) {
	doc, err := Parse([]byte(testDump()))
	require.NoError(t, err)
	assert.Equal(t, "rgb:"+strings.Repeat("aa", 32), doc.Contract.String())
	assert.Nil(t, doc.Iface)

	s, err := doc.State()
	require.NoError(t, err)

	supply := s.GlobalState("issuedSupply")
	require.Len(t, supply, 2)
	n, ok := supply[1].Uint64()
	require.True(t, ok)
	assert.EqualValues(t, 400, n)

	spec := s.GlobalState("spec")
	require.Len(t, spec, 1)
	ticker, ok := spec[0].Field("ticker")
	require.True(t, ok)
	str, _ := ticker.Str()
	assert.Equal(t, "TEST", str)

	var amounts []string
	for a := range s.FungibleState("assetOwner") {
		amounts = append(amounts, a.State.String())
	}
	assert.Equal(t, []string{"100", "900"}, amounts)

	var rights []string
	for r := range s.RightsState("updateRight") {
		rights = append(rights, r.Seal.String())
	}
	assert.Equal(t, []string{"bc:" + tx2 + ":3"}, rights)

	var witnesses []string
	for e := range s.FungibleHistory("assetOwner") {
		witnesses = append(witnesses, e.Witness.String())
		require.Len(t, e.Inputs, 1)
		require.Len(t, e.Outputs, 1)
	}
	assert.Equal(t, []string{"bc:" + tx2}, witnesses)
}

func TestUnknownSlotsAreEmpty(t *testing.T) {
	s := New()
	assert.Empty(t, s.GlobalState("nope"))
	for range s.FungibleState("nope") {
		t.Fatal("unexpected allocation")
	}
	for range s.FungibleHistory("nope") {
		t.Fatal("unexpected history")
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "contract: rgb:" + strings.Repeat("00", 32) + "\nbogus: 1\n",
		"bad contract":   "contract: nope\n",
		"bad seal":       "fungible:\n  assetOwner:\n    - {seal: nope, amount: 1}\n",
		"negative":       "fungible:\n  assetOwner:\n    - {seal: \"bc:" + tx1 + ":0\", amount: -1}\n",
		"bool in global": "global:\n  flag: [true]\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestMissingAmount(t *testing.T) {
	doc, err := Parse([]byte("fungible:\n  assetOwner:\n    - {seal: \"bc:" + tx1 + ":0\"}\n"))
	require.NoError(t, err)
	_, err = doc.State()
	assert.ErrorContains(t, err, "missing amount")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDump()), 0o600))
	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Fungible["assetOwner"], 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuilders(t *testing.T) {
	var s State
	s.AddGlobal("g", strict.Uint(1)).
		AddFungible("f", iface.FungibleAllocation{State: iface.NewAmount(5)}).
		AddRights("r", iface.RightsAllocation{}).
		AddHistory("f", iface.FungibleHistoryEntry{})
	assert.Len(t, s.Globals["g"], 1)
	assert.Len(t, s.Fungible["f"], 1)
	assert.Len(t, s.Rights["r"], 1)
	assert.Len(t, s.History["f"], 1)
}
