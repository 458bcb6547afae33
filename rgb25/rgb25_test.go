package rgb25

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnp-bp.org/rgbiface/compliance"
	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/memstate"
	"lnp-bp.org/rgbiface/rgb20"
	"lnp-bp.org/rgbiface/strict"
)

func seal(b byte) iface.XOutpoint {
	var txid iface.Txid
	txid[0] = b
	return iface.XOutpoint{Layer: iface.LayerBitcoin, Txid: txid}
}

func testState(details bool) *memstate.State {
	s := memstate.New().
		AddGlobal(fragment.GlobalName, strict.String("Collectible")).
		AddGlobal(fragment.GlobalPrecision, strict.String("centiMilli")).
		AddGlobal(fragment.GlobalTerms, strict.Struct(
			strict.F("text", strict.String("terms")),
			strict.F("media", strict.Struct(
				strict.F("type", strict.String("image/png")),
				strict.F("digest", strict.Bytes(make([]byte, 32))),
			)),
		)).
		AddGlobal(fragment.GlobalIssuedSupply, strict.Uint(1_000_000)).
		AddGlobal(fragment.GlobalBurnedSupply, strict.Uint(250_000)).
		AddFungible(fragment.AssignAssetOwner,
			iface.FungibleAllocation{Seal: seal(1), State: iface.NewAmount(100)},
			iface.FungibleAllocation{Seal: seal(2), State: iface.NewAmount(250)},
			iface.FungibleAllocation{Seal: seal(3), State: iface.NewAmount(650)},
		)
	if details {
		s.AddGlobal(fragment.GlobalDetails, strict.String("one of a kind"))
	}
	return s
}

func wrap(t *testing.T, f Features, s *memstate.State) Rgb25 {
	t.Helper()
	r, err := Wrap(iface.ContractIface{State: s, Iface: Iface(f)}, Options{})
	require.NoError(t, err)
	return r
}

func TestFeatureRoundTrip(t *testing.T) {
	all := AllFeatures()
	require.Len(t, all, 4)
	seen := map[iface.IfaceId]bool{}
	for _, f := range all {
		got, err := ExtractFeatures(Iface(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
		id := IfaceID(f)
		assert.False(t, seen[id], f.String())
		seen[id] = true

		found, ok := Class().Lookup(id)
		require.True(t, ok)
		assert.Equal(t, f, found)
	}
	assert.True(t, seen[BaseIfaceID])
	assert.True(t, seen[FullIfaceID])

	for _, f := range rgb20.AllFeatures() {
		assert.False(t, seen[rgb20.IfaceID(f)], "RGB20 %s shares an id with RGB25", f)
	}
}

func TestStepOrder(t *testing.T) {
	full := Iface(FullFeatures)
	assert.Equal(t, "RGB25Burnable", full.Name)
	assert.Equal(t, []string{
		fragment.NameNamedContract, fragment.NameFungible, fragment.NameRenameable, fragment.NameBurnable,
	}, full.Inherits)
	assert.Equal(t, "RGB25Base", Iface(Features{}).Name)
	assert.Equal(t, "renameable+burnable", FullFeatures.String())
	assert.Equal(t, "base", Features{}.String())
	assert.Equal(t, iface.FamilyNamedCollectible, FullFeatures.Family())
}

func TestExtractInconsistent(t *testing.T) {
	_, err := ExtractFeatures(rgb20.Iface(rgb20.Features{Inflation: rgb20.Inflatable}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, iface.ErrInconsistentCapabilities))
	assert.Equal(t, "RGB25-FEAT-001", iface.RuleID(err))
}

func TestWrapRejectsForeignInterface(t *testing.T) {
	for _, mode := range []compliance.ComplianceMode{compliance.Permissive, compliance.Strict} {
		_, err := Wrap(iface.ContractIface{State: testState(false), Iface: rgb20.Iface(rgb20.FullFeatures)}, Options{Mode: mode})
		require.Error(t, err, mode.String())
		assert.Equal(t, "RGB25-WRAP-001", iface.RuleID(err))
	}
	for _, f := range AllFeatures() {
		_, err := Wrap(iface.ContractIface{State: testState(false), Iface: Iface(f)}, Options{Mode: compliance.Strict})
		assert.NoError(t, err, f.String())
	}
}

func TestGetters(t *testing.T) {
	r := wrap(t, FullFeatures, testState(true))
	assert.Equal(t, "Collectible", r.Name().String())
	require.NotNil(t, r.Details())
	assert.Equal(t, "one of a kind", r.Details().String())
	assert.EqualValues(t, 5, r.Precision().Decimals())

	terms := r.ContractTerms()
	assert.Equal(t, "terms", terms.Text)
	require.NotNil(t, terms.Media)
	assert.Equal(t, "image/png", terms.Media.Type)

	assert.Equal(t, "1000000", r.TotalIssuedSupply().String())
	assert.Equal(t, "250000", r.TotalBurnedSupply().String())
	assert.Equal(t, "750000", r.TotalSupply().String())
	assert.Equal(t, "250", r.Balance(iface.NewOutpointSet(seal(2))).String())
	assert.Equal(t, "1000", r.Balance(iface.FilterIncludeAll).String())
}

func TestDetailsAbsent(t *testing.T) {
	r := wrap(t, Features{}, testState(false))
	assert.Nil(t, r.Details())
}

func TestNonBurnableDefaults(t *testing.T) {
	s := testState(false)
	delete(s.Globals, fragment.GlobalBurnedSupply)
	r := wrap(t, Features{Renaming: true}, s)
	assert.True(t, r.TotalBurnedSupply().IsZero())
	assert.Equal(t, "1000000", r.TotalSupply().String())
	assert.Panics(t, func() { r.BurnRight(iface.FilterIncludeAll) })
}

func TestInfo(t *testing.T) {
	r := wrap(t, Features{Burnable: true}, testState(true))
	info, err := r.Info()
	require.NoError(t, err)
	assert.Equal(t, "Collectible", info.Name)
	require.NotNil(t, info.Details)
	assert.Equal(t, "one of a kind", *info.Details)
	assert.Equal(t, Features{Burnable: true}, info.Features)
	assert.Equal(t, "250000", info.Burned.String())
	require.NotNil(t, info.Attachment)
}

func TestWrapUnrenderable(t *testing.T) {
	i := Iface(Features{})
	tr := i.Transitions[fragment.TransitionTransfer]
	tr.Errors = []string{"UNDECLARED"}
	i.Transitions[fragment.TransitionTransfer] = tr

	require.NotPanics(t, func() {
		for _, mode := range []compliance.ComplianceMode{compliance.Permissive, compliance.Strict} {
			_, err := Wrap(iface.ContractIface{State: testState(false), Iface: i}, Options{Mode: mode})
			require.Error(t, err, mode.String())
			assert.True(t, iface.IsKind(err, iface.KindSchema))
			assert.Equal(t, "IFACE-SCHEMA-006", iface.RuleID(err))
		}
		assert.Equal(t, "IFACE-SCHEMA-006", iface.RuleID(Check(i)))
	})
}

func TestRights(t *testing.T) {
	s := testState(false).
		AddRights(fragment.AssignUpdateRight, iface.RightsAllocation{Seal: seal(4)}).
		AddRights(fragment.AssignBurnRight,
			iface.RightsAllocation{Seal: seal(5)},
			iface.RightsAllocation{Seal: seal(6)},
		)
	r := wrap(t, FullFeatures, s)

	var update []iface.XOutpoint
	for a := range r.UpdateRight(iface.FilterIncludeAll) {
		update = append(update, a.Seal)
	}
	assert.Equal(t, []iface.XOutpoint{seal(4)}, update)

	var burn []iface.XOutpoint
	for a := range r.BurnRight(iface.NewOutpointSet(seal(6))) {
		burn = append(burn, a.Seal)
	}
	assert.Equal(t, []iface.XOutpoint{seal(6)}, burn)

	n := 0
	for range r.BurnRight(iface.FilterIncludeAll) {
		n++
	}
	assert.Equal(t, 2, n)
}

func TestTransferHistory(t *testing.T) {
	var txid iface.Txid
	txid[31] = 9
	w := iface.XWitnessId{Layer: iface.LayerBitcoin, Txid: txid}

	s := testState(false).AddHistory(fragment.AssignAssetOwner,
		iface.FungibleHistoryEntry{
			Witness: w,
			Inputs:  []iface.FungibleOutput{{Seal: seal(9), Amount: iface.NewAmount(100)}},
			Outputs: []iface.FungibleOutput{{Seal: seal(1), Amount: iface.NewAmount(100)}},
		},
		iface.FungibleHistoryEntry{
			Witness: w,
			Inputs:  []iface.FungibleOutput{{Seal: seal(1), Amount: iface.NewAmount(100)}},
			Outputs: []iface.FungibleOutput{{Seal: seal(8), Amount: iface.NewAmount(100)}},
		},
	)
	r := wrap(t, FullFeatures, s)

	ops := r.TransferHistory(iface.FilterIncludeAll, iface.NewOutpointSet(seal(1)))
	require.Len(t, ops, 1)
	op := ops[w]
	assert.Equal(t, "-100", op.StateChange.String(), "last record for a witness wins")
	assert.Equal(t, []iface.XOutpoint{seal(1)}, op.Inputs)
	assert.Equal(t, []iface.XOutpoint{seal(8)}, op.Beneficiaries)

	assert.Empty(t, r.TransferHistory(iface.NewWitnessSet(), iface.NewOutpointSet(seal(1))))
}
