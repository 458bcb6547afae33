package iface

import (
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnp-bp.org/rgbiface/strict"
)

type fakeState struct {
	globals  map[string][]strict.Value
	fungible map[string][]FungibleAllocation
	rights   map[string][]RightsAllocation
	history  map[string][]FungibleHistoryEntry
}

func (s fakeState) GlobalState(name string) []strict.Value { return s.globals[name] }

func (s fakeState) FungibleState(name string) iter.Seq[FungibleAllocation] {
	return slices.Values(s.fungible[name])
}

func (s fakeState) RightsState(name string) iter.Seq[RightsAllocation] {
	return slices.Values(s.rights[name])
}

func (s fakeState) FungibleHistory(name string) iter.Seq[FungibleHistoryEntry] {
	return slices.Values(s.history[name])
}

func outpoint(b byte, vout uint32) XOutpoint {
	var txid Txid
	txid[0] = b
	return XOutpoint{Layer: LayerBitcoin, Txid: txid, Vout: vout}
}

func witness(b byte) XWitnessId {
	var txid Txid
	txid[31] = b
	return XWitnessId{Layer: LayerBitcoin, Txid: txid}
}

func testContract() ContractIface {
	root := testRoot()
	root.Assignments["right"] = AssignIface{Kind: StateRights, Public: true}
	st := fakeState{
		globals: map[string][]strict.Value{"supply": {strict.Uint(1000)}},
		fungible: map[string][]FungibleAllocation{"owner": {
			{Seal: outpoint(1, 0), State: NewAmount(100)},
			{Seal: outpoint(2, 0), State: NewAmount(250)},
			{Seal: outpoint(3, 0), State: NewAmount(650)},
		}},
		rights: map[string][]RightsAllocation{"right": {
			{Seal: outpoint(1, 1)},
		}},
		history: map[string][]FungibleHistoryEntry{"owner": {
			{
				Witness: witness(1),
				Inputs:  []FungibleOutput{{Seal: outpoint(9, 0), Amount: NewAmount(400)}},
				Outputs: []FungibleOutput{{Seal: outpoint(1, 0), Amount: NewAmount(100)}, {Seal: outpoint(9, 1), Amount: NewAmount(300)}},
			},
			{
				Witness: witness(2),
				Inputs:  []FungibleOutput{{Seal: outpoint(1, 0), Amount: NewAmount(100)}},
				Outputs: []FungibleOutput{{Seal: outpoint(8, 0), Amount: NewAmount(60)}, {Seal: outpoint(2, 0), Amount: NewAmount(40)}},
			},
			{
				Witness: witness(3),
				Inputs:  []FungibleOutput{{Seal: outpoint(7, 0), Amount: NewAmount(5)}},
				Outputs: []FungibleOutput{{Seal: outpoint(7, 1), Amount: NewAmount(5)}},
			},
		}},
	}
	return ContractIface{State: st, Iface: root}
}

func TestGlobal(t *testing.T) {
	c := testContract()
	vals, err := c.Global("supply")
	require.NoError(t, err)
	require.Len(t, vals, 1)

	_, err = c.Global("nope")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindState))
	assert.Equal(t, "IFACE-STATE-001", RuleID(err))
}

func TestFungibleFilter(t *testing.T) {
	c := testContract()

	all, err := c.Fungible("owner", FilterIncludeAll)
	require.NoError(t, err)
	var amounts []uint64
	for a := range all {
		n, _ := a.State.Uint64()
		amounts = append(amounts, n)
	}
	assert.Equal(t, []uint64{100, 250, 650}, amounts)

	some, err := c.Fungible("owner", NewOutpointSet(outpoint(2, 0)))
	require.NoError(t, err)
	var got []XOutpoint
	for a := range some {
		got = append(got, a.Seal)
	}
	assert.Equal(t, []XOutpoint{outpoint(2, 0)}, got)

	excl, err := c.Fungible("owner", FilterExclude{Outpoints: NewOutpointSet(outpoint(2, 0))})
	require.NoError(t, err)
	n := 0
	for range excl {
		n++
	}
	assert.Equal(t, 2, n)
}

func TestFungibleEarlyBreak(t *testing.T) {
	c := testContract()
	seq, err := c.Fungible("owner", FilterIncludeAll)
	require.NoError(t, err)
	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestSlotKindChecks(t *testing.T) {
	c := testContract()

	_, err := c.Fungible("right", FilterIncludeAll)
	assert.Equal(t, "IFACE-STATE-002", RuleID(err))

	_, err = c.Rights("owner", FilterIncludeAll)
	assert.Equal(t, "IFACE-STATE-002", RuleID(err))

	_, err = c.Rights("missing", FilterIncludeAll)
	assert.Equal(t, "IFACE-STATE-001", RuleID(err))

	rights, err := c.Rights("right", OutpointFunc(func(o XOutpoint) bool { return o.Vout == 1 }))
	require.NoError(t, err)
	n := 0
	for range rights {
		n++
	}
	assert.Equal(t, 1, n)
}

func TestFungibleOps(t *testing.T) {
	c := testContract()
	mine := NewOutpointSet(outpoint(1, 0), outpoint(2, 0))

	ops, err := c.FungibleOps("owner", FilterIncludeAll, mine)
	require.NoError(t, err)
	require.Len(t, ops, 2, "witness 3 touches no owned seal")

	in := ops[witness(1)]
	assert.Equal(t, ChangeInc, in.StateChange.Sign)
	assert.Equal(t, "100", in.StateChange.Amount.String())
	assert.Equal(t, []XOutpoint{outpoint(9, 0)}, in.Payers)
	assert.Equal(t, []XOutpoint{outpoint(9, 1)}, in.Beneficiaries)

	out := ops[witness(2)]
	assert.Equal(t, ChangeDec, out.StateChange.Sign)
	assert.Equal(t, "60", out.StateChange.Amount.String())
	assert.Equal(t, []XOutpoint{outpoint(1, 0)}, out.Inputs)

	only, err := c.FungibleOps("owner", NewWitnessSet(witness(2)), mine)
	require.NoError(t, err)
	assert.Len(t, only, 1)
	assert.Contains(t, only, witness(2))
}

func TestFungibleOpsLastEntryWins(t *testing.T) {
	c := testContract()
	st := c.State.(fakeState)
	st.history["owner"] = append(st.history["owner"], FungibleHistoryEntry{
		Witness: witness(1),
		Outputs: []FungibleOutput{{Seal: outpoint(1, 0), Amount: NewAmount(7)}},
	})

	ops, err := c.FungibleOps("owner", FilterIncludeAll, NewOutpointSet(outpoint(1, 0)))
	require.NoError(t, err)
	assert.Equal(t, "7", ops[witness(1)].StateChange.Amount.String())
	assert.Equal(t, ChangeInc, ops[witness(1)].StateChange.Sign)
}

func TestNilFiltersPassEverything(t *testing.T) {
	c := testContract()

	seq, err := c.Fungible("owner", nil)
	require.NoError(t, err)
	n := 0
	for range seq {
		n++
	}
	assert.Equal(t, 3, n)

	rights, err := c.Rights("right", nil)
	require.NoError(t, err)
	n = 0
	for range rights {
		n++
	}
	assert.Equal(t, 1, n)

	ops, err := c.FungibleOps("owner", nil, nil)
	require.NoError(t, err)
	assert.Len(t, ops, 3)

	mine, err := c.FungibleOps("owner", nil, NewOutpointSet(outpoint(1, 0)))
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
