package iface

import (
	"fmt"
	"iter"

	"lnp-bp.org/rgbiface/strict"
)

// ContractInfo carries contract metadata that is not part of its state.
type ContractInfo struct {
	ID ContractId
}

// ContractIface binds a contract's state to an interface it implements.
//
// Accessors only read the state store and never cache; each call reflects
// the store at that moment. Lookups of slots the interface does not declare
// fail with KindState errors.
type ContractIface struct {
	State ContractState
	Iface Iface
	Info  ContractInfo
}

func (c ContractIface) undeclared(kind, name string) error {
	return newError(KindState, "IFACE-STATE-001",
		fmt.Sprintf("interface %s does not declare %s state %q", c.Iface.Name, kind, name))
}

func (c ContractIface) assignment(name string, want OwnedStateKind) error {
	a, ok := c.Iface.Assignments[name]
	if !ok {
		return c.undeclared("owned", name)
	}
	if a.Kind != want {
		return newError(KindState, "IFACE-STATE-002",
			fmt.Sprintf("owned state %q of %s is %s, not %s", name, c.Iface.Name, a.Kind, want))
	}
	return nil
}

// Global returns the values of a declared global slot. An absent optional
// slot yields an empty slice.
func (c ContractIface) Global(name string) ([]strict.Value, error) {
	if !c.Iface.HasGlobal(name) {
		return nil, c.undeclared("global", name)
	}
	return c.State.GlobalState(name), nil
}

// Fungible enumerates unspent allocations of a fungible slot whose seal
// passes filter. A nil filter passes everything.
func (c ContractIface) Fungible(name string, filter OutpointFilter) (iter.Seq[FungibleAllocation], error) {
	if err := c.assignment(name, StateFungible); err != nil {
		return nil, err
	}
	src := c.State.FungibleState(name)
	filter = outpointsOrAll(filter)
	return func(yield func(FungibleAllocation) bool) {
		for a := range src {
			if !filter.IncludeOutpoint(a.Seal) {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}, nil
}

// Rights enumerates unspent rights of a rights slot whose seal passes
// filter. A nil filter passes everything.
func (c ContractIface) Rights(name string, filter OutpointFilter) (iter.Seq[RightsAllocation], error) {
	if err := c.assignment(name, StateRights); err != nil {
		return nil, err
	}
	src := c.State.RightsState(name)
	filter = outpointsOrAll(filter)
	return func(yield func(RightsAllocation) bool) {
		for a := range src {
			if !filter.IncludeOutpoint(a.Seal) {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}, nil
}

// FungibleOps reconstructs per-witness balance changes of a fungible slot.
//
// Seals passing outpoints are the owner's. For each history entry whose
// witness passes witnesses and which spends or creates at least one owned
// seal, the change is the sum of owned outputs minus the sum of owned inputs.
// When the store reports several entries for one witness, the last one in
// store order wins. Nil filters pass everything.
func (c ContractIface) FungibleOps(name string, witnesses WitnessFilter, outpoints OutpointFilter) (map[XWitnessId]IfaceOp[AmountChange], error) {
	if err := c.assignment(name, StateFungible); err != nil {
		return nil, err
	}
	witnesses, outpoints = witnessesOrAll(witnesses), outpointsOrAll(outpoints)
	ops := make(map[XWitnessId]IfaceOp[AmountChange])
	for e := range c.State.FungibleHistory(name) {
		if !witnesses.IncludeWitness(e.Witness) {
			continue
		}
		var op IfaceOp[AmountChange]
		var spent, received []Amount
		owned := false
		for _, in := range e.Inputs {
			if outpoints.IncludeOutpoint(in.Seal) {
				owned = true
				op.Inputs = append(op.Inputs, in.Seal)
				spent = append(spent, in.Amount)
			} else {
				op.Payers = append(op.Payers, in.Seal)
			}
		}
		for _, out := range e.Outputs {
			if outpoints.IncludeOutpoint(out.Seal) {
				owned = true
				received = append(received, out.Amount)
			} else {
				op.Beneficiaries = append(op.Beneficiaries, out.Seal)
			}
		}
		if !owned {
			continue
		}
		op.Opids = []Opid{e.Opid}
		op.StateChange = NewAmountChange(SumAmounts(spent...), SumAmounts(received...))
		ops[e.Witness] = op
	}
	return ops, nil
}
