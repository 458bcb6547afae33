package iface

import (
	"iter"

	"lnp-bp.org/rgbiface/strict"
)

// FungibleAllocation is an unspent fungible assignment.
type FungibleAllocation struct {
	Opout   Opout
	Seal    XOutpoint
	Witness XWitnessId
	State   Amount
}

// RightsAllocation is an unspent declarative right.
type RightsAllocation struct {
	Opout   Opout
	Seal    XOutpoint
	Witness XWitnessId
}

// FungibleOutput is one fungible assignment consumed or created by an
// operation.
type FungibleOutput struct {
	Opout  Opout
	Seal   XOutpoint
	Amount Amount
}

// FungibleHistoryEntry is an operation's effect on a fungible slot as
// recorded by the store.
type FungibleHistoryEntry struct {
	Witness XWitnessId
	Opid    Opid
	Inputs  []FungibleOutput
	Outputs []FungibleOutput
}

// ContractState is the contract-state store as seen through slot names.
//
// Implementations own consensus validation; everything they return is taken
// as valid. Sequences follow the store's own enumeration order and must be
// finite.
type ContractState interface {
	// GlobalState returns the values of a global slot, oldest first.
	GlobalState(name string) []strict.Value
	// FungibleState enumerates unspent fungible allocations of a slot.
	FungibleState(name string) iter.Seq[FungibleAllocation]
	// RightsState enumerates unspent rights of a slot.
	RightsState(name string) iter.Seq[RightsAllocation]
	// FungibleHistory enumerates operations that touched a fungible slot.
	FungibleHistory(name string) iter.Seq[FungibleHistoryEntry]
}

// IfaceOp summarizes one witness's effect on an owner.
type IfaceOp[S any] struct {
	Opids []Opid
	// Inputs are the owner's seals spent by the operation.
	Inputs []XOutpoint
	// Payers are spent seals that do not belong to the owner.
	Payers []XOutpoint
	// Beneficiaries are created seals that do not belong to the owner.
	Beneficiaries []XOutpoint
	StateChange   S
}
