// Package accessor holds the lookups shared by the typed interface classes.
//
// The Must* helpers panic: a bound contract whose interface lacks mandatory
// state, or whose store returns undecodable values, is corrupt, and the
// typed getters have no error to report it through.
package accessor

import (
	"fmt"
	"iter"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/stl"
	"lnp-bp.org/rgbiface/strict"
)

// MustGlobal returns a declared global slot.
func MustGlobal(c iface.ContractIface, class, name string) []strict.Value {
	vals, err := c.Global(name)
	if err != nil {
		panic(fmt.Sprintf("%s interface requires global state `%s`", class, name))
	}
	return vals
}

// MustFirst returns the first value of a mandatory global slot.
func MustFirst(c iface.ContractIface, class, name string) strict.Value {
	vals := MustGlobal(c, class, name)
	if len(vals) == 0 {
		panic(fmt.Sprintf("%s contract has no value for global state `%s`", class, name))
	}
	return vals[0]
}

// OptionalGlobal returns a global slot, or nothing if the interface does not
// declare it.
func OptionalGlobal(c iface.ContractIface, name string) []strict.Value {
	vals, err := c.Global(name)
	if err != nil {
		return nil
	}
	return vals
}

// MustDecode decodes a value taken from the store.
func MustDecode[T any](class, name string, v strict.Value, decode func(strict.Value) (T, error)) T {
	out, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("%s global state `%s` holds an invalid value %s: %v", class, name, v, err))
	}
	return out
}

// MustSum adds the amounts held by a global slot.
func MustSum(class, name string, vals []strict.Value) iface.Amount {
	amounts := make([]iface.Amount, 0, len(vals))
	for _, v := range vals {
		amounts = append(amounts, MustDecode(class, name, v, stl.AmountFromStrict))
	}
	return iface.SumAmounts(amounts...)
}

// MustFungible enumerates a declared fungible slot.
func MustFungible(c iface.ContractIface, class, name string, filter iface.OutpointFilter) iter.Seq[iface.FungibleAllocation] {
	seq, err := c.Fungible(name, filter)
	if err != nil {
		panic(fmt.Sprintf("%s interface requires `%s` state: %v", class, name, err))
	}
	return seq
}

// MustRights enumerates a declared rights slot.
func MustRights(c iface.ContractIface, class, name string, filter iface.OutpointFilter) iter.Seq[iface.RightsAllocation] {
	seq, err := c.Rights(name, filter)
	if err != nil {
		panic(fmt.Sprintf("%s interface requires `%s` state: %v", class, name, err))
	}
	return seq
}

// Balance sums allocation amounts.
func Balance(allocs iter.Seq[iface.FungibleAllocation]) iface.Amount {
	sum := iface.Amount{}
	for a := range allocs {
		sum = sum.Add(a.State)
	}
	return sum
}

// MustHistory reconstructs per-witness changes of a declared fungible slot.
func MustHistory(c iface.ContractIface, class, name string, wf iface.WitnessFilter, of iface.OutpointFilter) map[iface.XWitnessId]iface.IfaceOp[iface.AmountChange] {
	ops, err := c.FungibleOps(name, wf, of)
	if err != nil {
		panic(fmt.Sprintf("%s interface requires `%s` state: %v", class, name, err))
	}
	return ops
}

// Slot names a piece of state a typed class reads.
type Slot struct {
	Name string
	// Global is true for global slots; otherwise Kind is the owned state kind.
	Global bool
	Kind   iface.OwnedStateKind
}

// CheckSlots verifies the interface declares each slot with the right kind.
func CheckSlots(i iface.Iface, class string, slots []Slot) error {
	for _, s := range slots {
		if s.Global {
			if !i.HasGlobal(s.Name) {
				return iface.NewError(iface.KindState, "IFACE-STATE-001",
					fmt.Sprintf("%s interface %s does not declare global state `%s`", class, i.Name, s.Name))
			}
			continue
		}
		a, ok := i.Assignments[s.Name]
		if !ok {
			return iface.NewError(iface.KindState, "IFACE-STATE-001",
				fmt.Sprintf("%s interface %s does not declare owned state `%s`", class, i.Name, s.Name))
		}
		if a.Kind != s.Kind {
			return iface.NewError(iface.KindState, "IFACE-STATE-002",
				fmt.Sprintf("%s interface %s declares `%s` as %s, expected %s", class, i.Name, s.Name, a.Kind, s.Kind))
		}
	}
	return nil
}
