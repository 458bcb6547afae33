package rgb25

import (
	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
)

// IfaceName is the interface class name.
const IfaceName = "RGB25"

// Step is one extension in a composition.
type Step struct {
	Fragment iface.Iface
	Name     string
}

// Steps returns the ordered extensions applied to the NamedContract root:
// fungibility, then renaming, then burning.
func Steps(f Features) []Step {
	steps := []Step{{Fragment: fragment.Fungible(), Name: "RGB25Base"}}
	if f.Renaming {
		steps = append(steps, Step{Fragment: fragment.Renameable(), Name: "RGB25Renameable"})
	}
	if f.Burnable {
		steps = append(steps, Step{Fragment: fragment.Burnable(), Name: "RGB25Burnable"})
	}
	return steps
}

// Iface composes the RGB25 interface for f.
func Iface(f Features) iface.Iface {
	out := fragment.NamedContract()
	for _, s := range Steps(f) {
		out = out.ExpectExtended(s.Fragment, s.Name)
	}
	return out
}

// IfaceID is the identifier of Iface(f).
func IfaceID(f Features) iface.IfaceId { return Iface(f).ID() }

var (
	// BaseIfaceID identifies the collectible with no optional capability.
	BaseIfaceID = IfaceID(Features{})
	// FullIfaceID identifies the renameable, burnable collectible.
	FullIfaceID = IfaceID(FullFeatures)
)

// Class describes RGB25 and every composition it admits.
func Class() iface.Class {
	all := AllFeatures()
	fs := make([]iface.FeatureSet, 0, len(all))
	for _, f := range all {
		fs = append(fs, f)
	}
	return iface.Class{Name: IfaceName, Family: iface.FamilyNamedCollectible, Features: fs}
}
