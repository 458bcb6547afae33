package rgb20

import (
	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
)

// IfaceName is the interface class name.
const IfaceName = "RGB20"

// Step is one extension in a composition.
type Step struct {
	Fragment iface.Iface
	Name     string
}

// Steps returns the ordered extensions that build the interface for f on top
// of the NamedAsset root. The order is fixed: fungibility, renaming, the
// supply fragment (fixed or inflatable), burning, replacement.
func Steps(f Features) []Step {
	steps := []Step{{Fragment: fragment.Fungible(), Name: "RGB20Base"}}
	if f.Renaming {
		steps = append(steps, Step{Fragment: fragment.Renameable(), Name: "RGB20Renamable"})
	}
	if f.Inflation.IsFixed() {
		steps = append(steps, Step{Fragment: fragment.Fixed(), Name: "RGB20Fixed"})
	} else if f.Inflation.IsInflatable() {
		steps = append(steps, Step{Fragment: fragment.Inflatable(), Name: "RGB20Inflatable"})
	}
	if f.Inflation.IsBurnable() {
		steps = append(steps, Step{Fragment: fragment.Burnable(), Name: "RGB20Burnable"})
	}
	if f.Inflation.IsReplaceable() {
		steps = append(steps, Step{Fragment: fragment.Replaceable(), Name: "RGB20Replaceable"})
	}
	return steps
}

// Iface composes the RGB20 interface for f.
func Iface(f Features) iface.Iface {
	out := fragment.NamedAsset()
	for _, s := range Steps(f) {
		out = out.ExpectExtended(s.Fragment, s.Name)
	}
	return out
}

// IfaceID is the identifier of Iface(f). It is the only way RGB20
// identifiers are computed.
func IfaceID(f Features) iface.IfaceId { return Iface(f).ID() }

var (
	// FixedIfaceID identifies the plain fixed-supply asset.
	FixedIfaceID = IfaceID(Features{Inflation: Fixed})
	// FullIfaceID identifies the asset with every capability.
	FullIfaceID = IfaceID(FullFeatures)
)

// Class describes RGB20 and every composition it admits.
func Class() iface.Class {
	all := AllFeatures()
	fs := make([]iface.FeatureSet, 0, len(all))
	for _, f := range all {
		fs = append(fs, f)
	}
	return iface.Class{Name: IfaceName, Family: iface.FamilyFungibleToken, Features: fs}
}
