// Package rgb25 is the RGB25 named collectible interface class: contracts
// with a name, optional details and a precision instead of a ticker-bearing
// asset specification, and without secondary issuance.
package rgb25

import (
	"fmt"
	"strings"

	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
)

// Features is an RGB25 capability selection.
type Features struct {
	Renaming bool `json:"renaming" yaml:"renaming"`
	Burnable bool `json:"burnable" yaml:"burnable"`
}

// FullFeatures enables every capability.
var FullFeatures = Features{Renaming: true, Burnable: true}

// AllFeatures lists the four legal selections.
func AllFeatures() []Features {
	return []Features{
		{},
		{Renaming: true},
		{Burnable: true},
		{Renaming: true, Burnable: true},
	}
}

func (f Features) Family() iface.AssetFamily { return iface.FamilyNamedCollectible }

func (f Features) Iface() iface.Iface { return Iface(f) }

// Labels lists the enabled capabilities in composition order.
func (f Features) Labels() []string {
	var out []string
	for _, s := range Steps(f)[1:] {
		out = append(out, s.Fragment.Name)
	}
	return out
}

func (f Features) String() string {
	labels := f.Labels()
	if len(labels) == 0 {
		return "base"
	}
	return strings.ToLower(strings.Join(labels, "+"))
}

// ExtractFeatures recovers the selection from an observed interface.
// Issuance and replacement have no RGB25 composition, so an interface
// declaring them is inconsistent.
func ExtractFeatures(i iface.Iface) (Features, error) {
	for _, t := range []string{fragment.TransitionIssue, fragment.TransitionReplace} {
		if i.HasTransition(t) {
			return Features{}, iface.Inconsistent("RGB25-FEAT-001",
				fmt.Sprintf("interface %s declares %s, which no RGB25 composition has", i.Name, t))
		}
	}
	return Features{
		Renaming: i.HasTransition(fragment.TransitionRename),
		Burnable: i.HasTransition(fragment.TransitionBurn),
	}, nil
}
