// Package rgb20 is the RGB20 fungible asset interface class: the composer
// that builds an interface from a feature selection, the extractor that
// recovers the selection from an observed interface, and the typed view of a
// contract bound to it.
package rgb20

import (
	"fmt"

	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
)

// Inflation is the supply policy of an asset.
type Inflation uint8

const (
	Fixed Inflation = iota
	Inflatable
	Burnable
	InflatableBurnable
	Replaceable
)

var inflationNames = [...]string{"fixed", "inflatable", "burnable", "inflatableBurnable", "replaceable"}

// Inflations lists every supply policy.
var Inflations = []Inflation{Fixed, Inflatable, Burnable, InflatableBurnable, Replaceable}

func (i Inflation) String() string {
	if int(i) < len(inflationNames) {
		return inflationNames[i]
	}
	return fmt.Sprintf("Inflation(%d)", uint8(i))
}

// ParseInflation reads a policy name as printed by String.
func ParseInflation(s string) (Inflation, error) {
	for i, n := range inflationNames {
		if n == s {
			return Inflation(i), nil
		}
	}
	return 0, iface.NewError(iface.KindParse, "RGB20-FEAT-002", fmt.Sprintf("unknown inflation mode %q", s))
}

// IsFixed reports a supply closed at genesis.
func (i Inflation) IsFixed() bool { return i == Fixed }

// IsInflatable reports whether secondary issuance is allowed.
func (i Inflation) IsInflatable() bool {
	return i == Inflatable || i == InflatableBurnable || i == Replaceable
}

// IsBurnable reports whether supply can be burned.
func (i Inflation) IsBurnable() bool {
	return i == Burnable || i == InflatableBurnable || i == Replaceable
}

// IsReplaceable reports burn-and-replace epochs.
func (i Inflation) IsReplaceable() bool { return i == Replaceable }

func (i Inflation) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Inflation) UnmarshalText(b []byte) error {
	p, err := ParseInflation(string(b))
	if err != nil {
		return err
	}
	*i = p
	return nil
}

// Features is an RGB20 capability selection.
type Features struct {
	Renaming  bool      `json:"renaming" yaml:"renaming"`
	Inflation Inflation `json:"inflation" yaml:"inflation"`
}

// FullFeatures enables every capability.
var FullFeatures = Features{Renaming: true, Inflation: Replaceable}

// AllFeatures lists every legal selection: each supply policy with and
// without renaming.
func AllFeatures() []Features {
	out := make([]Features, 0, 2*len(Inflations))
	for _, renaming := range []bool{false, true} {
		for _, inf := range Inflations {
			out = append(out, Features{Renaming: renaming, Inflation: inf})
		}
	}
	return out
}

func (f Features) Family() iface.AssetFamily { return iface.FamilyFungibleToken }

// Iface composes the interface for the selection.
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
	if f.Renaming {
		return "renameable+" + f.Inflation.String()
	}
	return f.Inflation.String()
}

// ExtractFeatures recovers the selection from the transitions an observed
// interface declares. Marker combinations that no composition produces are
// reported as KindInconsistent errors.
func ExtractFeatures(i iface.Iface) (Features, error) {
	f := Features{Renaming: i.HasTransition(fragment.TransitionRename)}
	inflatable := i.HasTransition(fragment.TransitionIssue)
	burnable := i.HasTransition(fragment.TransitionBurn)
	replaceable := i.HasTransition(fragment.TransitionReplace)

	switch {
	case inflatable && burnable && replaceable:
		f.Inflation = Replaceable
	case inflatable && burnable && !replaceable:
		f.Inflation = InflatableBurnable
	case !inflatable && burnable && !replaceable:
		f.Inflation = Burnable
	case inflatable && !burnable && !replaceable:
		f.Inflation = Inflatable
	case !inflatable && !burnable && !replaceable:
		f.Inflation = Fixed
	default:
		return Features{}, iface.Inconsistent("RGB20-FEAT-001", fmt.Sprintf(
			"interface %s declares replace without issue and burn (issue=%t burn=%t replace=%t)",
			i.Name, inflatable, burnable, replaceable))
	}
	return f, nil
}
