package iface

import (
	"fmt"
	"strings"
)

// AssetFamily selects the fragment library and global-field contract an
// interface belongs to.
type AssetFamily string

const (
	FamilyFungibleToken    AssetFamily = "fungible-token"
	FamilyNamedCollectible AssetFamily = "named-collectible"
)

// Families lists every known family.
var Families = []AssetFamily{FamilyFungibleToken, FamilyNamedCollectible}

// ClassName is the interface class standardized for the family.
func (f AssetFamily) ClassName() string {
	switch f {
	case FamilyFungibleToken:
		return "RGB20"
	case FamilyNamedCollectible:
		return "RGB25"
	}
	return ""
}

func (f AssetFamily) String() string { return string(f) }

// ParseAssetFamily accepts a family tag or its class name, case-insensitively.
func ParseAssetFamily(s string) (AssetFamily, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Families {
		if norm == string(f) || norm == strings.ToLower(f.ClassName()) {
			return f, nil
		}
	}
	return "", newError(KindParse, "IFACE-FAMILY-001", fmt.Sprintf("unrecognized asset family %q", s))
}

func (f AssetFamily) MarshalText() ([]byte, error) { return []byte(f), nil }

func (f *AssetFamily) UnmarshalText(b []byte) error {
	parsed, err := ParseAssetFamily(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FeatureSet is a family's capability selection. Composers turn one into an
// interface; extractors recover one from an observed interface.
type FeatureSet interface {
	Family() AssetFamily
	// Iface composes the interface for the selection.
	Iface() Iface
	// Labels lists enabled capabilities in composition order.
	Labels() []string
}
