package iface

// Class describes a standardized interface class: its family, its name and
// every feature selection it admits.
type Class struct {
	Name     string
	Family   AssetFamily
	Features []FeatureSet
}

// IDs returns the identifier of every admitted composition, in Features
// order.
func (c Class) IDs() []IfaceId {
	out := make([]IfaceId, 0, len(c.Features))
	for _, f := range c.Features {
		out = append(out, f.Iface().ID())
	}
	return out
}

// Lookup finds the feature selection whose composition has the given id.
func (c Class) Lookup(id IfaceId) (FeatureSet, bool) {
	for _, f := range c.Features {
		if f.Iface().ID() == id {
			return f, true
		}
	}
	return nil, false
}
