package iface

// OutpointFilter selects allocations by seal.
type OutpointFilter interface {
	IncludeOutpoint(XOutpoint) bool
}

// WitnessFilter selects operations by witness transaction.
type WitnessFilter interface {
	IncludeWitness(XWitnessId) bool
}

type includeAll struct{}

func (includeAll) IncludeOutpoint(XOutpoint) bool  { return true }
func (includeAll) IncludeWitness(XWitnessId) bool { return true }

// FilterIncludeAll passes every outpoint and every witness.
var FilterIncludeAll interface {
	OutpointFilter
	WitnessFilter
} = includeAll{}

func outpointsOrAll(f OutpointFilter) OutpointFilter {
	if f == nil {
		return includeAll{}
	}
	return f
}

func witnessesOrAll(f WitnessFilter) WitnessFilter {
	if f == nil {
		return includeAll{}
	}
	return f
}

// FilterExclude inverts the wrapped filters. A nil member excludes nothing.
type FilterExclude struct {
	Outpoints OutpointFilter
	Witnesses WitnessFilter
}

func (f FilterExclude) IncludeOutpoint(o XOutpoint) bool {
	return f.Outpoints == nil || !f.Outpoints.IncludeOutpoint(o)
}

func (f FilterExclude) IncludeWitness(w XWitnessId) bool {
	return f.Witnesses == nil || !f.Witnesses.IncludeWitness(w)
}

// OutpointSet passes the outpoints it contains.
type OutpointSet map[XOutpoint]struct{}

func NewOutpointSet(outpoints ...XOutpoint) OutpointSet {
	s := make(OutpointSet, len(outpoints))
	for _, o := range outpoints {
		s[o] = struct{}{}
	}
	return s
}

func (s OutpointSet) IncludeOutpoint(o XOutpoint) bool {
	_, ok := s[o]
	return ok
}

// WitnessSet passes the witnesses it contains.
type WitnessSet map[XWitnessId]struct{}

func NewWitnessSet(witnesses ...XWitnessId) WitnessSet {
	s := make(WitnessSet, len(witnesses))
	for _, w := range witnesses {
		s[w] = struct{}{}
	}
	return s
}

func (s WitnessSet) IncludeWitness(w XWitnessId) bool {
	_, ok := s[w]
	return ok
}

// OutpointFunc adapts a predicate to OutpointFilter.
type OutpointFunc func(XOutpoint) bool

func (f OutpointFunc) IncludeOutpoint(o XOutpoint) bool { return f(o) }

// WitnessFunc adapts a predicate to WitnessFilter.
type WitnessFunc func(XWitnessId) bool

func (f WitnessFunc) IncludeWitness(w XWitnessId) bool { return f(w) }
