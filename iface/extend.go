package iface

import (
	"fmt"
	"sort"
)

// Extended layers ext onto i and returns the result named name.
//
// Neither i nor ext is modified. The returned interface inherits i's chain
// followed by ext.Name. On failure the returned Iface is the zero value; a
// partially merged interface is never observable.
func (i Iface) Extended(ext Iface, name string) (Iface, error) {
	if ext.Incomplete {
		return Iface{}, newError(KindSchema, "IFACE-SCHEMA-001",
			fmt.Sprintf("fragment %s is incomplete and cannot be composed", ext.Name))
	}
	if !isIdent(name) {
		return Iface{}, newError(KindSchema, "IFACE-SCHEMA-005", fmt.Sprintf("invalid interface name %q", name))
	}
	for _, req := range ext.Requires {
		kind, n, ok := splitRequirement(req)
		if !ok {
			return Iface{}, newError(KindSchema, "IFACE-SCHEMA-005",
				fmt.Sprintf("fragment %s has invalid requirement %q", ext.Name, req))
		}
		if !i.declares(kind, n) {
			return Iface{}, newError(KindSchema, "IFACE-SCHEMA-002",
				fmt.Sprintf("fragment %s requires %s %q which %s does not declare", ext.Name, kind, n, i.Name))
		}
	}

	out := i.Clone()
	out.Name = name
	if len(out.Inherits) == 0 {
		// a root interface is the first link of its own chain
		out.Inherits = []string{i.Name}
	}
	out.Inherits = append(out.Inherits, ext.Name)
	if out.Developer == "" {
		out.Developer = ext.Developer
	}

	for _, n := range sortedKeys(ext.Globals) {
		g := ext.Globals[n]
		if prev, ok := out.Globals[n]; ok {
			if prev.SemID != g.SemID || (prev.Multiple && !g.Multiple) || (prev.Required && !g.Required) {
				return Iface{}, redeclared(ext.Name, "global", n)
			}
		}
		out.Globals[n] = g
	}
	for _, n := range sortedKeys(ext.Assignments) {
		a := ext.Assignments[n]
		if prev, ok := out.Assignments[n]; ok {
			if prev.Kind != a.Kind || prev.Public != a.Public || (prev.Multiple && !a.Multiple) || (prev.Required && !a.Required) {
				return Iface{}, redeclared(ext.Name, "assignment", n)
			}
		}
		out.Assignments[n] = a
	}
	for _, n := range sortedKeys(ext.Errors) {
		msg := ext.Errors[n]
		if prev, ok := out.Errors[n]; ok && prev != msg {
			return Iface{}, redeclared(ext.Name, "error", n)
		}
		out.Errors[n] = msg
	}

	g, err := mergeGenesis(out.Genesis, ext.Genesis, ext.Name)
	if err != nil {
		return Iface{}, err
	}
	out.Genesis = g

	for _, n := range sortedKeys(ext.Transitions) {
		t := ext.Transitions[n]
		prev, ok := out.Transitions[n]
		if !ok {
			out.Transitions[n] = t.clone()
			continue
		}
		merged, err := mergeTransition(prev, t, ext.Name, n)
		if err != nil {
			return Iface{}, err
		}
		out.Transitions[n] = merged
	}

	if ext.DefaultOperation != "" {
		if out.DefaultOperation != "" && out.DefaultOperation != ext.DefaultOperation {
			return Iface{}, redeclared(ext.Name, "default operation", ext.DefaultOperation)
		}
		out.DefaultOperation = ext.DefaultOperation
	}

	// Requirements are satisfied by the base; what the base itself still
	// imports remains outstanding.
	out.Requires = append([]string(nil), i.Requires...)
	out.Incomplete = false

	if err := out.Validate(); err != nil {
		return Iface{}, err
	}
	return out, nil
}

// ExpectExtended is Extended for composers whose fragment order is fixed at
// compile time. It panics if the extension fails.
func (i Iface) ExpectExtended(ext Iface, name string) Iface {
	out, err := i.Extended(ext, name)
	if err != nil {
		panic(fmt.Sprintf("interface %s cannot be extended with %s: %v", i.Name, ext.Name, err))
	}
	return out
}

func redeclared(frag, what, name string) error {
	return newError(KindSchema, "IFACE-SCHEMA-003",
		fmt.Sprintf("fragment %s redeclares %s %q incompatibly", frag, what, name))
}

func mergeGenesis(base, ext GenesisIface, frag string) (GenesisIface, error) {
	out := base.clone()
	if ext.Metadata != "" {
		if out.Metadata != "" && out.Metadata != ext.Metadata {
			return GenesisIface{}, redeclared(frag, "genesis metadata", ext.Metadata)
		}
		out.Metadata = ext.Metadata
	}
	var err error
	if out.Globals, err = mergeArgs(out.Globals, ext.Globals, frag, "genesis"); err != nil {
		return GenesisIface{}, err
	}
	if out.Assignments, err = mergeArgs(out.Assignments, ext.Assignments, frag, "genesis"); err != nil {
		return GenesisIface{}, err
	}
	out.Errors = unionSorted(out.Errors, ext.Errors)
	return out, nil
}

func mergeTransition(base, ext TransitionIface, frag, name string) (TransitionIface, error) {
	out := base.clone()
	where := "transition " + name
	if !base.Optional && ext.Optional {
		return TransitionIface{}, newError(KindSchema, "IFACE-SCHEMA-004",
			fmt.Sprintf("fragment %s makes mandatory %s optional", frag, where))
	}
	out.Optional = ext.Optional
	if ext.Metadata != "" {
		if out.Metadata != "" && out.Metadata != ext.Metadata {
			return TransitionIface{}, redeclared(frag, where+" metadata", ext.Metadata)
		}
		out.Metadata = ext.Metadata
	}
	var err error
	if out.Globals, err = mergeArgs(out.Globals, ext.Globals, frag, where); err != nil {
		return TransitionIface{}, err
	}
	if out.Inputs, err = mergeArgs(out.Inputs, ext.Inputs, frag, where); err != nil {
		return TransitionIface{}, err
	}
	if out.Assignments, err = mergeArgs(out.Assignments, ext.Assignments, frag, where); err != nil {
		return TransitionIface{}, err
	}
	out.Errors = unionSorted(out.Errors, ext.Errors)
	if ext.DefaultAssignment != "" {
		if out.DefaultAssignment != "" && out.DefaultAssignment != ext.DefaultAssignment {
			return TransitionIface{}, redeclared(frag, where+" default assignment", ext.DefaultAssignment)
		}
		out.DefaultAssignment = ext.DefaultAssignment
	}
	return out, nil
}

// mergeArgs lets an extension refine an argument's arity as long as a
// required argument stays required.
func mergeArgs(base, ext Args, frag, where string) (Args, error) {
	out := base.clone()
	for _, n := range sortedKeys(ext) {
		occ := ext[n]
		if prev, ok := out[n]; ok && prev.Required() && !occ.Required() {
			return nil, newError(KindSchema, "IFACE-SCHEMA-004",
				fmt.Sprintf("fragment %s relaxes required argument %q of %s from %s to %s", frag, n, where, prev, occ))
		}
		out[n] = occ
	}
	return out, nil
}

func unionSorted(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
