// Package iface models RGB contract interfaces: declarative schemas listing
// the global state, owned state and state transitions a conforming contract
// exposes.
//
// Interfaces are built by layering capability fragments onto a base with
// Extended, serialized to a single canonical text form with Render, and
// identified by the sha2-256 digest of that form (IfaceId). Parse is the strict
// inverse of Render and is the entry point for interfaces that arrive from
// untrusted contract data.
//
// The package also provides ContractIface, the read-only binding of a
// contract's generic state to one interface, which typed interface classes
// (rgb20, rgb25) build their accessors on.
package iface

import (
	"fmt"
	"sort"
	"strings"
)

// Occurrences is the arity of a state argument in genesis or a transition.
type Occurrences uint8

const (
	Once Occurrences = iota
	NoneOrOnce
	NoneOrMore
	OneOrMore
)

var occurrenceNames = [...]string{"Once", "NoneOrOnce", "NoneOrMore", "OneOrMore"}

func (o Occurrences) String() string {
	if int(o) < len(occurrenceNames) {
		return occurrenceNames[o]
	}
	return fmt.Sprintf("Occurrences(%d)", uint8(o))
}

// Required reports whether at least one item must be present.
func (o Occurrences) Required() bool { return o == Once || o == OneOrMore }

// Multiple reports whether more than one item may be present.
func (o Occurrences) Multiple() bool { return o == NoneOrMore || o == OneOrMore }

func parseOccurrences(s string) (Occurrences, bool) {
	for i, n := range occurrenceNames {
		if n == s {
			return Occurrences(i), true
		}
	}
	return 0, false
}

// OwnedStateKind is the kind of state carried by an assignment.
type OwnedStateKind uint8

const (
	StateFungible OwnedStateKind = iota
	StateRights
	StateStructured
	StateAttachment
)

var ownedStateKindNames = [...]string{"fungible", "rights", "structured", "attachment"}

func (k OwnedStateKind) String() string {
	if int(k) < len(ownedStateKindNames) {
		return ownedStateKindNames[k]
	}
	return fmt.Sprintf("OwnedStateKind(%d)", uint8(k))
}

func parseOwnedStateKind(s string) (OwnedStateKind, bool) {
	for i, n := range ownedStateKindNames {
		if n == s {
			return OwnedStateKind(i), true
		}
	}
	return 0, false
}

// GlobalIface declares a global state slot.
type GlobalIface struct {
	// SemID names the strict type of the slot's values, e.g. "RGBContract.Amount".
	SemID    string
	Required bool
	Multiple bool
}

// AssignIface declares an owned state slot.
type AssignIface struct {
	Kind     OwnedStateKind
	Public   bool
	Required bool
	Multiple bool
}

// Args maps state slot names to their arity in an operation.
type Args map[string]Occurrences

// GenesisIface declares what a genesis operation carries.
type GenesisIface struct {
	Metadata    string
	Globals     Args
	Assignments Args
	Errors      []string
}

// TransitionIface declares a named state transition.
type TransitionIface struct {
	Optional          bool
	Metadata          string
	Globals           Args
	Inputs            Args
	Assignments       Args
	Errors            []string
	DefaultAssignment string
}

// Iface is an interface definition or a capability fragment.
//
// Composed interfaces are treated as immutable values: Extended never touches
// its receiver or argument. Fragments may carry Requires (references to
// globals, assignments or transitions that the base they extend must already
// declare, written "global:name", "assign:name" or "transition:name") and may
// be marked Incomplete, in which case no composition accepts them.
type Iface struct {
	Name             string
	Inherits         []string
	Developer        string
	Globals          map[string]GlobalIface
	Assignments      map[string]AssignIface
	Genesis          GenesisIface
	Transitions      map[string]TransitionIface
	Errors           map[string]string
	DefaultOperation string

	Requires   []string
	Incomplete bool
}

// HasGlobal reports whether the interface declares the global state slot.
func (i Iface) HasGlobal(name string) bool {
	_, ok := i.Globals[name]
	return ok
}

// HasAssignment reports whether the interface declares the owned state slot.
func (i Iface) HasAssignment(name string) bool {
	_, ok := i.Assignments[name]
	return ok
}

// HasTransition reports whether the interface declares the named transition.
func (i Iface) HasTransition(name string) bool {
	_, ok := i.Transitions[name]
	return ok
}

// TransitionNames returns declared transition names, sorted.
func (i Iface) TransitionNames() []string { return sortedKeys(i.Transitions) }

// ID returns the content-derived identifier of the interface.
//
// It panics if the interface cannot be rendered, which only happens for
// hand-built values with invalid names or dangling references; composed and
// parsed interfaces always render. Use CanonicalID for values of unknown
// provenance.
func (i Iface) ID() IfaceId {
	id, err := i.CanonicalID()
	if err != nil {
		panic(fmt.Sprintf("interface %q has no canonical form: %v", i.Name, err))
	}
	return id
}

// CanonicalID is ID reporting a missing canonical form as the KindSchema
// error Render returns.
func (i Iface) CanonicalID() (IfaceId, error) {
	b, err := Render(i)
	if err != nil {
		return IfaceId{}, err
	}
	return IdOf(b), nil
}

// Clone returns a deep copy.
func (i Iface) Clone() Iface {
	out := i
	out.Inherits = append([]string(nil), i.Inherits...)
	out.Requires = append([]string(nil), i.Requires...)
	out.Globals = make(map[string]GlobalIface, len(i.Globals))
	for k, v := range i.Globals {
		out.Globals[k] = v
	}
	out.Assignments = make(map[string]AssignIface, len(i.Assignments))
	for k, v := range i.Assignments {
		out.Assignments[k] = v
	}
	out.Genesis = i.Genesis.clone()
	out.Transitions = make(map[string]TransitionIface, len(i.Transitions))
	for k, v := range i.Transitions {
		out.Transitions[k] = v.clone()
	}
	out.Errors = make(map[string]string, len(i.Errors))
	for k, v := range i.Errors {
		out.Errors[k] = v
	}
	return out
}

func (g GenesisIface) clone() GenesisIface {
	return GenesisIface{
		Metadata:    g.Metadata,
		Globals:     g.Globals.clone(),
		Assignments: g.Assignments.clone(),
		Errors:      append([]string(nil), g.Errors...),
	}
}

func (t TransitionIface) clone() TransitionIface {
	out := t
	out.Globals = t.Globals.clone()
	out.Inputs = t.Inputs.clone()
	out.Assignments = t.Assignments.clone()
	out.Errors = append([]string(nil), t.Errors...)
	return out
}

func (a Args) clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Validate checks names and that every state reference made by genesis,
// transitions and the default operation resolves to a declaration, or to a
// Requires entry for fragments.
func (i Iface) Validate() error {
	if !isIdent(i.Name) {
		return newError(KindSchema, "IFACE-SCHEMA-005", fmt.Sprintf("invalid interface name %q", i.Name))
	}
	for _, n := range i.Inherits {
		if !isIdent(n) {
			return newError(KindSchema, "IFACE-SCHEMA-005", fmt.Sprintf("invalid inherited name %q", n))
		}
	}
	for _, r := range i.Requires {
		if _, _, ok := splitRequirement(r); !ok {
			return newError(KindSchema, "IFACE-SCHEMA-005", fmt.Sprintf("invalid requirement %q", r))
		}
	}
	for n, g := range i.Globals {
		if !isIdent(n) || !isSemID(g.SemID) {
			return newError(KindSchema, "IFACE-SCHEMA-005", fmt.Sprintf("invalid global %q", n))
		}
	}
	for n := range i.Assignments {
		if !isIdent(n) {
			return newError(KindSchema, "IFACE-SCHEMA-005", fmt.Sprintf("invalid assignment %q", n))
		}
	}
	for n := range i.Errors {
		if !isIdent(n) {
			return newError(KindSchema, "IFACE-SCHEMA-005", fmt.Sprintf("invalid error name %q", n))
		}
	}

	if err := i.checkArgs("genesis", "global", i.Genesis.Globals); err != nil {
		return err
	}
	if err := i.checkArgs("genesis", "assign", i.Genesis.Assignments); err != nil {
		return err
	}
	if err := i.checkErrors("genesis", i.Genesis.Errors); err != nil {
		return err
	}
	for _, name := range sortedKeys(i.Transitions) {
		t := i.Transitions[name]
		if !isIdent(name) {
			return newError(KindSchema, "IFACE-SCHEMA-005", fmt.Sprintf("invalid transition name %q", name))
		}
		where := "transition " + name
		if err := i.checkArgs(where, "global", t.Globals); err != nil {
			return err
		}
		if err := i.checkArgs(where, "assign", t.Inputs); err != nil {
			return err
		}
		if err := i.checkArgs(where, "assign", t.Assignments); err != nil {
			return err
		}
		if err := i.checkErrors(where, t.Errors); err != nil {
			return err
		}
		if t.DefaultAssignment != "" && !i.resolves("assign", t.DefaultAssignment) {
			return danglingRef(where, "assign", t.DefaultAssignment)
		}
	}
	if i.DefaultOperation != "" && !i.resolves("transition", i.DefaultOperation) {
		return danglingRef("interface", "transition", i.DefaultOperation)
	}
	return nil
}

func (i Iface) checkArgs(where, kind string, args Args) error {
	for _, n := range sortedKeys(args) {
		if !i.resolves(kind, n) {
			return danglingRef(where, kind, n)
		}
	}
	return nil
}

func (i Iface) checkErrors(where string, names []string) error {
	for _, n := range names {
		if _, ok := i.Errors[n]; !ok {
			return danglingRef(where, "error", n)
		}
	}
	return nil
}

func danglingRef(where, kind, name string) error {
	return newError(KindSchema, "IFACE-SCHEMA-006", fmt.Sprintf("%s references undeclared %s %q", where, kind, name))
}

// resolves reports whether a reference is declared or imported via Requires.
func (i Iface) resolves(kind, name string) bool {
	if i.declares(kind, name) {
		return true
	}
	want := kind + ":" + name
	for _, r := range i.Requires {
		if r == want {
			return true
		}
	}
	return false
}

func (i Iface) declares(kind, name string) bool {
	switch kind {
	case "global":
		return i.HasGlobal(name)
	case "assign":
		return i.HasAssignment(name)
	case "transition":
		return i.HasTransition(name)
	}
	return false
}

func splitRequirement(r string) (kind, name string, ok bool) {
	kind, name, ok = strings.Cut(r, ":")
	if !ok || !isIdent(name) {
		return "", "", false
	}
	switch kind {
	case "global", "assign", "transition":
		return kind, name, true
	}
	return "", "", false
}

func isIdent(s string) bool {
	if s == "" || len(s) > 100 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9', c == '_':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isSemID(s string) bool {
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if !isIdent(p) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
