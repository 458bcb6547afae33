package iface

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Parse decodes canonical interface text.
//
// Parsing is strict: any input that is not byte-for-byte what Render would
// produce for the decoded interface is rejected with a KindParse or
// KindCanonical error, and a structurally inconsistent interface (dangling
// references, invalid names) is rejected with KindSchema.
func Parse(data []byte) (Iface, error) {
	if err := applyParseRules(data, byteRules()); err != nil {
		return Iface{}, err
	}
	sections, err := parseSections(data)
	if err != nil {
		return Iface{}, err
	}
	i, err := fromSections(sections)
	if err != nil {
		return Iface{}, err
	}
	if err := i.Validate(); err != nil {
		return Iface{}, err
	}
	rendered, err := Render(i)
	if err != nil {
		return Iface{}, wrapError(KindInternal, "IFACE-INTERNAL-020", "parsed interface does not render", err)
	}
	if !bytes.Equal(rendered, data) {
		return Iface{}, newError(KindCanonical, "IFACE-CANON-030", "input is not the canonical rendering of the interface it encodes")
	}
	return i, nil
}

// Canonicalize is the single choke point for bytes that get hashed or stored:
// it returns a copy of input if and only if input is canonical.
func Canonicalize(input []byte) ([]byte, error) {
	if _, err := Parse(input); err != nil {
		return nil, err
	}
	return append([]byte(nil), input...), nil
}

func parseSections(data []byte) (map[string]map[string]string, error) {
	sections := make(map[string]map[string]string)
	reader := bufio.NewReader(bytes.NewReader(data))
	readLine := func() (string, error) {
		l, err := reader.ReadString('\n')
		if err == io.EOF {
			return l, io.EOF
		}
		if err != nil {
			return "", wrapError(KindParse, "IFACE-STR-999", "read failure", err)
		}
		return strings.TrimSuffix(l, "\n"), nil
	}

	first, err := readLine()
	if err != nil {
		// the byte rules guarantee a newline after the preamble
		return nil, wrapError(KindParse, "IFACE-STR-010", "missing interface preamble", err)
	}
	if first != Preamble {
		return nil, newError(KindParse, "IFACE-STR-010", "interface preamble must be exact")
	}

	sectionIndex := -1
	var curr string
	var pairs map[string]string
	var keyOrder []string
	afterSeparator := false

	flush := func() error {
		if curr == "" {
			return nil
		}
		sorted := append([]string(nil), keyOrder...)
		sort.Strings(sorted)
		for i := range sorted {
			if sorted[i] != keyOrder[i] {
				return newError(KindCanonical, "IFACE-CANON-020", fmt.Sprintf("keys of %s not sorted lexicographically", curr))
			}
		}
		sections[curr] = pairs
		curr, pairs, keyOrder = "", nil, nil
		return nil
	}

	for {
		line, rerr := readLine()
		if rerr != nil && rerr != io.EOF {
			return nil, rerr
		}

		if line == Postamble {
			if rerr != io.EOF {
				return nil, newError(KindParse, "IFACE-STR-011", "content after postamble")
			}
			if afterSeparator {
				return nil, newError(KindCanonical, "IFACE-CANON-010", "unexpected blank line before postamble")
			}
			if err := flush(); err != nil {
				return nil, err
			}
			break
		}
		if rerr == io.EOF {
			return nil, newError(KindParse, "IFACE-STR-011", "missing interface postamble")
		}

		if isSectionHeader(line) {
			if curr != "" {
				return nil, newError(KindCanonical, "IFACE-CANON-010", "missing blank line between sections")
			}
			if _, dup := sections[line]; dup {
				return nil, newError(KindParse, "IFACE-STR-020", "duplicate section "+line)
			}
			sectionIndex++
			if sectionIndex >= len(SectionOrder) || SectionOrder[sectionIndex] != line {
				return nil, newError(KindParse, "IFACE-STR-020", "sections missing or out of order")
			}
			if sectionIndex == 0 && afterSeparator {
				return nil, newError(KindCanonical, "IFACE-CANON-010", "blank line before first section not allowed")
			}
			if sectionIndex > 0 && !afterSeparator {
				return nil, newError(KindCanonical, "IFACE-CANON-010", "missing blank line between sections")
			}
			afterSeparator = false
			curr = line
			pairs = make(map[string]string)
			continue
		}

		if sectionIndex < 0 {
			return nil, newError(KindParse, "IFACE-STR-020", "unexpected content before first section")
		}

		if line == "" {
			if curr == "" {
				return nil, newError(KindCanonical, "IFACE-CANON-010", "multiple blank lines between sections not allowed")
			}
			if curr == SectionOrder[len(SectionOrder)-1] {
				return nil, newError(KindCanonical, "IFACE-CANON-010", "blank line after last section not allowed")
			}
			if err := flush(); err != nil {
				return nil, err
			}
			afterSeparator = true
			continue
		}

		if curr == "" {
			return nil, newError(KindCanonical, "IFACE-CANON-010", "expected section header after blank line")
		}
		key, val, ok := strings.Cut(line, ": ")
		if !ok || key == "" {
			return nil, newError(KindParse, "IFACE-STR-030", "invalid key-value formatting")
		}
		if !isASCII(key) {
			return nil, newError(KindParse, "IFACE-STR-030", "non-ASCII key")
		}
		if err := checkValue(val); err != nil {
			return nil, err
		}
		if _, exists := pairs[key]; exists {
			return nil, newError(KindParse, "IFACE-STR-030", fmt.Sprintf("duplicate key %q in %s", key, curr))
		}
		pairs[key] = val
		keyOrder = append(keyOrder, key)
	}

	for _, s := range SectionOrder {
		if _, ok := sections[s]; !ok {
			return nil, newError(KindParse, "IFACE-STR-020", "sections missing or out of order")
		}
	}
	return sections, nil
}

func isSectionHeader(line string) bool {
	for _, s := range SectionOrder {
		if line == s {
			return true
		}
	}
	return false
}

func badValue(sec, key, val string) error {
	return newError(KindParse, "IFACE-STR-060", fmt.Sprintf("%s %s: invalid value %q", sec, key, val))
}

func fromSections(s map[string]map[string]string) (Iface, error) {
	var i Iface

	for k, v := range s["META"] {
		switch k {
		case "Format":
			if v != FormatVersion {
				return Iface{}, newError(KindParse, "IFACE-STR-050", fmt.Sprintf("unsupported format %q", v))
			}
		case "Name":
			i.Name = v
		case "Developer":
			i.Developer = v
		case "Default-Operation":
			i.DefaultOperation = v
		case "Incomplete":
			if v != "true" {
				return Iface{}, badValue("META", k, v)
			}
			i.Incomplete = true
		case "Requires":
			i.Requires = strings.Split(v, ",")
		default:
			return Iface{}, newError(KindParse, "IFACE-STR-050", fmt.Sprintf("unknown META key %q", k))
		}
	}
	if i.Name == "" {
		return Iface{}, newError(KindParse, "IFACE-STR-050", "META Name is required")
	}

	inherits := s["INHERITS"]
	i.Inherits = make([]string, len(inherits))
	for k, v := range inherits {
		idx, err := strconv.Atoi(k)
		if err != nil || len(k) != 3 || idx < 0 || idx >= len(inherits) {
			return Iface{}, newError(KindParse, "IFACE-STR-060", fmt.Sprintf("INHERITS: invalid position %q", k))
		}
		i.Inherits[idx] = v
	}
	if len(i.Inherits) == 0 {
		i.Inherits = nil
	}

	i.Globals = make(map[string]GlobalIface, len(s["GLOBALS"]))
	for k, v := range s["GLOBALS"] {
		f := strings.Split(v, " ")
		if len(f) != 3 {
			return Iface{}, badValue("GLOBALS", k, v)
		}
		req, ok1 := parseWord(f[1], "required", "optional")
		mul, ok2 := parseWord(f[2], "multiple", "single")
		if !ok1 || !ok2 {
			return Iface{}, badValue("GLOBALS", k, v)
		}
		i.Globals[k] = GlobalIface{SemID: f[0], Required: req, Multiple: mul}
	}

	i.Assignments = make(map[string]AssignIface, len(s["ASSIGNMENTS"]))
	for k, v := range s["ASSIGNMENTS"] {
		f := strings.Split(v, " ")
		if len(f) != 4 {
			return Iface{}, badValue("ASSIGNMENTS", k, v)
		}
		kind, ok0 := parseOwnedStateKind(f[0])
		pub, ok1 := parseWord(f[1], "public", "private")
		req, ok2 := parseWord(f[2], "required", "optional")
		mul, ok3 := parseWord(f[3], "multiple", "single")
		if !ok0 || !ok1 || !ok2 || !ok3 {
			return Iface{}, badValue("ASSIGNMENTS", k, v)
		}
		i.Assignments[k] = AssignIface{Kind: kind, Public: pub, Required: req, Multiple: mul}
	}

	i.Genesis = GenesisIface{Globals: Args{}, Assignments: Args{}}
	for k, v := range s["GENESIS"] {
		switch {
		case k == "metadata":
			i.Genesis.Metadata = v
		case k == "errors":
			i.Genesis.Errors = strings.Split(v, ",")
		default:
			if err := putArg(k, v, "GENESIS", map[string]Args{
				"global": i.Genesis.Globals,
				"assign": i.Genesis.Assignments,
			}); err != nil {
				return Iface{}, err
			}
		}
	}

	i.Transitions = make(map[string]TransitionIface)
	for k, v := range s["TRANSITIONS"] {
		name, rest, ok := strings.Cut(k, ".")
		if !ok {
			return Iface{}, badValue("TRANSITIONS", k, v)
		}
		t, seen := i.Transitions[name]
		if !seen {
			t = TransitionIface{Globals: Args{}, Inputs: Args{}, Assignments: Args{}}
		}
		switch rest {
		case "optional":
			opt, ok := parseWord(v, "true", "false")
			if !ok {
				return Iface{}, badValue("TRANSITIONS", k, v)
			}
			t.Optional = opt
		case "metadata":
			t.Metadata = v
		case "errors":
			t.Errors = strings.Split(v, ",")
		case "default":
			t.DefaultAssignment = v
		default:
			if err := putArg(rest, v, "TRANSITIONS", map[string]Args{
				"global": t.Globals,
				"input":  t.Inputs,
				"assign": t.Assignments,
			}); err != nil {
				return Iface{}, err
			}
		}
		i.Transitions[name] = t
	}
	for name := range i.Transitions {
		if _, ok := s["TRANSITIONS"][name+".optional"]; !ok {
			return Iface{}, newError(KindParse, "IFACE-STR-060", fmt.Sprintf("TRANSITIONS: %s.optional is required", name))
		}
	}

	i.Errors = make(map[string]string, len(s["ERRORS"]))
	for k, v := range s["ERRORS"] {
		i.Errors[k] = v
	}
	return i, nil
}

func putArg(key, val, sec string, targets map[string]Args) error {
	kind, name, ok := strings.Cut(key, ".")
	if !ok {
		return badValue(sec, key, val)
	}
	args, known := targets[kind]
	if !known {
		return badValue(sec, key, val)
	}
	occ, ok := parseOccurrences(val)
	if !ok {
		return badValue(sec, key, val)
	}
	args[name] = occ
	return nil
}

func parseWord(s, yes, no string) (bool, bool) {
	switch s {
	case yes:
		return true, true
	case no:
		return false, true
	}
	return false, false
}
