package iface

import (
	"fmt"
	"sort"
	"strings"
)

const (
	Preamble  = "-----BEGIN RGB INTERFACE-----"
	Postamble = "-----END RGB INTERFACE-----"

	// FormatVersion is the META Format value of the canonical encoding.
	FormatVersion = "rgb-iface-1"
)

// SectionOrder is the canonical order of sections.
var SectionOrder = []string{"META", "INHERITS", "GLOBALS", "ASSIGNMENTS", "GENESIS", "TRANSITIONS", "ERRORS"}

type section struct {
	name  string
	pairs map[string]string
}

// Render produces the canonical bytes of an interface.
//
// Output is deterministic: sections appear in SectionOrder, keys are sorted,
// sections are separated by exactly one blank line, lines end in LF and the
// document has no trailing newline. The inherits chain is keyed by position
// so two compositions of the same fragments in different orders render (and
// hash) differently.
func Render(i Iface) ([]byte, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	sections, err := toSections(i)
	if err != nil {
		return nil, err
	}
	return renderSections(sections)
}

func renderSections(sections []section) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n")

	for idx, sec := range sections {
		sb.WriteString(sec.name)
		sb.WriteString("\n")

		keys := make([]string, 0, len(sec.pairs))
		for k := range sec.pairs {
			if k == "" {
				return nil, newError(KindInternal, "IFACE-STR-030", "empty key")
			}
			if !isASCII(k) || strings.Contains(k, ": ") {
				return nil, newError(KindInternal, "IFACE-STR-030", fmt.Sprintf("invalid key %q", k))
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := sec.pairs[k]
			if err := checkValue(v); err != nil {
				return nil, wrapError(KindSchema, "IFACE-STR-030", fmt.Sprintf("%s %s", sec.name, k), err)
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(v)
			sb.WriteString("\n")
		}
		if idx != len(sections)-1 {
			sb.WriteString("\n")
		}
	}

	sb.WriteString(Postamble)
	return []byte(sb.String()), nil
}

func checkValue(v string) error {
	switch {
	case v == "":
		return newError(KindParse, "IFACE-STR-030", "empty value")
	case strings.HasPrefix(v, " "):
		return newError(KindParse, "IFACE-STR-030", "value must not start with a space")
	case strings.ContainsAny(v, "\r\n"):
		return newError(KindParse, "IFACE-STR-030", "value must not contain newlines")
	case strings.HasSuffix(v, " ") || strings.HasSuffix(v, "\t"):
		return newError(KindParse, "IFACE-STR-030", "trailing whitespace forbidden")
	}
	return nil
}

func toSections(i Iface) ([]section, error) {
	meta := map[string]string{
		"Format": FormatVersion,
		"Name":   i.Name,
	}
	if i.Developer != "" {
		meta["Developer"] = i.Developer
	}
	if i.DefaultOperation != "" {
		meta["Default-Operation"] = i.DefaultOperation
	}
	if i.Incomplete {
		meta["Incomplete"] = "true"
	}
	if len(i.Requires) > 0 {
		meta["Requires"] = joinSorted(i.Requires)
	}

	if len(i.Inherits) > 999 {
		return nil, newError(KindSchema, "IFACE-SCHEMA-005", "inherits chain too long")
	}
	inherits := make(map[string]string, len(i.Inherits))
	for idx, n := range i.Inherits {
		inherits[fmt.Sprintf("%03d", idx)] = n
	}

	globals := make(map[string]string, len(i.Globals))
	for n, g := range i.Globals {
		globals[n] = strings.Join([]string{g.SemID, requiredWord(g.Required), multipleWord(g.Multiple)}, " ")
	}

	assigns := make(map[string]string, len(i.Assignments))
	for n, a := range i.Assignments {
		vis := "private"
		if a.Public {
			vis = "public"
		}
		assigns[n] = strings.Join([]string{a.Kind.String(), vis, requiredWord(a.Required), multipleWord(a.Multiple)}, " ")
	}

	genesis := make(map[string]string)
	if i.Genesis.Metadata != "" {
		genesis["metadata"] = i.Genesis.Metadata
	}
	putArgs(genesis, "global.", i.Genesis.Globals)
	putArgs(genesis, "assign.", i.Genesis.Assignments)
	if len(i.Genesis.Errors) > 0 {
		genesis["errors"] = joinSorted(i.Genesis.Errors)
	}

	transitions := make(map[string]string)
	for n, t := range i.Transitions {
		p := n + "."
		transitions[p+"optional"] = fmt.Sprintf("%t", t.Optional)
		if t.Metadata != "" {
			transitions[p+"metadata"] = t.Metadata
		}
		putArgs(transitions, p+"global.", t.Globals)
		putArgs(transitions, p+"input.", t.Inputs)
		putArgs(transitions, p+"assign.", t.Assignments)
		if len(t.Errors) > 0 {
			transitions[p+"errors"] = joinSorted(t.Errors)
		}
		if t.DefaultAssignment != "" {
			transitions[p+"default"] = t.DefaultAssignment
		}
	}

	errs := make(map[string]string, len(i.Errors))
	for n, msg := range i.Errors {
		errs[n] = msg
	}

	return []section{
		{name: "META", pairs: meta},
		{name: "INHERITS", pairs: inherits},
		{name: "GLOBALS", pairs: globals},
		{name: "ASSIGNMENTS", pairs: assigns},
		{name: "GENESIS", pairs: genesis},
		{name: "TRANSITIONS", pairs: transitions},
		{name: "ERRORS", pairs: errs},
	}, nil
}

func putArgs(dst map[string]string, prefix string, args Args) {
	for n, occ := range args {
		dst[prefix+n] = occ.String()
	}
}

func requiredWord(b bool) string {
	if b {
		return "required"
	}
	return "optional"
}

func multipleWord(b bool) string {
	if b {
		return "multiple"
	}
	return "single"
}

func joinSorted(ss []string) string {
	return strings.Join(unionSorted(ss, nil), ",")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
