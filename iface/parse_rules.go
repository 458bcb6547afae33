package iface

import (
	"bytes"
	"unicode/utf8"
)

type parseRule struct {
	id    string
	apply func([]byte) error
}

func applyParseRules(input []byte, rules []parseRule) error {
	for _, r := range rules {
		if r.apply == nil {
			return newError(KindInternal, "IFACE-INTERNAL-010", "nil parse rule")
		}
		if err := r.apply(input); err != nil {
			return err
		}
	}
	return nil
}

// byteRules are checked before any line is read.
func byteRules() []parseRule {
	return []parseRule{
		{
			id: "IFACE-STR-001",
			apply: func(b []byte) error {
				if !utf8.Valid(b) {
					return newError(KindParse, "IFACE-STR-001", "interface text must be valid UTF-8")
				}
				return nil
			},
		},
		{
			id: "IFACE-CANON-001",
			apply: func(b []byte) error {
				if bytes.Contains(b, []byte("\r")) {
					return newError(KindCanonical, "IFACE-CANON-001", "CR line endings not allowed")
				}
				return nil
			},
		},
		{
			id: "IFACE-CANON-002",
			apply: func(b []byte) error {
				if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
					return newError(KindCanonical, "IFACE-CANON-002", "BOM not allowed")
				}
				return nil
			},
		},
		{
			id: "IFACE-CANON-003",
			apply: func(b []byte) error {
				if len(b) > 0 && b[len(b)-1] == '\n' {
					return newError(KindCanonical, "IFACE-CANON-003", "trailing newline not allowed")
				}
				return nil
			},
		},
		{
			id: "IFACE-STR-010",
			apply: func(b []byte) error {
				if !bytes.HasPrefix(b, []byte(Preamble+"\n")) {
					return newError(KindParse, "IFACE-STR-010", "missing interface preamble")
				}
				if !bytes.HasSuffix(b, []byte("\n"+Postamble)) {
					return newError(KindParse, "IFACE-STR-011", "missing interface postamble")
				}
				return nil
			},
		},
		{
			id: "IFACE-CANON-004",
			apply: func(b []byte) error {
				for _, line := range bytes.Split(b, []byte("\n")) {
					if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
						return newError(KindCanonical, "IFACE-CANON-004", "trailing whitespace forbidden")
					}
				}
				return nil
			},
		},
	}
}
