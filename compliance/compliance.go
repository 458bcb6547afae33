package compliance

import (
	"fmt"
	"strings"
)

// ComplianceMode selects how much a typed interface wrapper checks before
// trusting a contract/interface pairing.
//
// Permissive mode trusts the pairing produced by the caller; missing
// mandatory state is still fatal at access time. Strict mode checks, at wrap
// time, that the interface declares every slot the typed getters read, that
// its capability markers are consistent and that its identifier matches a
// fresh composition.
type ComplianceMode int

const (
	Permissive ComplianceMode = iota
	Strict
)

func (m ComplianceMode) String() string {
	switch m {
	case Permissive:
		return "permissive"
	case Strict:
		return "strict"
	}
	return fmt.Sprintf("ComplianceMode(%d)", int(m))
}

// ParseMode reads a mode from configuration.
func ParseMode(s string) (ComplianceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return Permissive, nil
	case "strict":
		return Strict, nil
	}
	return Permissive, fmt.Errorf("unknown compliance mode %q", s)
}
