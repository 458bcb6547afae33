package iface

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindParse reports malformed input: interface text or user-supplied
	// identifiers and values that are not well-formed.
	KindParse Kind = "Parse"
	// KindCanonical reports well-formed but non-canonical interface text.
	KindCanonical Kind = "Canonical"
	// KindSchema reports a capability fragment that cannot be layered onto
	// the current base.
	KindSchema Kind = "Schema"
	// KindInconsistent reports an observed interface whose capability markers
	// resolve to a combination no composer builds.
	KindInconsistent Kind = "Inconsistent"
	// KindState reports a state lookup the bound interface does not declare.
	KindState Kind = "State"
	// KindCrypto reports a developer certificate that does not verify.
	KindCrypto   Kind = "Crypto"
	KindInternal Kind = "Internal"
)

// ErrInconsistentCapabilities is wrapped by every KindInconsistent error.
var ErrInconsistentCapabilities = errors.New("inconsistent interface capabilities")

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. IFACE-STR-001, IFACE-SCHEMA-002) naming
// the violated rule. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// NewError builds a structured error for packages layered on top of iface
// (interface classes, registries) so they share one taxonomy.
func NewError(kind Kind, ruleID, msg string) error {
	return newError(kind, ruleID, msg)
}

// WrapError is NewError with a cause.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	return wrapError(kind, ruleID, msg, cause)
}

// Inconsistent returns a KindInconsistent error wrapping
// ErrInconsistentCapabilities.
func Inconsistent(ruleID, msg string) error {
	return wrapError(KindInconsistent, ruleID, msg, ErrInconsistentCapabilities)
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
