package model

import (
	"errors"
	"fmt"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/storage"
)

type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrInvalidID      ErrorCode = "INVALID_ID"
	ErrMissingLibrary ErrorCode = "MISSING_LIBRARY"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrIDMismatch     ErrorCode = "ID_MISMATCH"
	ErrInvalidIface   ErrorCode = "INVALID_INTERFACE"
	ErrNonStandard    ErrorCode = "NON_STANDARD_INTERFACE"
	ErrInconsistent   ErrorCode = "INCONSISTENT_CAPABILITIES"
	ErrInvalidState   ErrorCode = "INVALID_STATE"
	ErrMissingState   ErrorCode = "MISSING_STATE"
	ErrInternal       ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code and a human
// message. RuleID carries the underlying rule when there is one.
type CodedError struct {
	Code    ErrorCode `json:"code" yaml:"code"`
	RuleID  string    `json:"ruleId,omitempty" yaml:"ruleId,omitempty"`
	Message string    `json:"message" yaml:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// mapErr turns library errors into coded errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce
	}
	code := ErrInternal
	switch {
	case storage.IsNotFound(err):
		code = ErrNotFound
	case errors.Is(err, storage.ErrIDMismatch):
		code = ErrIDMismatch
	case errors.Is(err, storage.ErrInvalidID):
		code = ErrInvalidID
	case errors.Is(err, iface.ErrInconsistentCapabilities):
		code = ErrInconsistent
	case iface.IsKind(err, iface.KindParse), iface.IsKind(err, iface.KindCanonical):
		code = ErrInvalidIface
	case iface.IsKind(err, iface.KindSchema):
		code = ErrNonStandard
	case iface.IsKind(err, iface.KindState):
		code = ErrMissingState
	}
	return &CodedError{Code: code, RuleID: iface.RuleID(err), Message: err.Error()}
}
