package storage

import "errors"

var (
	ErrNotFound   = errors.New("storage: not found")
	ErrInvalidID  = errors.New("storage: invalid interface id")
	ErrIDMismatch = errors.New("storage: interface id mismatch")
	ErrImmutable  = errors.New("storage: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
