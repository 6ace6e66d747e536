// Package errs holds the error taxonomy every service and repo in the core
// maps onto. Callers branch with errors.Is against the five sentinels.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed input: missing required fields, invalid
	// enum values, mutually-exclusive reference violations.
	ErrValidation = errors.New("validation error")

	// ErrConflict covers uniqueness violations surfaced by the store.
	ErrConflict = errors.New("conflict error")

	// ErrInvalidState covers illegal lifecycle or status transitions.
	ErrInvalidState = errors.New("invalid state error")

	ErrCompression   = errors.New("compression error")
	ErrDecompression = errors.New("decompression error")

	ErrNotFound = errors.New("not found")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
