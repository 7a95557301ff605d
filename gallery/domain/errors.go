package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id does not resolve to a record.
var ErrNotFound = errors.New("image not found")

// ValidationError marks bad or missing input: no file, a disallowed
// file type, an oversized payload, or an empty required field. It is
// always raised before any durable write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps an unexpected database or filesystem failure.
// Op names the operation that failed so the root cause survives any
// compensation attempted afterwards.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err with the failing operation's name.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
