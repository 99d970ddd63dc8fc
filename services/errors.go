package services

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired is returned when an operation that needs an
	// author is invoked with an anonymous identity.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrNotFound is returned when the primary entity of an operation does
	// not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports malformed, empty, or oversized input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StoreError wraps any backing-store failure not otherwise classified. The
// underlying error is preserved unchanged for callers that unwrap.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

func wrapStore(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
