// Package apperr implements the error taxonomy of spec.md §7: InvalidInput,
// Duplicate, Transient, Permanent, and StorageError. Components classify
// errors by wrapping them with these constructors; callers classify with
// Is and the IsXxx helpers, which look up the *Error via errors.As.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is one of the five classes of error the core distinguishes.
type Kind string

const (
	KindInvalidInput  Kind = "invalid_input"
	KindDuplicate     Kind = "duplicate"
	KindTransient     Kind = "transient"
	KindPermanent     Kind = "permanent"
	KindStorageError  Kind = "storage_error"
)

// Error wraps an underlying cause with a Kind so the caller can classify it
// without string-matching.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func InvalidInput(op string, err error) *Error { return New(KindInvalidInput, op, err) }
func Duplicate(op string, err error) *Error    { return New(KindDuplicate, op, err) }
func Transient(op string, err error) *Error    { return New(KindTransient, op, err) }
func Permanent(op string, err error) *Error    { return New(KindPermanent, op, err) }
func StorageError(op string, err error) *Error { return New(KindStorageError, op, err) }

// Is reports whether the first *Error in err's chain carries the given
// Kind. A further *Error wrapped inside that one is not inspected.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsInvalidInput(err error) bool  { return Is(err, KindInvalidInput) }
func IsDuplicate(err error) bool     { return Is(err, KindDuplicate) }
func IsTransient(err error) bool     { return Is(err, KindTransient) }
func IsPermanent(err error) bool     { return Is(err, KindPermanent) }
func IsStorageError(err error) bool  { return Is(err, KindStorageError) }
