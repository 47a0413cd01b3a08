// Package apperr defines the error kinds shared by the store, services and HTTP layer.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid data")
	ErrUnauthorized = errors.New("unauthorized")
)

// InvalidError carries the underlying validation failure. It matches ErrInvalid
// under errors.Is, and Unwrap exposes the original error (usually validation.Errors).
type InvalidError struct {
	Err error
}

func (e *InvalidError) Error() string {
	return "invalid data: " + e.Err.Error()
}

func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalid
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// Invalid wraps err as an ErrInvalid. A nil err stays nil.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return &InvalidError{Err: err}
}

// ConflictError is a conflict with a message safe to show the caller.
type ConflictError struct {
	Msg string
	Err error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Conflict returns an ErrConflict carrying msg and the underlying cause.
func Conflict(msg string, cause error) error {
	return &ConflictError{Msg: msg, Err: cause}
}
