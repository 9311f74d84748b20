package store

import "errors"

// Error kinds, matched by the HTTP layer with errors.Is to pick a status
// code. The client-facing message lives on the wrapping Error.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Error is a store failure with a kind and a human-readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func validationErr(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }
func notFoundErr(msg string) error   { return &Error{Kind: ErrNotFound, Message: msg} }
func conflictErr(msg string) error   { return &Error{Kind: ErrConflict, Message: msg} }
func internalErr(msg string) error   { return &Error{Kind: ErrInternal, Message: msg} }
