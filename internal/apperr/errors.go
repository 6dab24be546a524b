// Package apperr defines the failure kinds surfaced by vault operations.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound      Kind = "NOT_FOUND"
	KindAlreadyExists Kind = "ALREADY_EXISTS"
	KindPathConflict  Kind = "PATH_CONFLICT"
	KindOutOfRange    Kind = "OUT_OF_RANGE"
	KindInvalidSpec   Kind = "INVALID_SPEC"
	KindPathMissing   Kind = "PATH_MISSING"
	KindNoVault       Kind = "NO_VAULT"
	KindIOFailure     Kind = "IO_FAILURE"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// KindOf returns the kind of err, or the empty kind for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExists(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func PathConflict(format string, args ...any) *Error {
	return &Error{Kind: KindPathConflict, Message: fmt.Sprintf(format, args...)}
}

func OutOfRange(format string, args ...any) *Error {
	return &Error{Kind: KindOutOfRange, Message: fmt.Sprintf(format, args...)}
}

func InvalidSpec(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidSpec, Message: fmt.Sprintf(format, args...)}
}

func PathMissing(format string, args ...any) *Error {
	return &Error{Kind: KindPathMissing, Message: fmt.Sprintf(format, args...)}
}

func NoVault(format string, args ...any) *Error {
	return &Error{Kind: KindNoVault, Message: fmt.Sprintf(format, args...)}
}

// IOFailure wraps an underlying filesystem or encoding error.
func IOFailure(message string, err error) *Error {
	return &Error{Kind: KindIOFailure, Message: message, Err: err}
}
