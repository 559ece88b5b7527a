package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures for callers. The transport layer maps
// kinds to HTTP statuses; the engine itself never formats user-facing text.
type ErrorKind string

const (
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindInvalidInput ErrorKind = "invalid_input"
	ErrorKindConflict     ErrorKind = "conflict"
	ErrorKindTimeout      ErrorKind = "timeout"
	ErrorKindUnavailable  ErrorKind = "unavailable"
)

// Error is a structured engine error: a machine-readable kind plus a reason.
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is matches against the kind sentinels below so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

// Kind sentinels for errors.Is checks.
var (
	ErrNotFound     = &Error{Kind: ErrorKindNotFound}
	ErrInvalidInput = &Error{Kind: ErrorKindInvalidInput}
	ErrConflict     = &Error{Kind: ErrorKindConflict}
	ErrTimeout      = &Error{Kind: ErrorKindTimeout}
	ErrUnavailable  = &Error{Kind: ErrorKindUnavailable}
)

func NotFound(reason string) error {
	return &Error{Kind: ErrorKindNotFound, Reason: reason}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrorKindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func InvalidInput(reason string) error {
	return &Error{Kind: ErrorKindInvalidInput, Reason: reason}
}

func InvalidInputf(format string, args ...any) error {
	return &Error{Kind: ErrorKindInvalidInput, Reason: fmt.Sprintf(format, args...)}
}

func Conflict(reason string) error {
	return &Error{Kind: ErrorKindConflict, Reason: reason}
}

func Timeout(reason string) error {
	return &Error{Kind: ErrorKindTimeout, Reason: reason}
}

func Unavailable(reason string) error {
	return &Error{Kind: ErrorKindUnavailable, Reason: reason}
}

func Unavailablef(format string, args ...any) error {
	return &Error{Kind: ErrorKindUnavailable, Reason: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, or an empty kind for plain errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
