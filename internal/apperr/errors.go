// Package apperr defines the error taxonomy shared by the catalog engines.
// Engines return these; handlers map them to HTTP statuses.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is an application error carrying a Kind and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Err != nil && e.Msg != e.Err.Error() {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, cause []error) *Error {
	e := &Error{Kind: kind, Msg: msg}
	if len(cause) > 0 {
		e.Err = cause[0]
	}
	return e
}

// Validation reports bad input shape, range or sort field.
func Validation(msg string, cause ...error) error { return newError(KindValidation, msg, cause) }

// NotFound reports an absent entity or one hidden by the current filters.
func NotFound(msg string, cause ...error) error { return newError(KindNotFound, msg, cause) }

// Conflict reports a state collision, e.g. a category name reused across branches.
func Conflict(msg string, cause ...error) error { return newError(KindConflict, msg, cause) }

// Forbidden reports a failed role or ownership check.
func Forbidden(msg string, cause ...error) error { return newError(KindForbidden, msg, cause) }

// Internal reports an unexpected infrastructure failure.
func Internal(msg string, cause ...error) error { return newError(KindInternal, msg, cause) }

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err without its cause.
// Internal errors are masked.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "internal server error"
	}
	if e.Msg == "" {
		return e.Error()
	}
	return e.Msg
}
