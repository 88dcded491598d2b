// Package errors defines the failure taxonomy shared by the resolver, the
// analytics sink, the embed bootstrapper and the API.
//
// Callers branch on the code, never on the message:
//
//	if errors.Is(err, errors.ErrNotFound) { ... }   // terminal, show placeholder
//	if errors.IsTransient(err) { ... }              // storage or network, caller may retry
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Is is errors.Is, so callers importing this package need not alias both.
var Is = errors.Is

// Code is the machine-readable part of an error, sent to clients as "code".
type Code string

const (
	CodeNotFound       Code = "NOT_FOUND"
	CodeValidation     Code = "VALIDATION"
	CodeTransient      Code = "TRANSIENT"
	CodeMalformedEmbed Code = "MALFORMED_EMBED"
	CodeInternal       Code = "INTERNAL"
)

// HTTPStatus maps a code onto a response status. Anything not caused by
// the request itself is a 500.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeMalformedEmbed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a code, a message safe to show a widget owner, optional
// field details and the underlying cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code, so the sentinels below work
// with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// HTTPStatus returns the status for the error's code.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// Sentinels for errors.Is.
var (
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation     = &Error{Code: CodeValidation, Message: "validation error"}
	ErrTransient      = &Error{Code: CodeTransient, Message: "temporarily unavailable"}
	ErrMalformedEmbed = &Error{Code: CodeMalformedEmbed, Message: "malformed embed"}
)

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent or inactive widget.
func NotFound(msg string) *Error { return &Error{Code: CodeNotFound, Message: msg} }

func NotFoundf(format string, args ...any) *Error { return newf(CodeNotFound, format, args...) }

func Validation(msg string) *Error { return &Error{Code: CodeValidation, Message: msg} }

func Validationf(format string, args ...any) *Error { return newf(CodeValidation, format, args...) }

// ValidationWithDetails attaches per-field messages, keyed by field path.
func ValidationWithDetails(msg string, details map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// MalformedEmbedf reports a script URL the widget id cannot be read from.
func MalformedEmbedf(format string, args ...any) *Error {
	return newf(CodeMalformedEmbed, format, args...)
}

// Transient wraps a storage or network failure. Nothing in this module
// retries it.
func Transient(err error, msg string) *Error {
	return &Error{Code: CodeTransient, Message: msg, cause: err}
}

// IsTransient reports whether err carries the transient code.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
