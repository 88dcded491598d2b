package store

import "fmt"

// Kind classifies a storage failure independent of the backend.
type Kind uint8

const (
	KindNotFound Kind = iota + 1
	KindAlreadyExists
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "storage error"
	}
}

// Error is a classified storage error. Backend failures that fit no kind
// (locked database, closed pool) are returned unwrapped.
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

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so messages can vary.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf returns an error of the sentinel's kind with a formatted message.
func (e *Error) Errorf(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// WithCause wraps an underlying driver error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

// Sentinels for errors.Is.
var (
	ErrNotFound      = &Error{Kind: KindNotFound, Message: KindNotFound.String()}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists, Message: KindAlreadyExists.String()}
	ErrInvalidInput  = &Error{Kind: KindInvalidInput, Message: KindInvalidInput.String()}
)
