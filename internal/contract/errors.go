package contract

import (
	"errors"
	"fmt"
)

// Kind is a stable machine-readable error classification returned to
// callers alongside a human-readable message.
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindPreconditionFailed  Kind = "PRECONDITION_FAILED"
	KindInvalidArgument     Kind = "INVALID_ARGUMENT"
	KindGenerationFailed    Kind = "GENERATION_FAILED"
	KindConcurrencyConflict Kind = "CONCURRENCY_CONFLICT"
)

// Error carries an error kind, a message for users, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain; it returns "" for plain
// errors.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// NotFoundf builds a NOT_FOUND error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// PreconditionFailedf builds a PRECONDITION_FAILED error.
func PreconditionFailedf(format string, args ...any) *Error {
	return &Error{Kind: KindPreconditionFailed, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf builds an INVALID_ARGUMENT error.
func InvalidArgumentf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// GenerationFailed builds a GENERATION_FAILED error wrapping its cause.
func GenerationFailed(msg string, cause error) *Error {
	return &Error{Kind: KindGenerationFailed, Message: msg, Err: cause}
}

// ConcurrencyConflictf builds a CONCURRENCY_CONFLICT error.
func ConcurrencyConflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConcurrencyConflict, Message: fmt.Sprintf(format, args...)}
}
