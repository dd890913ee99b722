package llm

import "errors"

var (
	// ErrTransient marks a generation failure that is worth retrying.
	// Generators classify their own failures instead of relying on
	// callers to guess from error text.
	ErrTransient = errors.New("transient generation failure")

	// ErrUnavailable indicates the model server is unreachable.
	ErrUnavailable = errors.New("model server unavailable")

	// ErrRetryExhausted indicates all retry attempts have been used up.
	ErrRetryExhausted = errors.New("generation retry attempts exhausted")
)
