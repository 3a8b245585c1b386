package llm

import "errors"

var (
	// ErrModelUnavailable indicates the model server is unreachable.
	ErrModelUnavailable = errors.New("model server unavailable")

	// ErrTimeout indicates the model request exceeded the configured timeout.
	// Callers treat this as a soft skip, not a hard failure.
	ErrTimeout = errors.New("model request timed out")

	// ErrInvalidOutput indicates the model response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid model output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("model retry attempts exhausted")
)
