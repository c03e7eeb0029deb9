package frame

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned by a Timeout frame when its child did not
	// finish within the budget.
	ErrTimeout = errors.New("frame: execution timed out")

	// ErrSkipped is returned by a Conditional frame whose predicate was
	// false and which has no alternative. A skip is a distinct outcome:
	// it is neither success nor failure, so Retry does not retry it and
	// Fallback does not fall back on it.
	ErrSkipped = errors.New("frame: skipped by condition")

	// ErrDependencyUnresolved is returned by a Dependency frame whose
	// condition was still false when the deadline expired.
	ErrDependencyUnresolved = errors.New("frame: dependency unresolved at deadline")
)

// RetryExhaustedError is returned by a Retry frame when every attempt
// failed. It wraps the last attempt's error.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("frame: retry exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.LastErr
}

// IsSkip reports whether err represents a conditional skip rather than
// a failure.
func IsSkip(err error) bool {
	return errors.Is(err, ErrSkipped)
}

// IsCancellation reports whether err stems from context cancellation or
// deadline expiry of the run itself.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
