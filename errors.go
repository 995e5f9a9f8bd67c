package ticker

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrInvalidDelay is matched (via [errors.Is]) by every [InvalidDelayError].
	ErrInvalidDelay = errors.New("ticker: delay must be a positive number")

	// ErrInvalidRepeatCount is matched (via [errors.Is]) by every
	// [InvalidRepeatCountError].
	ErrInvalidRepeatCount = errors.New("ticker: repeat count must be a positive number")

	// ErrDeferredCancelled is reported by [Deferred.Err] after a pending
	// [Deferred] is cancelled before completion.
	ErrDeferredCancelled = errors.New("ticker: deferred operation cancelled")

	// ErrNilClock is returned by [New] when [WithClock] is given a nil clock.
	ErrNilClock = errors.New("ticker: clock cannot be nil")
)

// InvalidDelayError reports a registration whose delay was not a positive
// finite number. It carries the offending value.
type InvalidDelayError struct {
	Delay float64
}

// Error implements the error interface.
func (e *InvalidDelayError) Error() string {
	return fmt.Sprintf("ticker: invalid delay %v: delay must be a positive number", e.Delay)
}

// Unwrap returns [ErrInvalidDelay] for use with [errors.Is].
func (e *InvalidDelayError) Unwrap() error {
	return ErrInvalidDelay
}

// InvalidRepeatCountError reports a registration whose repeat count was not
// positive. It carries the offending value.
type InvalidRepeatCountError struct {
	Repeats int64
}

// Error implements the error interface.
func (e *InvalidRepeatCountError) Error() string {
	return fmt.Sprintf("ticker: invalid repeat count %d: repeat count must be a positive number", e.Repeats)
}

// Unwrap returns [ErrInvalidRepeatCount] for use with [errors.Is].
func (e *InvalidRepeatCountError) Unwrap() error {
	return ErrInvalidRepeatCount
}
