// Package coflux errors follow the teacher package's (eventloop) convention:
// small struct types with an Unwrap/Is chain plus a handful of sentinel values,
// rather than opaque fmt.Errorf strings, so callers can errors.As/errors.Is their
// way to the original cause.
package coflux

import (
	"errors"
	"fmt"
)

// CancelError is the sentinel returned by Join/Await/Fork.Result for a
// computation that reached the Cancelled status. It is the Go analogue of the
// C++ source's cancel_exception; Owning records whether it came from a Task (root) or a
// Fork (attached child), matching cancel_exception(Ownership) in promise.hpp.
type CancelError struct {
	// Owning is true if the cancelled computation was a root Task.
	Owning bool
	// Cause is an optional wrapped error describing why cancellation happened.
	Cause error
}

func (e *CancelError) Error() string {
	if e.Owning {
		return "coflux: task was cancelled"
	}
	return "coflux: fork was cancelled"
}

func (e *CancelError) Unwrap() error { return e.Cause }

// ExecutorNotFoundError describes a programmer error (spec.md §7 kind 5): an
// executor of the requested type/position is missing. Scheduler lookups
// themselves report a miss as scheduler.NotFoundError; nothing in this package
// returns ExecutorNotFoundError.
type ExecutorNotFoundError struct {
	Want string
}

func (e *ExecutorNotFoundError) Error() string {
	return fmt.Sprintf("coflux: scheduler has no executor for %s", e.Want)
}

// ShutdownError is returned by Dispatch when the target executor's Submit
// reports that it is no longer running (executor.Pool and executor.Worker
// report this with executor.ErrAlreadyClosed).
type ShutdownError struct {
	Executor string
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("coflux: %s is shut down", e.Executor)
}

// ClosedError describes an operation against a closed channel. The channel
// package's Send/Recv report closure as false / (zero, false) rather than as an
// error; nothing in this module returns ClosedError.
type ClosedError struct {
	Channel string
}

func (e *ClosedError) Error() string {
	return fmt.Sprintf("coflux: %s channel is closed", e.Channel)
}

// AggregateError collects every observed child error for callers that want to
// inspect all of them, e.g. via ForkView after a WhenAll short-circuit. WhenAll
// itself always returns a single first-observed error, per spec.md §4.12/§7.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "coflux: aggregate error (empty)"
	}
	return fmt.Sprintf("coflux: %d error(s), first: %v", len(e.Errors), e.Errors[0])
}

func (e *AggregateError) Unwrap() []error { return e.Errors }

func (e *AggregateError) Is(target error) bool {
	var agg *AggregateError
	return errors.As(target, &agg)
}

// WrapError is a convenience for attaching a message to a cause while preserving
// errors.Is/As compatibility, mirroring the teacher's WrapError helper.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}

// ErrNoWinner is returned by WhenAny when called with zero candidates.
var ErrNoWinner = errors.New("coflux: when_any requires at least one candidate")
