package coflux

// Fork is an attached, non-owning computation (spec.md C9): created only via
// Spawn/SpawnOn from within a running computation's Context, linked into its
// parent's cancellation tree, and structurally joined by the parent before
// the parent itself can reach a terminal status. Grounded on promise.hpp's
// promise_fork_base<attached>.
type Fork[T any] struct {
	promise *promise[T]
}

// Status returns the Fork's current lifecycle status.
func (f *Fork[T]) Status() Status { return f.promise.status() }

// Cancel requests the Fork's cancellation directly, independent of its
// parent.
func (f *Fork[T]) Cancel(cause error) { f.promise.cancel(cause) }

// Result blocks until the Fork reaches a terminal status and returns its
// outcome. Equivalent to Await(f) but usable without holding the spawning
// Context.
func (f *Fork[T]) Result() (T, error) {
	f.promise.awaitTerminal()
	return f.promise.result.Value()
}

// View returns a read-only ForkView over the same underlying computation, for
// handing observation access to code that should not be able to cancel it.
func (f *Fork[T]) View() *ForkView[T] { return &ForkView[T]{promise: f.promise} }

// ForkView is a non-owning, read-only window onto a Fork: it can observe
// status and outcome but cannot cancel. Grounded on the source's distinction
// between a fork handle and a plain observer of one (e.g. a combinator
// watching several forks without taking ownership of any).
type ForkView[T any] struct {
	promise *promise[T]
}

// Status returns the underlying Fork's current lifecycle status.
func (v *ForkView[T]) Status() Status { return v.promise.status() }

// TryResult returns the outcome without blocking if the Fork has already
// reached a terminal status; ok is false while still running.
func (v *ForkView[T]) TryResult() (value T, err error, ok bool) {
	if !v.promise.status().IsTerminal() {
		return value, nil, false
	}
	value, err = v.promise.result.Value()
	return value, err, true
}

// OnSettled registers cb to run once the underlying Fork reaches a terminal
// status, synchronously if it already has.
func (v *ForkView[T]) OnSettled(cb func(T, error)) {
	v.promise.onSettled(func(r *Result[T]) {
		value, err := r.Value()
		cb(value, err)
	})
}
