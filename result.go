package coflux

// Result is the tagged-union result slot (C8) of a computation: it holds exactly
// one of {uninitialized, value, error-for-Failed, error-for-Cancelled}, discriminated
// by an atomically stored Status. It is populated exactly once (by the computation's
// own goroutine at its terminal transition) and may be read many times afterward by
// observers, which is safe because the write is a release-store and every read that
// matters is gated behind an acquire-load of the same status.
type Result[T any] struct {
	status atomicStatus
	value  T
	err    error
}

// newResult returns a Result in the Running state.
func newResult[T any]() *Result[T] {
	r := &Result[T]{}
	r.status.store(Running)
	return r
}

// Status returns the current discriminant.
func (r *Result[T]) Status() Status {
	return r.status.load()
}

// EmplaceValue stores a successful value and transitions to Completed. Must be
// called at most once, by the owning computation only.
func (r *Result[T]) EmplaceValue(v T) {
	r.value = v
	r.status.store(Completed)
}

// EmplaceError stores a failure and transitions to Failed.
func (r *Result[T]) EmplaceError(err error) {
	r.err = err
	r.status.store(Failed)
}

// EmplaceCancel stores a cancellation and transitions to Cancelled.
func (r *Result[T]) EmplaceCancel(err error) {
	r.err = err
	r.status.store(Cancelled)
}

// TryThrow returns the stored error if the status is not Completed, else nil.
func (r *Result[T]) TryThrow() error {
	if st := r.status.load(); st != Completed {
		return r.err
	}
	return nil
}

// Value returns the stored value, or the zero value plus an error if the
// computation did not complete successfully.
func (r *Result[T]) Value() (T, error) {
	if err := r.TryThrow(); err != nil {
		var zero T
		return zero, err
	}
	return r.value, nil
}

// MarkHandled advances a terminal Failed/Cancelled status to Handled, returning
// true the first (and only) time this succeeds for a given result. Nothing in
// this package calls it, and Value (and so Join, Await and Fork.Result) still
// returns the stored error for a Handled result.
func (r *Result[T]) MarkHandled() bool {
	for {
		st := r.status.load()
		if st != Failed && st != Cancelled {
			return false
		}
		if r.status.transition(st, Handled) {
			return true
		}
	}
}
