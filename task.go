package coflux

import (
	"sync"

	"github.com/dakingffo/Coflux-sub000/scheduler"
)

// Task is an owning, root computation (spec.md C9/C10): the only kind of
// computation with no parent, and the only kind whose handle is responsible
// for joining and destroying its entire descendant tree (invariants I1-I5).
// Grounded on promise.hpp's promise_fork_base<owning> at the root of a tree,
// and environment.hpp's make_environment entry points that create one.
type Task[T any] struct {
	promise *promise[T]

	closeOnce sync.Once
}

// New spawns fn as a new root Task, dispatched via the environment's
// scheduler. The returned Task must eventually have Close called on it
// exactly once (directly, or via a deferred Close) to satisfy invariant I5:
// every owning computation is joined before it is discarded.
func New[T any](env *Environment, fn func(*Context) (T, error)) *Task[T] {
	return NewOn(env, env.rootExecutor(), fn)
}

// NewOn is New with an explicit root executor.
func NewOn[T any](env *Environment, exec scheduler.Executor, fn func(*Context) (T, error)) *Task[T] {
	p := newPromise[T](env, nil, true)
	t := &Task[T]{promise: p}
	p.run(exec, fn)
	return t
}

// Status returns the Task's current lifecycle status.
func (t *Task[T]) Status() Status { return t.promise.status() }

// StopToken returns a token observers outside the computation can use to
// watch for its cancellation without being able to request it themselves.
func (t *Task[T]) StopToken() *StopToken { return t.promise.stopToken() }

// Cancel requests the Task's cancellation; cancellation is cooperative, so
// the body only actually stops once it next checks ctx.IsCancelled() or
// returns.
func (t *Task[T]) Cancel(cause error) { t.promise.cancel(cause) }

// Join blocks until the Task reaches a terminal status and returns its
// outcome. Calling Join more than once is safe; every call after the first
// simply observes the already-settled result.
func (t *Task[T]) Join() (T, error) {
	t.promise.awaitTerminal()
	return t.promise.result.Value()
}

// OnSettled registers cb to run once the Task reaches a terminal status,
// synchronously if it already has.
func (t *Task[T]) OnSettled(cb func(T, error)) {
	t.promise.onSettled(func(r *Result[T]) {
		v, err := r.Value()
		cb(v, err)
	})
}

// Close is the Task's destructor equivalent: it blocks until the Task and
// every descendant it structurally owns has reached a terminal status
// (destroy_forks), matching promise_fork_base<owning>'s destructor. Close is
// idempotent; calling it more than once is a no-op after the first.
func (t *Task[T]) Close() {
	t.closeOnce.Do(func() {
		t.promise.awaitTerminal()
	})
}
