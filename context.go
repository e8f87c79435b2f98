package coflux

import (
	"fmt"
	"time"

	"github.com/dakingffo/Coflux-sub000/executor"
	"github.com/dakingffo/Coflux-sub000/scheduler"
)

// parentHub is what Context needs from the computation it belongs to: a
// cancellation token children can link against, a place to register new
// children, and a signal those children use when they finish. promise[T]
// satisfies this for every T without any extra glue.
type parentHub interface {
	addChild(c joinable)
	childDone()
	stopToken() *StopToken
}

// Context is the handle a running computation's body receives, realizing
// spec.md C11: it is simultaneously the await surface (Spawn/Await/Dispatch),
// the cancellation surface (StopToken/IsCancelled/Cancel), and the
// environment accessor. Grounded on this_coroutine.hpp/awaiter.hpp's free
// functions, collapsed into one value since Go lacks the ambient
// "which coroutine is currently running" the source recovers via the
// coroutine_handle passed to an awaiter's await_suspend.
type Context struct {
	env   *Environment
	self  *StopSource
	owner parentHub
}

// Environment returns the Environment this computation was spawned under.
func (c *Context) Environment() *Environment { return c.env }

// StopToken returns this computation's own cancellation token, for passing
// down into code that doesn't need the full Context.
func (c *Context) StopToken() *StopToken { return c.self.Token() }

// IsCancelled reports whether this computation's cancellation was requested.
func (c *Context) IsCancelled() bool { return c.self.IsCancelled() }

// Cancel requests this computation's own cancellation — the Go analogue of
// this_task::cancel()/this_fork::cancel() in the source, callable from
// within the running body to unwind cooperatively rather than from outside.
func (c *Context) Cancel(cause error) { c.self.Cancel(cause) }

// Spawn starts fn as an attached child computation (a Fork) on the
// environment's default executor (the first executor registered in its
// scheduler, see Scheduler.Any), linked into the parent's
// cancellation tree and join set. Grounded on promise.hpp's fork_child: the
// parent's StopSource cancelling cancels the child, and the parent will not
// itself reach a terminal status until the child does (structured
// concurrency, invariant I1).
func Spawn[T any](ctx *Context, fn func(*Context) (T, error)) *Fork[T] {
	return SpawnOn(ctx, ctx.env.rootExecutor(), fn)
}

// SpawnOn is Spawn with an explicit executor for the child, for fanning work
// out across a specific pool rather than the environment's default.
func SpawnOn[T any](ctx *Context, exec scheduler.Executor, fn func(*Context) (T, error)) *Fork[T] {
	child := newPromise[T](ctx.env, ctx.owner.stopToken(), false)
	ctx.owner.addChild(child)
	child.onSettled(func(*Result[T]) {
		ctx.owner.childDone()
	})
	child.run(exec, fn)
	return &Fork[T]{promise: child}
}

// Await blocks the calling goroutine until f reaches a terminal status and
// returns its outcome, unwrapping Completed into (value, nil) and any other
// terminal status into (zero, error). Grounded on promise_result_base::then,
// translated from a suspend-point awaiter into a direct blocking call since
// Go goroutines already block cheaply.
func Await[T any](f *Fork[T]) (T, error) {
	f.promise.awaitTerminal()
	return f.promise.result.Value()
}

// Dispatch runs fn on exec and blocks the caller until it completes,
// returning its result. Grounded on the source's dispatch awaiter: a
// computation that needs to briefly hop onto a different executor (e.g. a
// CPU-bound step that shouldn't run on the I/O thread pool) without
// abandoning its own continuation. If exec has already shut down and reports
// so via scheduler.Submitter, Dispatch returns a ShutdownError instead of
// silently dropping fn, per spec.md §4.5/§7.
func Dispatch[R any](ctx *Context, exec scheduler.Executor, fn func() (R, error)) (R, error) {
	type outcome struct {
		value R
		err   error
	}
	done := make(chan outcome, 1)
	body := func() {
		v, err := fn()
		done <- outcome{value: v, err: err}
	}
	if sub, ok := exec.(scheduler.Submitter); ok {
		if err := sub.Submit(body); err != nil {
			var zero R
			return zero, &ShutdownError{Executor: fmt.Sprintf("%T", exec)}
		}
	} else {
		exec.Execute(body)
	}
	o := <-done
	return o.value, o.err
}

// Sleep blocks the calling goroutine for d, routed through a TimerExecutor
// registered in the environment's scheduler if one is present (so the sleep
// is still "dispatched", never a bare runtime-level park), falling back to
// time.Sleep if no timer executor was registered.
func Sleep(ctx *Context, d time.Duration) {
	if d <= 0 {
		return
	}
	if timer, err := scheduler.Get[*executor.TimerExecutor](ctx.env.Scheduler()); err == nil {
		done := make(chan struct{})
		timer.ExecuteAfter(d, func() { close(done) })
		<-done
		return
	}
	time.Sleep(d)
}
