package coflux

import (
	"context"
	"fmt"
	"math"
	"sync"

	xsemaphore "golang.org/x/sync/semaphore"

	"github.com/dakingffo/Coflux-sub000/scheduler"
)

// joinable type-erases a *promise[T] down to the operations its parent
// needs regardless of T: wait for it to reach a terminal status, request
// its cancellation, and read its status. This is the Go stand-in for the source's intrusive
// fork-list-of-promise_fork_base, which relies on C++ type erasure through a
// common non-templated base class.
type joinable interface {
	awaitTerminal()
	cancel(cause error)
	status() Status
}

// promise is the shared machinery behind both Task[T] (owning) and Fork[T]
// (attached): a result slot, a cancellation source linked to its parent's, a
// callback list fired exactly once at the terminal transition, and a join
// point over every child it spawned (Task and Fork alike). Grounded on
// promise.hpp's promise_result_base/promise_fork_base pair.
type promise[T any] struct {
	env    *Environment
	owning bool

	result *Result[T]
	stop   *StopSource
	done   chan struct{}

	unregisterParentLink func()

	cbMu      sync.Mutex
	callbacks []func(*Result[T])

	// joinSem counts outstanding (not yet terminal) children; destroyForks
	// acquires it down to zero. Grounded on the source's
	// final_semaphore_acquire, translated onto golang.org/x/sync/semaphore as
	// the counting-semaphore analogue of std::counting_semaphore.
	joinSem     *xsemaphore.Weighted
	childMu     sync.Mutex
	children    []joinable
	forksClosed bool
}

func newPromise[T any](env *Environment, parentToken *StopToken, owning bool) *promise[T] {
	p := &promise[T]{
		env:     env,
		owning:  owning,
		result:  newResult[T](),
		stop:    NewStopSource(),
		done:    make(chan struct{}),
		joinSem: xsemaphore.NewWeighted(math.MaxInt64),
	}
	p.unregisterParentLink = installParentLink(parentToken, p.stop)
	return p
}

func (p *promise[T]) status() Status { return p.result.Status() }

// stopToken returns the token a child spawned under this computation, or the
// computation's own body, observes for cancellation.
func (p *promise[T]) stopToken() *StopToken { return p.stop.Token() }

// addChild registers c as a structurally-owned descendant: the owning
// computation will not itself report Completed until c has reached a
// terminal status (destroy_forks semantics).
func (p *promise[T]) addChild(c joinable) {
	p.childMu.Lock()
	defer p.childMu.Unlock()
	p.children = append(p.children, c)
	_ = p.joinSem.Acquire(context.Background(), 1)
}

// childDone is called by a child, exactly once, when it reaches a terminal
// status, releasing one slot of the join semaphore.
func (p *promise[T]) childDone() {
	p.joinSem.Release(1)
}

// destroyForks blocks until every registered child has reached a terminal
// status, cancelling any still-running ones first if cancelPending is true.
// Grounded on promise_fork_base::destroy_forks, which is unconditional
// (a promise's destructor always joins its forks); cancelPending additionally
// covers the case where the parent itself was cancelled and should not wait
// indefinitely for children that haven't noticed yet.
func (p *promise[T]) destroyForks(cancelPending bool) {
	p.childMu.Lock()
	if p.forksClosed {
		p.childMu.Unlock()
		return
	}
	p.forksClosed = true
	children := append([]joinable(nil), p.children...)
	p.childMu.Unlock()

	if cancelPending {
		for _, c := range children {
			c.cancel(p.stop.storedCause())
		}
	}
	// Every still-outstanding child holds one acquired unit of joinSem
	// (acquired in addChild, released in childDone). Acquiring the semaphore's
	// entire capacity only succeeds once every other holder has released,
	// i.e. once every child has settled — the same barrier-over-a-counting-
	// semaphore idiom the source's final_semaphore_acquire uses, rather than
	// a WaitGroup, so join, in principle, composes with a context deadline.
	_ = p.joinSem.Acquire(context.Background(), math.MaxInt64)
	p.joinSem.Release(math.MaxInt64)
	for _, c := range children {
		c.awaitTerminal()
	}
}

// cancel requests this computation's cancellation; it does not block.
func (p *promise[T]) cancel(cause error) {
	p.stop.Cancel(cause)
}

// awaitTerminal blocks until the computation reaches any terminal status.
func (p *promise[T]) awaitTerminal() {
	<-p.done
}

// onSettled registers cb to run once, on the computation's own goroutine just
// after the terminal transition — or immediately (synchronously, on the
// calling goroutine) if the computation is already terminal. Grounded on the
// teacher's fanOut pattern (promise.go): collect subscribers under a lock,
// release the lock, then invoke outside it so a slow subscriber can't stall
// the transition.
func (p *promise[T]) onSettled(cb func(*Result[T])) {
	p.cbMu.Lock()
	select {
	case <-p.done:
		p.cbMu.Unlock()
		cb(p.result)
		return
	default:
	}
	p.callbacks = append(p.callbacks, cb)
	p.cbMu.Unlock()
}

func (p *promise[T]) fanOut() {
	p.cbMu.Lock()
	callbacks := p.callbacks
	p.callbacks = nil
	p.cbMu.Unlock()
	for _, cb := range callbacks {
		cb(p.result)
	}
}

// run executes fn on the environment's executor and carries it through to its
// terminal transition. It is the common body shared by Task and Fork
// construction: build a Context bound to this promise's StopToken, dispatch
// fn via Execute (never direct invocation — spec.md §4's "the runtime never
// calls resume directly"), and on return join every still-live child, route
// the outcome into result, then close done and fan the outcome out to
// callbacks.
func (p *promise[T]) run(exec scheduler.Executor, fn func(ctx *Context) (T, error)) {
	ctx := &Context{env: p.env, self: p.stop, owner: p}
	exec.Execute(func() {
		p.execBody(ctx, fn)
	})
}

func (p *promise[T]) execBody(ctx *Context, fn func(ctx *Context) (T, error)) {
	var (
		value T
		err   error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = panicToError(r)
			}
		}()
		value, err = fn(ctx)
	}()

	cancelled := p.stop.IsCancelled() && err == nil
	p.destroyForks(cancelled)

	switch {
	case cancelled:
		p.result.EmplaceCancel(&CancelError{Owning: p.owning, Cause: p.stop.storedCause()})
	case err != nil:
		if p.stop.IsCancelled() {
			p.result.EmplaceCancel(&CancelError{Owning: p.owning, Cause: err})
		} else {
			p.result.EmplaceError(err)
		}
	default:
		p.result.EmplaceValue(value)
	}

	close(p.done)
	p.fanOut()
	if p.unregisterParentLink != nil {
		p.unregisterParentLink()
	}
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return WrapError("coflux: computation panicked", err)
	}
	return WrapError("coflux: computation panicked", &panicValue{value: r})
}

type panicValue struct{ value any }

func (p *panicValue) Error() string { return fmt.Sprintf("%v", p.value) }
