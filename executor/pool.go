package executor

import (
	"runtime"
	"time"
)

// PoolMode selects how a Pool manages its worker count. Grounded on
// concurrent/thread_pool.hpp's two operating modes.
type PoolMode int

const (
	// Fixed keeps exactly the configured number of workers alive for the
	// pool's whole lifetime; idle workers block on the global queue forever.
	Fixed PoolMode = iota
	// Cached starts at the configured minimum and grows on demand
	// (Add_thread), with idle workers past the timeout self-terminating back
	// down to the minimum.
	Cached
)

// PoolOptions configures a Pool.
type PoolOptions struct {
	// Mode selects Fixed or Cached sizing. Defaults to Fixed.
	Mode PoolMode
	// Size is the worker count for Fixed mode, or the minimum (floor) for
	// Cached mode. Defaults to runtime.GOMAXPROCS(0), i.e. the hardware
	// concurrency automaxprocs.Set already reconciled against cgroup limits
	// (see environment.go's init-time call), matching the source's default of
	// std::thread::hardware_concurrency().
	Size int
	// MaxSize bounds growth in Cached mode. Zero means unbounded.
	MaxSize int
	// IdleTimeout is how long a Cached-mode worker waits for work before
	// retiring. Zero selects a conservative default.
	IdleTimeout time.Duration
}

func (o PoolOptions) withDefaults() PoolOptions {
	if o.Size <= 0 {
		o.Size = runtime.GOMAXPROCS(0)
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 5 * time.Second
	}
	return o
}

// Pool is a work-stealing thread pool: the root executor most coflux
// computations dispatch through. Grounded on
// concurrent/thread_pool.hpp::thread_pool<TaskQueue>, composed from
// workStealWorker (concurrent/worksteal_thread.hpp) lanes sharing one
// globalQueue overflow. Pool itself holds no mutex of its own: every access
// to the worker slice, from growth (addWorker), shrink (retireCached), or a
// steal scan, goes through workStealPool.mu, the slice's single owner.
type Pool struct {
	opts  PoolOptions
	wsp   *workStealPool
	state *fastState
}

// NewPool constructs and starts a Pool per opts.
func NewPool(opts PoolOptions) *Pool {
	opts = opts.withDefaults()
	p := &Pool{
		opts:  opts,
		state: newFastState(poolRunning),
	}
	p.wsp = &workStealPool{
		global:      newGlobalQueue(),
		state:       p.state,
		idleTimeout: opts.IdleTimeout,
	}
	// The initial opts.Size workers never self-retire, in either mode; only
	// workers grown by Submit in Cached mode do.
	for i := 0; i < opts.Size; i++ {
		p.addWorker(false)
	}
	return p
}

// addWorker appends a new worker under workStealPool.mu and starts its
// goroutine. Safe to call concurrently with a steal scan or retireCached.
func (p *Pool) addWorker(cached bool) *workStealWorker {
	p.wsp.mu.Lock()
	id := int(p.wsp.nextID.Add(1) - 1)
	w := newWorkStealWorker(id, p.wsp, cached)
	p.wsp.workers = append(p.wsp.workers, w)
	p.wsp.mu.Unlock()
	w.start()
	return w
}

// Execute submits fn for execution on the pool, logging and dropping it if
// the pool has shut down. Satisfies scheduler.Executor; callers that need to
// observe rejection should use Submit instead.
func (p *Pool) Execute(fn func()) {
	if err := p.Submit(fn); err != nil {
		logf(LevelWarn, "pool: rejected submission after shutdown", nil)
	}
}

// Submit behaves like Execute but reports rejection due to shutdown instead
// of silently dropping the task, satisfying scheduler.Submitter. In Cached
// mode, if every existing worker looks busy and the pool is under MaxSize, a
// new worker is grown to absorb the submission — the Go analogue of
// Add_thread.
func (p *Pool) Submit(fn func()) error {
	if p.state.Load() != poolRunning {
		return ErrAlreadyClosed{Name: "thread pool"}
	}
	if p.opts.Mode == Cached && p.shouldGrow() {
		p.addWorker(true)
	}

	if !p.wsp.global.push(fn) {
		return ErrAlreadyClosed{Name: "thread pool"}
	}
	return nil
}

func (p *Pool) shouldGrow() bool {
	p.wsp.mu.Lock()
	defer p.wsp.mu.Unlock()
	if p.opts.MaxSize > 0 && len(p.wsp.workers) >= p.opts.MaxSize {
		return false
	}
	return p.wsp.global.sizeApprox() > len(p.wsp.workers)
}

// retireCached removes a self-terminating Cached-mode worker from the
// pool's steal target list. Only workers grown beyond the initial opts.Size
// self-terminate, so the pool never drops below opts.Size.
func (p *workStealPool) retireCached(w *workStealWorker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, peer := range p.workers {
		if peer == w {
			p.workers = append(p.workers[:i], p.workers[i+1:]...)
			return
		}
	}
}

// Shutdown stops accepting submissions, closes the global queue (waking any
// blocked worker per the REDESIGN FLAG in queue.go), and waits for every
// worker goroutine to exit.
func (p *Pool) Shutdown() {
	if !p.state.TryTransition(poolRunning, poolShuttingDown) {
		return
	}
	p.wsp.global.close()

	p.wsp.mu.Lock()
	workers := append([]*workStealWorker(nil), p.wsp.workers...)
	p.wsp.mu.Unlock()
	for _, w := range workers {
		<-w.done
	}
	p.state.Store(poolShutdown)
}

// Size returns the current worker count.
func (p *Pool) Size() int {
	p.wsp.mu.Lock()
	defer p.wsp.mu.Unlock()
	return len(p.wsp.workers)
}
