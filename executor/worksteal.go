package executor

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// workStealWorker is one lane of a Pool: a local deque the owner pushes/pops
// from, with every other lane's deque plus the pool's shared globalQueue as
// fallback sources. Grounded on concurrent/worksteal_thread.hpp's exact
// algorithm:
//  1. try the local deque (popBottom)
//  2. try the global queue (bulk: run the first item, push the rest onto the
//     local deque)
//  3. try stealing from a random peer, scanning every peer starting at a
//     random offset before giving up (Try_steal / Has_work_anywhere)
//  4. if nothing was found: in fixed mode, block on the global queue
//     (wait_dequeue_bulk); in cached mode, block with a timeout and
//     self-terminate if the timeout elapses with still nothing to do
//     (idle-timeout shrink).
type workStealWorker struct {
	id     int
	local  *localDeque
	pool   *workStealPool
	done   chan struct{}
	cached bool
}

func newWorkStealWorker(id int, pool *workStealPool, cached bool) *workStealWorker {
	w := &workStealWorker{id: id, local: newLocalDeque(64), pool: pool, done: make(chan struct{}), cached: cached}
	return w
}

func (w *workStealWorker) start() {
	go w.run()
}

func (w *workStealWorker) run() {
	defer close(w.done)
	for {
		fn, ok := w.tryGetWork()
		if ok {
			fn()
			continue
		}
		if w.pool.state.Load() == poolShutdown {
			return
		}

		var timeout time.Duration
		if w.cached {
			timeout = w.pool.idleTimeout
		}
		batch, closed := w.pool.global.waitPopBulk(8, timeout)
		if len(batch) > 0 {
			// Park the surplus in the local deque, where idle peers can steal it.
			for _, fn := range batch[1:] {
				w.local.pushBottom(fn)
			}
			batch[0]()
			continue
		}
		if closed {
			return
		}
		if w.cached && timeout > 0 {
			// Nothing arrived within the idle window and nothing is stealable
			// anywhere: this cached-mode worker shrinks itself out of the pool.
			if !w.hasWorkAnywhere() {
				w.pool.retireCached(w)
				return
			}
		}
	}
}

func (w *workStealWorker) tryGetWork() (func(), bool) {
	if fn, ok := w.local.popBottom(); ok {
		return fn, true
	}
	if batch := w.pool.global.tryPopBulk(8); len(batch) > 0 {
		for _, fn := range batch[1:] {
			w.local.pushBottom(fn)
		}
		return batch[0], true
	}
	return w.trySteal()
}

// trySteal scans every peer exactly once, starting from a random offset, per
// Try_steal in the source. The peer list is snapshotted under
// workStealPool.mu since addWorker/retireCached can append to or splice the
// shared slice concurrently.
func (w *workStealWorker) trySteal() (func(), bool) {
	w.pool.mu.Lock()
	peers := append([]*workStealWorker(nil), w.pool.workers...)
	w.pool.mu.Unlock()
	n := len(peers)
	if n <= 1 {
		return nil, false
	}
	start := rand.Intn(n)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		peer := peers[idx]
		if peer == w {
			continue
		}
		if fn, ok := peer.local.stealTop(); ok {
			return fn, true
		}
	}
	return nil, false
}

func (w *workStealWorker) hasWorkAnywhere() bool {
	if w.pool.global.sizeApprox() > 0 {
		return true
	}
	w.pool.mu.Lock()
	peers := append([]*workStealWorker(nil), w.pool.workers...)
	w.pool.mu.Unlock()
	for _, p := range peers {
		if p.local.size() > 0 {
			return true
		}
	}
	return false
}

// workStealPool is the shared state a set of workStealWorkers coordinate
// over: the fallback global queue, the registry of peer workers (for
// stealing), and pool-wide lifecycle state.
type workStealPool struct {
	mu          sync.Mutex
	global      *globalQueue
	workers     []*workStealWorker
	state       *fastState
	idleTimeout time.Duration
	nextID      atomic.Int64
}
