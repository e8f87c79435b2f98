package executor

import "sync"

// Worker is a single dedicated goroutine draining its own FIFO queue, used as
// the building block of WorkerGroup. Grounded on
// concurrent/worker_thread.hpp's worker_thread: try a non-blocking dequeue
// first, fall back to a blocking wait, run callables off the queue's lock.
// Unlike Pool, a Worker never steals from anyone — it is for partitioned
// workloads where affinity (always the same goroutine) matters more than load
// balancing, e.g. one Worker per WorkerGroup slot addressed by position.
type Worker struct {
	queue *globalQueue
	state *fastState
	wg    sync.WaitGroup
}

// NewWorker starts the worker's goroutine immediately.
func NewWorker() *Worker {
	w := &Worker{queue: newGlobalQueue(), state: newFastState(poolRunning)}
	w.wg.Add(1)
	go w.run()
	return w
}

// Execute enqueues fn for this worker. Satisfies scheduler.Executor.
func (w *Worker) Execute(fn func()) {
	if err := w.Submit(fn); err != nil {
		logf(LevelWarn, "worker: dropped task after shutdown", nil)
	}
}

// Submit behaves like Execute but reports rejection due to shutdown instead
// of silently dropping it, satisfying scheduler.Submitter.
func (w *Worker) Submit(fn func()) error {
	if w.state.Load() != poolRunning {
		return ErrAlreadyClosed{Name: "worker"}
	}
	if !w.queue.push(fn) {
		return ErrAlreadyClosed{Name: "worker"}
	}
	return nil
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		batch, closed := w.queue.waitPopBulk(16, 0)
		for _, fn := range batch {
			fn()
		}
		if closed {
			return
		}
	}
}

// Shutdown stops accepting new work and blocks until the in-flight queue is
// drained and the goroutine has exited.
func (w *Worker) Shutdown() {
	w.state.Store(poolShutdown)
	w.queue.close()
	w.wg.Wait()
}

// Pending reports the approximate number of queued-but-not-yet-run tasks.
func (w *Worker) Pending() int { return w.queue.sizeApprox() }
