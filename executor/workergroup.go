package executor

import "fmt"

// WorkerGroup is a fixed-size collection of single-queue Workers, each
// independently addressable by position via scheduler.GetIndex. Grounded on
// executor.hpp's worker_group<N, TaskQueue>: unlike Pool, a WorkerGroup never
// load-balances across its members — callers pick a specific slot (e.g. to
// pin all continuations for one logical actor onto the same goroutine).
type WorkerGroup struct {
	workers []*Worker
}

// NewWorkerGroup starts n Workers.
func NewWorkerGroup(n int) *WorkerGroup {
	if n <= 0 {
		panic("executor: WorkerGroup size must be positive")
	}
	g := &WorkerGroup{workers: make([]*Worker, n)}
	for i := range g.workers {
		g.workers[i] = NewWorker()
	}
	return g
}

// At returns the pos-th worker for direct submission or for registration in a
// scheduler under a positional index.
func (g *WorkerGroup) At(pos int) *Worker {
	if pos < 0 || pos >= len(g.workers) {
		panic(fmt.Sprintf("executor: WorkerGroup index %d out of range [0,%d)", pos, len(g.workers)))
	}
	return g.workers[pos]
}

// Len returns the number of workers in the group.
func (g *WorkerGroup) Len() int { return len(g.workers) }

// Execute is intentionally unsupported on the group itself: submissions must
// name a specific slot via At, matching the source's design (worker_group has
// no top-level execute — only certain_executor<Idx> addressing does).
func (g *WorkerGroup) Execute(func()) {
	panic("executor: WorkerGroup has no default executor; use At(pos).Execute")
}

// Shutdown stops every worker in the group and waits for drain.
func (g *WorkerGroup) Shutdown() {
	for _, w := range g.workers {
		w.Shutdown()
	}
}
