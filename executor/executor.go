// Package executor provides the concrete scheduler.Executor implementations
// (spec.md C1-C6): a no-op inline executor, a new-goroutine-per-submission
// executor, a work-stealing thread pool, a timer thread, and a fixed worker
// group, grounded on coflux/include/coflux/executor.hpp and the
// concurrent/*.hpp headers it composes.
package executor

import (
	"fmt"

	"github.com/dakingffo/Coflux-sub000/scheduler"
)

var (
	_ scheduler.Executor  = NoopExecutor{}
	_ scheduler.Executor  = NewThreadExecutor{}
	_ scheduler.Executor  = (*TimerExecutor)(nil)
	_ scheduler.Executor  = (*Pool)(nil)
	_ scheduler.Executor  = (*Worker)(nil)
	_ scheduler.Submitter = (*Pool)(nil)
	_ scheduler.Submitter = (*Worker)(nil)
)

// NoopExecutor runs fn synchronously on the caller's goroutine. Grounded on
// executor.hpp's noop_executor, used for tests and for continuations that are
// known to be cheap enough to not need a hop.
type NoopExecutor struct{}

func (NoopExecutor) Execute(fn func()) { fn() }

// NewThreadExecutor spawns a fresh goroutine for every submission. Grounded
// on executor.hpp's new_thread_executor — the unbounded-parallelism baseline
// executor, appropriate for a small number of long-lived or rarely-submitted
// tasks, not for high-frequency dispatch.
type NewThreadExecutor struct{}

func (NewThreadExecutor) Execute(fn func()) { go fn() }

// String implements fmt.Stringer for diagnostic logging.
func (NoopExecutor) String() string      { return "NoopExecutor" }
func (NewThreadExecutor) String() string { return "NewThreadExecutor" }

// ErrAlreadyClosed is returned by Submit-style calls on a shut-down executor.
type ErrAlreadyClosed struct{ Name string }

func (e ErrAlreadyClosed) Error() string { return fmt.Sprintf("executor: %s is closed", e.Name) }
