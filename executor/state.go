package executor

import "sync/atomic"

// poolState is the lifecycle state of a thread pool or single worker thread,
// distinct from coflux.Status (which tracks a computation, not an execution
// substrate). Modeled on the teacher package's FastState: pure atomic CAS, no
// mutex, cache-line padded so two pools sharing an allocation don't make each
// other's state CAS bounce.
type poolState uint32

const (
	// poolRunning accepts submissions and dispatches them to workers.
	poolRunning poolState = iota
	// poolShuttingDown no longer accepts submissions; workers drain the queue
	// then exit.
	poolShuttingDown
	// poolShutdown is terminal: every worker has exited.
	poolShutdown
)

func (s poolState) String() string {
	switch s {
	case poolRunning:
		return "running"
	case poolShuttingDown:
		return "shutting-down"
	case poolShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// fastState is a lock-free atomic state word, cache-line padded.
type fastState struct { // betteralign:ignore
	_ [64]byte //nolint:unused
	v atomic.Uint32
	_ [60]byte //nolint:unused
}

func newFastState(initial poolState) *fastState {
	s := &fastState{}
	s.v.Store(uint32(initial))
	return s
}

func (s *fastState) Load() poolState { return poolState(s.v.Load()) }

func (s *fastState) Store(state poolState) { s.v.Store(uint32(state)) }

func (s *fastState) TryTransition(from, to poolState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

func (s *fastState) IsShutdown() bool { return s.Load() == poolShutdown }

func (s *fastState) CanAcceptWork() bool { return s.Load() == poolRunning }
