package coflux

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Status is the lifecycle state of a computation.
//
// Transitions:
//
//	Running   <-> Suspending
//	Running    -> Completed | Failed | Cancelled
//	Failed     -> Handled   (via Result.MarkHandled)
//	Cancelled  -> Handled   (via Result.MarkHandled)
//
// Completed, Failed, Cancelled and Handled are terminal: no further transition is
// valid out of them except Failed/Cancelled -> Handled.
type Status uint32

const (
	// Invalid is the zero value; no live computation ever reports it.
	Invalid Status = iota
	// Running means the computation's body is currently executing or about to.
	Running
	// Suspending means the body has suspended at an await point, waiting to be
	// resumed via its executor.
	Suspending
	// Completed means the body returned a value (or void) normally.
	Completed
	// Failed means the body raised an error that was not handled in-place.
	Failed
	// Cancelled means the computation was cancelled, cooperatively or forcefully.
	Cancelled
	// Handled means a Failed or Cancelled outcome was marked observed via
	// Result.MarkHandled; the stored error is still returned by Value.
	Handled
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Suspending:
		return "Suspending"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	case Cancelled:
		return "Cancelled"
	case Handled:
		return "Handled"
	default:
		return "Invalid"
	}
}

// IsTerminal reports whether s is one of the four terminal states.
func (s Status) IsTerminal() bool {
	switch s {
	case Completed, Failed, Cancelled, Handled:
		return true
	default:
		return false
	}
}

// atomicStatus is a cache-line padded atomic Status word, one per computation.
//
// It is padded on both sides with golang.org/x/sys/cpu.CacheLinePad, the ecosystem
// replacement for the hand-rolled `_ [64]byte` filler the teacher package uses for
// its own FastState (see executor.state.go) — two promises that land on adjacent
// cache lines must not make each other's status CAS bounce.
type atomicStatus struct {
	_   cpu.CacheLinePad
	v   atomic.Uint32
	_   cpu.CacheLinePad
}

func (a *atomicStatus) load() Status {
	return Status(a.v.Load())
}

func (a *atomicStatus) store(s Status) {
	a.v.Store(uint32(s))
}

// transition performs a CAS and reports whether it succeeded.
func (a *atomicStatus) transition(from, to Status) bool {
	return a.v.CompareAndSwap(uint32(from), uint32(to))
}

// exchange unconditionally stores to and returns the previous value.
func (a *atomicStatus) exchange(to Status) Status {
	return Status(a.v.Swap(uint32(to)))
}
