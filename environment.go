package coflux

import (
	"sync"

	"github.com/dakingffo/Coflux-sub000/scheduler"

	"go.uber.org/automaxprocs/maxprocs"
)

var maxprocsOnce sync.Once

// reconcileGOMAXPROCS aligns GOMAXPROCS with any cgroup CPU quota before a
// Pool sizes itself off runtime.GOMAXPROCS(0). Grounded on the source's
// default thread-pool size, std::thread::hardware_concurrency(): the direct
// Go equivalent of "how many threads can this machine actually run" under a
// container CPU limit is runtime.GOMAXPROCS(0) after automaxprocs.Set has had
// a chance to correct it, not the bare (and possibly container-oversized)
// NumCPU.
func reconcileGOMAXPROCS() {
	maxprocsOnce.Do(func() {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	})
}

// Environment bundles everything a computation tree needs to run: the
// scheduler (executor directory) new Tasks are dispatched onto, and the arena
// used for computation-frame allocation. Grounded on
// coflux/include/coflux/environment.hpp's environment<Scheduler>. Immutable
// after construction — safe to share across every Task spawned through it.
type Environment struct {
	scheduler *scheduler.Scheduler
	arena     Arena
}

// Arena allocates and releases computation frames. The default arena simply
// defers to the Go allocator/GC (Allocate is a no-op returning nil, Release is
// a no-op): coflux's computations are ordinary heap-allocated Go structs, so
// there is no custom frame memory to manage the way the C++ source's
// coroutine-frame arena does. A custom Arena is still useful for callers who
// want to pool allocations for high-frequency short-lived computations.
type Arena interface {
	Allocate(size uintptr) unsafePointer
	Release(p unsafePointer, size uintptr)
}

// unsafePointer avoids importing unsafe in the common case; callers that
// implement a real pooling Arena work in terms of unsafe.Pointer themselves
// and convert at the boundary.
type unsafePointer = any

type defaultArena struct{}

func (defaultArena) Allocate(uintptr) unsafePointer   { return nil }
func (defaultArena) Release(unsafePointer, uintptr) {}

// NewEnvironment builds an Environment from a scheduler and the default
// (no-op) arena, mirroring make_environment(scheduler).
func NewEnvironment(sched *scheduler.Scheduler) *Environment {
	return &Environment{scheduler: sched, arena: defaultArena{}}
}

// NewEnvironmentWithArena builds an Environment with a custom Arena.
func NewEnvironmentWithArena(sched *scheduler.Scheduler, arena Arena) *Environment {
	if arena == nil {
		arena = defaultArena{}
	}
	return &Environment{scheduler: sched, arena: arena}
}

// Scheduler returns the environment's executor directory.
func (e *Environment) Scheduler() *scheduler.Scheduler { return e.scheduler }

// Arena returns the environment's frame allocator.
func (e *Environment) Arena() Arena { return e.arena }

// rootExecutor is the executor New and Spawn dispatch a computation's initial
// body onto: the first executor registered in the environment's scheduler
// (Scheduler.Any).
// Matching spec.md §4: "the runtime never calls resume directly" — even the
// very first run of a computation's body goes through Execute.
func (e *Environment) rootExecutor() scheduler.Executor {
	ex, err := e.scheduler.Any()
	if err != nil {
		panic(err)
	}
	return ex
}

func init() {
	reconcileGOMAXPROCS()
}
