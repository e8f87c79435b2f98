package coflux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, Running.IsTerminal())
	assert.False(t, Suspending.IsTerminal())
	assert.True(t, Completed.IsTerminal())
	assert.True(t, Failed.IsTerminal())
	assert.True(t, Cancelled.IsTerminal())
	assert.True(t, Handled.IsTerminal())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "Invalid", Status(99).String())
}

func TestAtomicStatusTransition(t *testing.T) {
	var s atomicStatus
	s.store(Running)
	assert.True(t, s.transition(Running, Suspending))
	assert.False(t, s.transition(Running, Completed))
	assert.Equal(t, Suspending, s.load())
}

func TestResultLifecycle(t *testing.T) {
	r := newResult[int]()
	assert.Equal(t, Running, r.Status())

	r.EmplaceValue(42)
	assert.Equal(t, Completed, r.Status())
	v, err := r.Value()
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestResultMarkHandledOnlyOnce(t *testing.T) {
	r := newResult[int]()
	r.EmplaceError(assertError{})
	assert.True(t, r.MarkHandled())
	assert.False(t, r.MarkHandled())
	assert.Equal(t, Handled, r.Status())
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
