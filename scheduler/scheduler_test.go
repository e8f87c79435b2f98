package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dakingffo/Coflux-sub000/scheduler"
)

type inlineExecutor struct{ id int }

func (inlineExecutor) Execute(fn func()) { fn() }

type otherExecutor struct{}

func (otherExecutor) Execute(fn func()) { fn() }

func TestGetByConcreteType(t *testing.T) {
	sched := scheduler.New(inlineExecutor{id: 1}, otherExecutor{})

	got, err := scheduler.Get[inlineExecutor](sched)
	require.NoError(t, err)
	assert.Equal(t, 1, got.id)

	_, err = scheduler.Get[otherExecutor](sched)
	require.NoError(t, err)
}

func TestGetMissingType(t *testing.T) {
	sched := scheduler.New(otherExecutor{})
	_, err := scheduler.Get[inlineExecutor](sched)
	require.Error(t, err)
	var nf *scheduler.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestGetIndexAddressesPositionally(t *testing.T) {
	sched := scheduler.New(inlineExecutor{id: 0}, inlineExecutor{id: 1}, inlineExecutor{id: 2})

	second, err := scheduler.GetIndex[inlineExecutor](sched, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, second.id)

	_, err = scheduler.GetIndex[inlineExecutor](sched, 99)
	assert.Error(t, err)
}

func TestMustGetPanicsOnMiss(t *testing.T) {
	sched := scheduler.New()
	assert.Panics(t, func() {
		scheduler.MustGet[inlineExecutor](sched)
	})
}

func TestAnyReturnsSomeExecutor(t *testing.T) {
	sched := scheduler.New(inlineExecutor{id: 7})
	ex, err := sched.Any()
	require.NoError(t, err)
	require.NotNil(t, ex)
}

func TestToNarrowsSubScheduler(t *testing.T) {
	full := scheduler.New(inlineExecutor{id: 1}, otherExecutor{})
	narrow := full.To(otherExecutor{})

	_, err := scheduler.Get[inlineExecutor](narrow)
	assert.Error(t, err)
	_, err = scheduler.Get[otherExecutor](narrow)
	assert.NoError(t, err)
}
