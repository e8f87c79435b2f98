package coflux_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coflux "github.com/dakingffo/Coflux-sub000"
)

func TestAwaitReturnsForkValue(t *testing.T) {
	env := newTestEnvironment(t)
	task := coflux.New(env, func(ctx *coflux.Context) (int, error) {
		f := coflux.Spawn(ctx, func(ctx *coflux.Context) (int, error) {
			return 99, nil
		})
		return coflux.Await(f)
	})
	defer task.Close()

	v, err := task.Join()
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestDispatchHopsExecutorAndReturns(t *testing.T) {
	env := newTestEnvironment(t)
	task := coflux.New(env, func(ctx *coflux.Context) (int, error) {
		exec, err := ctx.Environment().Scheduler().Any()
		if err != nil {
			return 0, err
		}
		return coflux.Dispatch(ctx, exec, func() (int, error) {
			return 5, nil
		})
	})
	defer task.Close()

	v, err := task.Join()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestSleepBlocksApproximateDuration(t *testing.T) {
	env := newTestEnvironment(t)
	start := time.Now()
	task := coflux.New(env, func(ctx *coflux.Context) (int, error) {
		coflux.Sleep(ctx, 40*time.Millisecond)
		return 0, nil
	})
	defer task.Close()

	_, err := task.Join()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestForkViewObservesWithoutCancelling(t *testing.T) {
	env := newTestEnvironment(t)
	var viewErr error
	task := coflux.New(env, func(ctx *coflux.Context) (int, error) {
		f := coflux.Spawn(ctx, func(ctx *coflux.Context) (int, error) {
			return 0, errors.New("child failed")
		})
		view := f.View()
		_, _ = coflux.Await(f)
		_, vErr, _ := view.TryResult()
		viewErr = vErr
		return 0, nil
	})
	defer task.Close()

	_, err := task.Join()
	require.NoError(t, err)
	assert.Error(t, viewErr)
}
