package executor_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dakingffo/Coflux-sub000/executor"
)

func TestPoolRunsEverySubmission(t *testing.T) {
	pool := executor.NewPool(executor.PoolOptions{Mode: executor.Fixed, Size: 4})
	defer pool.Shutdown()

	const n = 500
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		pool.Execute(func() {
			count.Add(1)
			wg.Done()
		})
	}
	wg.Wait()
	assert.EqualValues(t, n, count.Load())
}

func TestPoolStealingBalancesWork(t *testing.T) {
	pool := executor.NewPool(executor.PoolOptions{Mode: executor.Fixed, Size: 2})
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)
	blocker := make(chan struct{})
	pool.Execute(func() {
		<-blocker
		wg.Done()
	})

	const n = 200
	var count atomic.Int64
	var rest sync.WaitGroup
	rest.Add(n)
	for i := 0; i < n; i++ {
		pool.Execute(func() {
			count.Add(1)
			rest.Done()
		})
	}
	rest.Wait()
	close(blocker)
	wg.Wait()
	assert.EqualValues(t, n, count.Load())
}

func TestPoolShutdownDrainsAndStops(t *testing.T) {
	pool := executor.NewPool(executor.PoolOptions{Mode: executor.Fixed, Size: 3})
	var ran atomic.Int64
	var wg sync.WaitGroup
	wg.Add(10)
	for i := 0; i < 10; i++ {
		pool.Execute(func() {
			ran.Add(1)
			wg.Done()
		})
	}
	pool.Shutdown()
	wg.Wait()
	assert.EqualValues(t, 10, ran.Load())
}

func TestCachedPoolGrowsUnderLoad(t *testing.T) {
	pool := executor.NewPool(executor.PoolOptions{Mode: executor.Cached, Size: 1, MaxSize: 8, IdleTimeout: 50 * time.Millisecond})
	defer pool.Shutdown()

	blocker := make(chan struct{})
	pool.Execute(func() { <-blocker })

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		pool.Execute(func() { wg.Done() })
	}
	wg.Wait()
	close(blocker)

	require.Eventually(t, func() bool { return pool.Size() >= 1 }, time.Second, 5*time.Millisecond)
}
