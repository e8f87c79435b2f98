package executor_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dakingffo/Coflux-sub000/executor"
)

func TestTimerExecutorFiresAfterDelay(t *testing.T) {
	timer := executor.NewTimerExecutor()
	defer timer.Close()

	start := time.Now()
	done := make(chan time.Duration, 1)
	timer.ExecuteAfter(30*time.Millisecond, func() {
		done <- time.Since(start)
	})

	select {
	case elapsed := <-done:
		assert.GreaterOrEqual(t, elapsed, 25*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestTimerExecutorZeroDelayRunsSynchronously(t *testing.T) {
	timer := executor.NewTimerExecutor()
	defer timer.Close()

	var ran atomic.Bool
	timer.ExecuteAfter(0, func() { ran.Store(true) })
	assert.True(t, ran.Load())
}

func TestTimerExecutorOrdersByDeadline(t *testing.T) {
	timer := executor.NewTimerExecutor()
	defer timer.Close()

	order := make(chan int, 3)
	timer.ExecuteAfter(60*time.Millisecond, func() { order <- 3 })
	timer.ExecuteAfter(10*time.Millisecond, func() { order <- 1 })
	timer.ExecuteAfter(30*time.Millisecond, func() { order <- 2 })

	var got []int
	for i := 0; i < 3; i++ {
		select {
		case v := <-order:
			got = append(got, v)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for timer callbacks")
		}
	}
	require.Equal(t, []int{1, 2, 3}, got)
}
