package channel_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dakingffo/Coflux-sub000/channel"
)

func TestBoundedSendRecvRoundTrip(t *testing.T) {
	ch := channel.NewBounded[int](4)
	require.True(t, ch.Send(1))
	require.True(t, ch.Send(2))

	v, ok := ch.Recv()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = ch.Recv()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestBoundedSendNeverBlocksWhenFull(t *testing.T) {
	ch := channel.NewBounded[int](2)
	require.True(t, ch.Send(1))
	require.True(t, ch.Send(2))

	done := make(chan bool, 1)
	go func() { done <- ch.Send(3) }()

	select {
	case accepted := <-done:
		assert.False(t, accepted, "send into a full bounded channel must report rejection, not block")
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Send blocked on a full bounded channel")
	}
}

func TestBoundedRecvBlocksUntilSend(t *testing.T) {
	ch := channel.NewBounded[int](2)
	result := make(chan int, 1)
	go func() {
		v, ok := ch.Recv()
		require.True(t, ok)
		result <- v
	}()

	time.Sleep(20 * time.Millisecond)
	ch.Send(42)

	select {
	case v := <-result:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("Recv never unblocked")
	}
}

func TestBoundedCloseDiscardsBufferedValues(t *testing.T) {
	ch := channel.NewBounded[int](4)
	require.True(t, ch.Send(1))
	require.True(t, ch.Send(2))

	ch.Close()

	_, ok := ch.TryRecv()
	assert.False(t, ok, "Close must drain anything still buffered")
}

func TestBoundedCloseWakesBlockedReceivers(t *testing.T) {
	ch := channel.NewBounded[int](2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, ok := ch.Recv()
		assert.False(t, ok)
	}()

	time.Sleep(20 * time.Millisecond)
	ch.Close()
	wg.Wait()
}
