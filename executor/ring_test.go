package executor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalDequeLIFOOwnerOrder(t *testing.T) {
	d := newLocalDeque(4)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		d.pushBottom(func() { order = append(order, i) })
	}
	for {
		fn, ok := d.popBottom()
		if !ok {
			break
		}
		fn()
	}
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestLocalDequeStealFIFOFromOpposite(t *testing.T) {
	d := newLocalDeque(4)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		d.pushBottom(func() { order = append(order, i) })
	}
	for {
		fn, ok := d.stealTop()
		if !ok {
			break
		}
		fn()
	}
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestLocalDequeGrowsUnderPressure(t *testing.T) {
	d := newLocalDeque(2)
	const n = 200
	for i := 0; i < n; i++ {
		d.pushBottom(func() {})
	}
	assert.Equal(t, n, d.size())
}

func TestLocalDequeConcurrentStealIsSafe(t *testing.T) {
	d := newLocalDeque(8)
	const n = 1000
	for i := 0; i < n; i++ {
		d.pushBottom(func() {})
	}

	var wg sync.WaitGroup
	var stolen, popped int64
	var mu sync.Mutex
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := d.stealTop(); ok {
					mu.Lock()
					stolen++
					mu.Unlock()
				} else {
					return
				}
			}
		}()
	}
	for {
		if _, ok := d.popBottom(); ok {
			popped++
		} else {
			break
		}
	}
	wg.Wait()
	assert.Equal(t, int64(n), stolen+popped)
}
