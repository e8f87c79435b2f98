// Package channel implements coflux's two channel flavors (spec.md C13):
// Bounded, a fixed-capacity lock-free ring whose Send never suspends (it drops
// the value when the ring is full) and whose Recv blocks until a value arrives
// or the channel closes (TryRecv is the non-blocking form), and Unbounded, a
// rendezvous channel where every Send waits for a matching Recv. Grounded on
// coflux/include/coflux/channel.hpp.
package channel

import "sync/atomic"

// vyukovCell is one slot of the bounded MPMC ring, tagged with a sequence
// number so producers and consumers can tell, without a lock, whether the
// slot is ready for them. This is the standard Dmitry Vyukov bounded MPMC
// queue algorithm, the lock-free structure channel.hpp's bounded
// specialization is built on.
type vyukovCell[T any] struct {
	seq   atomic.Uint64
	value T
}

// vyukovRing is a fixed-capacity (power-of-two) lock-free MPMC ring buffer.
type vyukovRing[T any] struct {
	mask  uint64
	cells []vyukovCell[T]
	enq   atomic.Uint64
	deq   atomic.Uint64
}

func newVyukovRing[T any](capacity int) *vyukovRing[T] {
	capacity = nextPow2(capacity)
	r := &vyukovRing[T]{mask: uint64(capacity - 1), cells: make([]vyukovCell[T], capacity)}
	for i := range r.cells {
		r.cells[i].seq.Store(uint64(i))
	}
	return r
}

// drain empties the ring by repeatedly applying the same lock-free tryPop
// protocol a concurrent receiver would use, so it stays safe to call even
// while a racing Send is mid-tryPush (unlike directly rewriting the cells,
// which would bypass the seq-number handshake tryPush/tryPop coordinate
// through). Grounded on channel.hpp's private Clean(), called only from
// Close() once the channel is already marked closed.
func (r *vyukovRing[T]) drain() {
	for {
		if _, ok := r.tryPop(); !ok {
			return
		}
	}
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// tryPush attempts a non-blocking enqueue, returning false if the ring is
// full.
func (r *vyukovRing[T]) tryPush(v T) bool {
	pos := r.enq.Load()
	for {
		cell := &r.cells[pos&r.mask]
		seq := cell.seq.Load()
		diff := int64(seq) - int64(pos)
		switch {
		case diff == 0:
			if r.enq.CompareAndSwap(pos, pos+1) {
				cell.value = v
				cell.seq.Store(pos + 1)
				return true
			}
			pos = r.enq.Load()
		case diff < 0:
			return false
		default:
			pos = r.enq.Load()
		}
	}
}

// tryPop attempts a non-blocking dequeue, returning (zero, false) if empty.
func (r *vyukovRing[T]) tryPop() (T, bool) {
	pos := r.deq.Load()
	for {
		cell := &r.cells[pos&r.mask]
		seq := cell.seq.Load()
		diff := int64(seq) - int64(pos+1)
		switch {
		case diff == 0:
			if r.deq.CompareAndSwap(pos, pos+1) {
				v := cell.value
				var zero T
				cell.value = zero
				cell.seq.Store(pos + r.mask + 1)
				return v, true
			}
			pos = r.deq.Load()
		case diff < 0:
			var zero T
			return zero, false
		default:
			pos = r.deq.Load()
		}
	}
}

func (r *vyukovRing[T]) capacity() int { return len(r.cells) }
