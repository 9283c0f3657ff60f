// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package primitives

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"code.hybscloud.com/iox"
)

// MPMCCompact is a CAS-based multi-producer/multi-consumer bounded queue.
//
// Per-slot sequence numbers give ABA safety at n physical slots instead of
// the 2n [MPMC]/[SPMC] need, at the cost of a genuine CAS contention point
// on both Enqueue and Dequeue. Prefer this over MPMC when memory density
// matters more than peak throughput under heavy contention.
//
// Unlike [MPMC] and [SPMC], MPMCCompact does not implement [laneq.Drainer]:
// its CAS claim step either succeeds or observes the ring genuinely empty
// or full, with no FAA-style livelock threshold standing between a
// consumer and the true state of the ring, so there is nothing for Drain
// to bypass.
type MPMCCompact[T any] struct {
	_        pad
	tail     atomix.Uint64
	_        pad
	head     atomix.Uint64
	_        pad
	buffer   []compactSlot[T]
	mask     uint64
	capacity uint64
}

type compactSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort
}

// NewMPMCCompact creates an MPMCCompact queue with the given capacity,
// rounded up to the next power of two. Panics if capacity < 2.
func NewMPMCCompact[T any](capacity int) *MPMCCompact[T] {
	if capacity < 2 {
		panic("laneq/primitives: capacity must be >= 2")
	}

	n := uint64(roundUpPow2(capacity))
	q := &MPMCCompact[T]{
		buffer:   make([]compactSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}
	return q
}

// Enqueue adds an element. Safe for any number of concurrent producer
// goroutines. Returns [iox.ErrWouldBlock] if the queue is full.
func (q *MPMCCompact[T]) Enqueue(e *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		slot := &q.buffer[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = *e
				slot.seq.StoreRelease(tail + 1)
				return nil
			}
		} else if diff < 0 {
			return iox.ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element. Safe for any number of
// concurrent consumer goroutines. Returns the zero value and
// [iox.ErrWouldBlock] if the queue is empty.
func (q *MPMCCompact[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(head+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.seq.StoreRelease(head + q.capacity)
				return elem, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, iox.ErrWouldBlock
		}
		sw.Once()
	}
}

// Peek returns the head element without removing it. The result is
// best-effort: nothing stops another consumer goroutine from dequeuing
// that same element before the caller acts on it, so Peek is only useful
// as a single-consumer convenience or a non-linearizable hint.
// Returns the zero value and [iox.ErrWouldBlock] if the queue is empty.
func (q *MPMCCompact[T]) Peek() (T, error) {
	head := q.head.LoadAcquire()
	slot := &q.buffer[head&q.mask]
	seq := slot.seq.LoadAcquire()
	if int64(seq)-int64(head+1) != 0 {
		var zero T
		return zero, iox.ErrWouldBlock
	}
	return slot.data, nil
}

// Cap returns the queue's capacity.
func (q *MPMCCompact[T]) Cap() int {
	return int(q.capacity)
}

// Size returns a best-effort, non-linearizable snapshot of the element
// count, clamped to [0, Cap()].
func (q *MPMCCompact[T]) Size() int {
	tail := q.tail.LoadAcquire()
	head := q.head.LoadAcquire()
	diff := int64(tail - head)
	if diff < 0 {
		diff = 0
	}
	if diff > int64(q.capacity) {
		diff = int64(q.capacity)
	}
	return int(diff)
}
