// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package primitives

import (
	"code.hybscloud.com/atomix"

	"code.hybscloud.com/iox"
)

// SPSC is a single-producer/single-consumer bounded queue: a Lamport ring
// buffer with cached cursor views to cut cross-core traffic. No CAS, no
// FAA, no lane striping — the fastest topology in this package, available
// only when the caller can guarantee exactly one producer goroutine and
// one consumer goroutine.
type SPSC[T any] struct {
	_          pad
	head       atomix.Uint64 // consumer writes here
	_          pad
	cachedTail uint64 // consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // producer writes here
	_          pad
	cachedHead uint64 // producer's cached view of head
	_          pad
	buffer     []T
	mask       uint64
}

// NewSPSC creates an SPSC queue with the given capacity, rounded up to the
// next power of two. Panics if capacity < 2.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if capacity < 2 {
		panic("laneq/primitives: capacity must be >= 2")
	}
	n := uint64(roundUpPow2(capacity))
	return &SPSC[T]{
		buffer: make([]T, n),
		mask:   n - 1,
	}
}

// Enqueue adds an element. Producer goroutine only. Returns
// [iox.ErrWouldBlock] if the queue is full.
func (q *SPSC[T]) Enqueue(e *T) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return iox.ErrWouldBlock
		}
	}
	q.buffer[tail&q.mask] = *e
	q.tail.StoreRelease(tail + 1)
	return nil
}

// RelaxedEnqueue is an alias for [SPSC.Enqueue]. A single producer never
// contends with anything else for the tail cursor, so there is no
// distinct contended-vs-full outcome the way there is for [laneq.Lane];
// strict and relaxed offers coincide here exactly as they do for
// [laneq.Lane.RelaxedDequeue].
func (q *SPSC[T]) RelaxedEnqueue(e *T) error {
	return q.Enqueue(e)
}

// Dequeue removes and returns an element. Consumer goroutine only. Returns
// the zero value and [iox.ErrWouldBlock] if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, iox.ErrWouldBlock
		}
	}
	elem := q.buffer[head&q.mask]
	var zero T
	q.buffer[head&q.mask] = zero
	q.head.StoreRelease(head + 1)
	return elem, nil
}

// Peek returns the head element without removing it. Consumer goroutine
// only. Returns the zero value and [iox.ErrWouldBlock] if the queue is
// empty. The teacher's Lamport ring never exposed this; [laneq.Lane] does,
// and this brings SPSC in line with it.
func (q *SPSC[T]) Peek() (T, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, iox.ErrWouldBlock
		}
	}
	return q.buffer[head&q.mask], nil
}

// RelaxedDequeue is an alias for [SPSC.Dequeue]; see [SPSC.RelaxedEnqueue].
func (q *SPSC[T]) RelaxedDequeue() (T, error) {
	return q.Dequeue()
}

// RelaxedPeek is an alias for [SPSC.Peek]; see [SPSC.RelaxedEnqueue].
func (q *SPSC[T]) RelaxedPeek() (T, error) {
	return q.Peek()
}

// Cap returns the queue's capacity.
func (q *SPSC[T]) Cap() int {
	return int(q.mask + 1)
}

// Size returns a best-effort, non-linearizable snapshot of the element
// count, clamped to [0, Cap()].
func (q *SPSC[T]) Size() int {
	tail := q.tail.LoadAcquire()
	head := q.head.LoadAcquire()
	diff := int64(tail - head)
	if diff < 0 {
		diff = 0
	}
	if diff > int64(q.mask+1) {
		diff = int64(q.mask + 1)
	}
	return int(diff)
}

// Fill enqueues up to limit elements pulled from supplier, stopping early
// if supplier returns nil (exhausted) or the ring reports full. Producer
// goroutine only. Returns the number enqueued. Panics if supplier is nil
// or limit < 0.
func (q *SPSC[T]) Fill(supplier func() *T, limit int) int {
	if supplier == nil {
		panic("laneq/primitives: nil supplier")
	}
	if limit < 0 {
		panic("laneq/primitives: negative limit")
	}
	n := 0
	for n < limit {
		e := supplier()
		if e == nil {
			break
		}
		if q.Enqueue(e) != nil {
			break
		}
		n++
	}
	return n
}
