// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Lane is a single bounded multi-producer/single-consumer array queue.
//
// Producers claim a slot with a compare-and-swap on the shared tail
// cursor; the single consumer reads slots sequentially from the head
// cursor it alone owns. Capacity rounds up to the next power of two.
//
// Lane is the SPI [Compound] requires of its collaborators and is a
// complete queue in its own right — it is exactly what a Compound built
// with parallelism 1 degenerates to.
type Lane[T any] struct {
	_        pad
	head     atomix.Uint64 // consumer-owned; read by producers for the fullness check
	_        pad
	tail     atomix.Uint64 // producers CAS here
	_        pad
	buffer   []laneSlot[T]
	mask     uint64
	capacity uint64
}

type laneSlot[T any] struct {
	seq  atomix.Uint64 // next tail value for which this slot is ready
	data T
	_    padShort
}

// NewLane creates a Lane with the given capacity, rounded up to the next
// power of two. Panics if capacity < 2.
func NewLane[T any](capacity int) *Lane[T] {
	if capacity < 2 {
		panic("laneq: lane capacity must be >= 2")
	}

	n := uint64(roundUpPow2(capacity))
	l := &Lane[T]{
		buffer:   make([]laneSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := uint64(0); i < n; i++ {
		l.buffer[i].seq.StoreRelaxed(i)
	}
	return l
}

// Enqueue adds an element to the lane, retrying through lost CAS races.
// Returns nil on success, [ErrWouldBlock] only once the lane is confirmed
// full. Panics if e is nil.
func (l *Lane[T]) Enqueue(e *T) error {
	if e == nil {
		panic("laneq: nil element")
	}
	sw := spin.Wait{}
	for {
		switch err := l.tryEnqueue(e); err {
		case nil:
			return nil
		case ErrWouldBlock:
			return ErrWouldBlock
		default:
			sw.Once()
		}
	}
}

// FailFastEnqueue attempts a single enqueue without retrying on
// contention. Returns nil, [ErrWouldBlock] (lane full), or [ErrContended]
// (another producer claimed the slot first). Panics if e is nil.
func (l *Lane[T]) FailFastEnqueue(e *T) error {
	if e == nil {
		panic("laneq: nil element")
	}
	return l.tryEnqueue(e)
}

// RelaxedEnqueue is [Lane.FailFastEnqueue] with [ErrContended] folded into
// [ErrWouldBlock]: a single bounded attempt that either enqueues or
// reports failure, without distinguishing why.
func (l *Lane[T]) RelaxedEnqueue(e *T) error {
	if err := l.FailFastEnqueue(e); err != nil {
		return ErrWouldBlock
	}
	return nil
}

// tryEnqueue is the single-attempt claim-and-publish step shared by
// Enqueue and FailFastEnqueue.
func (l *Lane[T]) tryEnqueue(e *T) error {
	tail := l.tail.LoadAcquire()
	head := l.head.LoadAcquire()
	if tail >= head+l.capacity {
		return ErrWouldBlock
	}

	slot := &l.buffer[tail&l.mask]
	seq := slot.seq.LoadAcquire()

	if seq == tail {
		if l.tail.CompareAndSwapAcqRel(tail, tail+1) {
			slot.data = *e
			slot.seq.StoreRelease(tail + 1)
			return nil
		}
		return ErrContended
	}
	if seq < tail {
		return ErrWouldBlock
	}
	// seq > tail: other producers have already claimed and published this
	// tail value since it was read, so the tail read is stale; equivalent
	// contention to a lost CAS.
	return ErrContended
}

// Dequeue removes and returns the head element. Returns the zero value
// and [ErrWouldBlock] if the lane is empty. Single consumer only.
func (l *Lane[T]) Dequeue() (T, error) {
	head := l.head.LoadRelaxed()
	slot := &l.buffer[head&l.mask]
	seq := slot.seq.LoadAcquire()

	if seq != head+1 {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := slot.data
	var zero T
	slot.data = zero
	slot.seq.StoreRelease(head + l.capacity)
	l.head.StoreRelease(head + 1)
	return elem, nil
}

// Peek returns the head element without removing it. Returns the zero
// value and [ErrWouldBlock] if the lane is empty. Single consumer only.
func (l *Lane[T]) Peek() (T, error) {
	head := l.head.LoadRelaxed()
	slot := &l.buffer[head&l.mask]
	seq := slot.seq.LoadAcquire()

	if seq != head+1 {
		var zero T
		return zero, ErrWouldBlock
	}
	return slot.data, nil
}

// RelaxedDequeue is an alias for [Lane.Dequeue]. A Lane has exactly one
// consumer, so there is no second consumer to spuriously contend with:
// strict and relaxed dequeue coincide here, and likewise at [Compound],
// whose relaxed scan is an alias for its strict one.
func (l *Lane[T]) RelaxedDequeue() (T, error) {
	return l.Dequeue()
}

// RelaxedPeek is an alias for [Lane.Peek]; see [Lane.RelaxedDequeue].
func (l *Lane[T]) RelaxedPeek() (T, error) {
	return l.Peek()
}

// Size returns a best-effort snapshot of the element count, clamped to
// [0, Cap()]. Not linearizable: concurrent producers may push the true
// count above the snapshot the instant after it's taken.
func (l *Lane[T]) Size() int {
	tail := l.tail.LoadAcquire()
	head := l.head.LoadAcquire()
	diff := int64(tail - head)
	if diff < 0 {
		diff = 0
	}
	if diff > int64(l.capacity) {
		diff = int64(l.capacity)
	}
	return int(diff)
}

// Cap returns the lane's capacity.
func (l *Lane[T]) Cap() int {
	return int(l.capacity)
}

// Fill enqueues up to limit elements pulled from supplier, stopping early
// if supplier returns nil (exhausted) or a [Lane.RelaxedEnqueue] fails.
// Returns the number enqueued. Panics if supplier is nil or limit < 0.
func (l *Lane[T]) Fill(supplier func() *T, limit int) int {
	if supplier == nil {
		panic("laneq: nil supplier")
	}
	if limit < 0 {
		panic("laneq: negative limit")
	}
	n := 0
	for n < limit {
		e := supplier()
		if e == nil {
			break
		}
		if l.RelaxedEnqueue(e) != nil {
			break
		}
		n++
	}
	return n
}
