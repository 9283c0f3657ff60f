// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package primitives

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"code.hybscloud.com/iox"
)

// scqSlot is one physical slot in an SCQ-style ring: a cycle counter
// guarding which round of the ring currently owns the slot, alongside the
// payload.
type scqSlot[T any] struct {
	cycle atomix.Uint64
	data  T
	_     padShort
}

// scqConsumer is the FAA-based, multi-consumer dequeue side shared by
// [SPMC] and [MPMC]. Both topologies let any number of goroutines race to
// claim head positions via fetch-and-add and validate the claim against a
// per-slot cycle counter, needing 2n physical slots for usable capacity n;
// they differ only in how a producer publishes into the ring (one
// unguarded writer for SPMC, an FAA claim with retry for MPMC), so that
// half lives on the embedding type and this half is written once.
//
// Embedding scqConsumer also gives both topologies [laneq.Drainer] for
// free: the teacher's original single-producer queue never exposed Drain,
// but the same "consumers can outrun a producer that has stopped"
// livelock applies to it exactly as it does to the multi-producer case,
// so the capability belongs here rather than being MPMC-only.
type scqConsumer[T any] struct {
	_         pad
	head      atomix.Uint64 // consumers FAA here
	_         pad
	tail      atomix.Uint64 // producer(s) publish here
	_         pad
	threshold atomix.Int64 // livelock guard for Dequeue
	_         pad
	draining  atomix.Bool
	_         pad
	buffer    []scqSlot[T]
	capacity  uint64 // usable capacity n
	size      uint64 // physical slot count, 2n
	mask      uint64
}

func newSCQConsumer[T any](capacity int) scqConsumer[T] {
	n := uint64(roundUpPow2(capacity))
	size := n * 2

	q := scqConsumer[T]{
		buffer:   make([]scqSlot[T], size),
		capacity: n,
		size:     size,
		mask:     size - 1,
	}
	q.threshold.StoreRelaxed(3*int64(n) - 1)
	for i := uint64(0); i < size; i++ {
		q.buffer[i].cycle.StoreRelaxed(i / n)
	}
	return q
}

// Drain implements [laneq.Drainer]. Once called, Dequeue skips the
// livelock threshold so consumers can empty the ring even though no
// producer will ever advance tail again.
func (q *scqConsumer[T]) Drain() {
	q.draining.StoreRelease(true)
}

// Dequeue removes and returns an element. Safe for any number of
// concurrent consumer goroutines. Returns the zero value and
// [iox.ErrWouldBlock] if the ring is empty.
func (q *scqConsumer[T]) Dequeue() (T, error) {
	if !q.draining.LoadAcquire() && q.threshold.LoadRelaxed() < 0 {
		var zero T
		return zero, iox.ErrWouldBlock
	}

	sw := spin.Wait{}
	for {
		myHead := q.head.AddAcqRel(1) - 1
		slot := &q.buffer[myHead&q.mask]
		expectedCycle := myHead/q.capacity + 1
		slotCycle := slot.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			elem := slot.data
			var zero T
			slot.data = zero
			slot.cycle.StoreRelease((myHead + q.size) / q.capacity)
			return elem, nil
		}

		if int64(slotCycle) < int64(expectedCycle) {
			// SCQ slot repair: advance a stale slot for future producers.
			slot.cycle.CompareAndSwapAcqRel(slotCycle, (myHead+q.size)/q.capacity)

			tail := q.tail.LoadAcquire()
			if tail <= myHead+1 {
				q.catchUp(tail, myHead+1)
				q.threshold.AddAcqRel(-1)
				var zero T
				return zero, iox.ErrWouldBlock
			}
			if q.threshold.AddAcqRel(-1) <= 0 && !q.draining.LoadAcquire() {
				var zero T
				return zero, iox.ErrWouldBlock
			}
		}
		sw.Once()
	}
}

func (q *scqConsumer[T]) catchUp(tail, head uint64) {
	for tail < head {
		if q.tail.CompareAndSwapRelaxed(tail, head) {
			break
		}
		tail = q.tail.LoadRelaxed()
		head = q.head.LoadRelaxed()
	}
}

// Cap returns the topology's usable capacity.
func (q *scqConsumer[T]) Cap() int {
	return int(q.capacity)
}

// Size returns a best-effort, non-linearizable snapshot of the element
// count, clamped to [0, Cap()]. Neither the teacher's spmc.go nor mpmc.go
// exposed this; every other topology in this module already does, via
// [laneq.Lane.Size] and [laneq.Compound.Size].
func (q *scqConsumer[T]) Size() int {
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
