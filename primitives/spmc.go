// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package primitives

import "code.hybscloud.com/iox"

// SPMC is a single-producer/multi-consumer bounded queue: one unguarded
// writer publishing into an SCQ-style ring that any number of consumer
// goroutines may race to drain. See [scqConsumer] for the shared
// consumer-side claim/validate/repair logic and the [laneq.Drainer]
// support this topology gets from it.
type SPMC[T any] struct {
	scqConsumer[T]
}

// NewSPMC creates an SPMC queue with the given capacity, rounded up to the
// next power of two. Panics if capacity < 2.
func NewSPMC[T any](capacity int) *SPMC[T] {
	if capacity < 2 {
		panic("laneq/primitives: capacity must be >= 2")
	}
	return &SPMC[T]{scqConsumer: newSCQConsumer[T](capacity)}
}

// Enqueue adds an element. Single producer goroutine only — there is no
// CAS here because no other producer competes for tail (consumers only
// advance it in catch-up after finding the ring empty). Returns
// [iox.ErrWouldBlock] if the ring is full.
func (q *SPMC[T]) Enqueue(e *T) error {
	tail := q.tail.LoadRelaxed()
	head := q.head.LoadAcquire()
	if tail >= head+q.capacity {
		return iox.ErrWouldBlock
	}

	cycle := tail / q.capacity
	slot := &q.buffer[tail&q.mask]
	slotCycle := slot.cycle.LoadAcquire()
	if slotCycle != cycle {
		return iox.ErrWouldBlock
	}

	slot.data = *e
	slot.cycle.StoreRelease(cycle + 1)
	q.tail.StoreRelaxed(tail + 1)
	q.threshold.StoreRelaxed(3*int64(q.capacity) - 1)
	return nil
}
