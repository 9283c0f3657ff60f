// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package primitives

import (
	"code.hybscloud.com/spin"

	"code.hybscloud.com/iox"
)

// MPMC is a multi-producer/multi-consumer bounded queue built on the SCQ
// (Scalable Circular Queue) algorithm by Nikolaev (DISC 2019): producers
// and consumers both use fetch-and-add to blindly claim positions, trading
// 2n physical slots for usable capacity n against better scalability under
// contention than the CAS-based [MPMCCompact]. The consumer side —
// claim/validate/repair, the livelock threshold, [laneq.Drainer] — is
// [scqConsumer], shared with [SPMC]; only the producer side differs.
type MPMC[T any] struct {
	scqConsumer[T]
}

// NewMPMC creates an MPMC queue with the given capacity, rounded up to the
// next power of two. Panics if capacity < 2.
func NewMPMC[T any](capacity int) *MPMC[T] {
	if capacity < 2 {
		panic("laneq/primitives: capacity must be >= 2")
	}
	return &MPMC[T]{scqConsumer: newSCQConsumer[T](capacity)}
}

// Enqueue adds an element. Safe for any number of concurrent producer
// goroutines. Returns [iox.ErrWouldBlock] if the queue is full.
func (q *MPMC[T]) Enqueue(e *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		head := q.head.LoadAcquire()
		if tail >= head+q.capacity {
			return iox.ErrWouldBlock
		}

		myTail := q.tail.AddAcqRel(1) - 1
		slot := &q.buffer[myTail&q.mask]
		expectedCycle := myTail / q.capacity
		slotCycle := slot.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			slot.data = *e
			slot.cycle.StoreRelease(expectedCycle + 1)
			q.threshold.StoreRelaxed(3*int64(q.capacity) - 1)
			return nil
		}

		if int64(slotCycle) < int64(expectedCycle) {
			return iox.ErrWouldBlock
		}
		sw.Once()
	}
}
