// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq

// Queue is the combined producer-consumer interface shared by every queue
// topology in this module and in the [laneq/primitives] package.
//
// The interface intentionally excludes a length method because an exact
// count in a lock-free algorithm requires cross-core synchronization that
// defeats the point of the algorithm. [Lane.Size] and [Compound.Size] are
// still provided as best-effort snapshots, just not part of this contract.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs; the
// queue copies the pointed-to value, so the caller may reuse or discard
// the pointee once Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue. Returns nil on success,
	// [ErrWouldBlock] if the queue is full.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
type Consumer[T any] interface {
	// Dequeue removes and returns an element. Returns the zero value and
	// [ErrWouldBlock] if the queue is empty.
	Dequeue() (T, error)
}

// Drainer signals that no more enqueues will occur.
//
// [primitives.MPMC] and [primitives.SPMC] implement this interface: their
// shared FAA-based consumer side uses a threshold to bound how long
// Dequeue will spin under producer pressure, and Drain lets a consumer
// cross that threshold once producers are known to be done.
// [primitives.MPMCCompact] has no such threshold (its CAS claim step
// either succeeds or observes the true state of the ring) and does not
// implement Drainer, nor do [Lane] and [Compound] for the same reason —
// there is nothing for it to do.
type Drainer interface {
	// Drain is a hint: the caller must ensure no further Enqueue calls
	// will be made after calling it.
	Drain()
}
