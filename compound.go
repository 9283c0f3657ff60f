// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq

import (
	"runtime"

	"code.hybscloud.com/atomix"
)

// Compound is a bounded, lock-free, multi-producer/single-consumer queue
// built from K parallel [Lane]s striped by producer identity. It reduces
// tail contention on a single cursor by giving most producers their own
// lane to race on, while still presenting one FIFO-like consumer
// interface across all of them.
type Compound[T any] struct {
	lanes              []*Lane[T]
	mask               uint64
	consumerCursorHint uint64 // touched only by the single consumer
	nextProducerID     atomix.Uint64
}

// New creates a Compound with the given total capacity and parallelism
// defaulted to runtime.NumCPU().
func New[T any](capacity int) *Compound[T] {
	return NewParallel[T](capacity, runtime.NumCPU())
}

// NewParallel creates a Compound with the given total capacity and lane
// count hint.
//
// The chosen lane count K is parallelism itself if parallelism is already
// a power of two, otherwise the next power of two above parallelism
// divided by two (i.e. parallelism rounds down to a power of two).
// capacity rounds up to a power of two and is then divided evenly across
// the K lanes; since every lane needs a capacity of at least 2, it must be
// at least 2K.
//
// Panics if parallelism < 1, if the rounded capacity is less than K, or
// (from [NewLane]) if it is exactly K, leaving lanes of capacity 1.
func NewParallel[T any](capacity, parallelism int) *Compound[T] {
	if parallelism < 1 {
		panic("laneq: parallelism must be >= 1")
	}

	k := parallelism
	if !isPow2(k) {
		k = roundUpPow2(k) / 2
	}

	total := roundUpPow2(capacity)
	if total < k {
		panic("laneq: capacity is too small for the chosen lane count")
	}

	laneCap := total / k
	lanes := make([]*Lane[T], k)
	for i := range lanes {
		lanes[i] = NewLane[T](laneCap)
	}

	return &Compound[T]{
		lanes: lanes,
		mask:  uint64(k - 1),
	}
}

// Enqueue adds an element, choosing its own producer id from an internal
// counter. Satisfies [Producer]. Callers that enqueue repeatedly from the
// same goroutine should prefer [Compound.NewProducer] for lane affinity.
func (c *Compound[T]) Enqueue(e *T) error {
	return c.EnqueueFrom(c.nextProducerID.AddAcqRel(1), e)
}

// EnqueueFrom adds an element, hashing producerID to a starting lane.
// producerID is only a routing hint — any producer may fall back to any
// lane — so it need not uniquely identify the caller, though a stable id
// reused across calls from the same goroutine gives better locality.
//
// Retries across lanes on contention; returns [ErrWouldBlock] only once
// every lane has been observed full in the same scanning pass. Panics if
// e is nil.
func (c *Compound[T]) EnqueueFrom(producerID uint64, e *T) error {
	if e == nil {
		panic("laneq: nil element")
	}
	start := producerID & c.mask
	if c.lanes[start].Enqueue(e) == nil {
		return nil
	}
	if c.scanEnqueue(start, e) {
		return nil
	}
	return ErrWouldBlock
}

// scanEnqueue is the fallback when the hinted lane's own strict Enqueue
// reported full. It keeps sweeping the remaining lanes with
// FailFastEnqueue, accumulating a full/contended tally per pass, until
// either some lane accepts the element or an entire pass reports every
// lane genuinely full.
func (c *Compound[T]) scanEnqueue(start uint64, e *T) bool {
	k := uint64(len(c.lanes))
	for {
		full := uint64(0)
		for i := start + 1; i < start+1+k; i++ {
			switch c.lanes[i&c.mask].FailFastEnqueue(e) {
			case nil:
				return true
			case ErrWouldBlock:
				full++
			}
			// ErrContended: some other producer is winning races on this
			// lane right now; don't count it toward "genuinely full".
		}
		if full == k {
			return false
		}
	}
}

// RelaxedEnqueue is [Compound.RelaxedEnqueueFrom] with an internally
// chosen producer id; see [Compound.Enqueue].
func (c *Compound[T]) RelaxedEnqueue(e *T) error {
	return c.RelaxedEnqueueFrom(c.nextProducerID.AddAcqRel(1), e)
}

// RelaxedEnqueueFrom makes one pass over the lanes starting at
// producerID's hint and returns [ErrWouldBlock] if none of them accepted
// the element — no retry pass, unlike [Compound.EnqueueFrom]. Panics if e
// is nil.
func (c *Compound[T]) RelaxedEnqueueFrom(producerID uint64, e *T) error {
	if e == nil {
		panic("laneq: nil element")
	}
	start := producerID & c.mask
	if c.lanes[start].FailFastEnqueue(e) == nil {
		return nil
	}
	k := uint64(len(c.lanes))
	for i := start + 1; i < start+k; i++ {
		if c.lanes[i&c.mask].FailFastEnqueue(e) == nil {
			return nil
		}
	}
	return ErrWouldBlock
}

// Dequeue removes and returns the head element of the first non-empty
// lane found while scanning forward from consumerCursorHint. Returns the
// zero value and [ErrWouldBlock] if every lane was empty. Single consumer
// only.
func (c *Compound[T]) Dequeue() (T, error) {
	return c.scan(func(l *Lane[T]) (T, error) { return l.Dequeue() })
}

// Peek is [Compound.Dequeue] without removal.
func (c *Compound[T]) Peek() (T, error) {
	return c.scan(func(l *Lane[T]) (T, error) { return l.Peek() })
}

// RelaxedDequeue is an alias for [Compound.Dequeue]: each lane's dequeue
// is already wait-free and non-retrying, so the relaxed and strict scans
// coincide.
func (c *Compound[T]) RelaxedDequeue() (T, error) {
	return c.Dequeue()
}

// RelaxedPeek is an alias for [Compound.Peek]; see [Compound.RelaxedDequeue].
func (c *Compound[T]) RelaxedPeek() (T, error) {
	return c.Peek()
}

// scan walks lanes starting at consumerCursorHint and stores the
// terminating index back into it.
//
// On a hit, the stored index points at the lane that just yielded an
// element, so the next call re-inspects that lane first rather than the
// one after it. This mirrors the original source's behavior exactly
// (consumerQueueIndex is set to the loop variable at the point of break,
// not break+1); whether that was an intentional locality optimization or
// an off-by-one in the original is unclear, and this port preserves it
// either way rather than guessing.
func (c *Compound[T]) scan(op func(*Lane[T]) (T, error)) (T, error) {
	k := uint64(len(c.lanes))
	i := c.consumerCursorHint & c.mask
	limit := i + k

	var result T
	var err error = ErrWouldBlock
	for ; i < limit; i++ {
		result, err = op(c.lanes[i&c.mask])
		if err == nil {
			break
		}
	}
	c.consumerCursorHint = i
	return result, err
}

// Size returns a best-effort, non-linearizable snapshot of the total
// element count across all lanes. Each lane's snapshot is clamped to that
// lane's capacity, so the total never exceeds Cap().
func (c *Compound[T]) Size() int {
	total := 0
	for _, l := range c.lanes {
		total += l.Size()
	}
	return total
}

// Cap returns the total capacity: the lane count times each lane's
// capacity.
func (c *Compound[T]) Cap() int {
	if len(c.lanes) == 0 {
		return 0
	}
	return len(c.lanes) * c.lanes[0].Cap()
}

// Iterator is deliberately unsupported: the striped, concurrently-mutated
// data model has no consistent snapshot to iterate over. Always panics.
func (c *Compound[T]) Iterator() {
	panic("laneq: Compound does not support iteration")
}

// ProducerLease caches a single producer id across many calls from the
// same goroutine, giving the compound a stable starting lane for that
// goroutine instead of a fresh one per call. It satisfies [Producer].
type ProducerLease[T any] struct {
	c  *Compound[T]
	id uint64
}

// NewProducer allocates a ProducerLease bound to a freshly assigned
// producer id.
func (c *Compound[T]) NewProducer() *ProducerLease[T] {
	return &ProducerLease[T]{c: c, id: c.nextProducerID.AddAcqRel(1)}
}

// Enqueue adds an element via the lease's producer id; see
// [Compound.EnqueueFrom].
func (p *ProducerLease[T]) Enqueue(e *T) error {
	return p.c.EnqueueFrom(p.id, e)
}

// RelaxedEnqueue adds an element via the lease's producer id without
// retrying on contention; see [Compound.RelaxedEnqueueFrom].
func (p *ProducerLease[T]) RelaxedEnqueue(e *T) error {
	return p.c.RelaxedEnqueueFrom(p.id, e)
}

// Fill pulls elements from supplier via the lease's producer id; see
// [Compound.FillFrom].
func (p *ProducerLease[T]) Fill(supplier func() *T, limit int) int {
	return p.c.FillFrom(p.id, supplier, limit)
}

// FillFrom enqueues up to limit elements pulled from supplier, starting
// at producerID's hinted lane and spreading into the rest on partial
// success. Stops early once supplier returns nil. Returns the number
// enqueued, which may be less than limit (fill is relaxed: a partial
// result is not an error). Panics if supplier is nil or limit < 0.
func (c *Compound[T]) FillFrom(producerID uint64, supplier func() *T, limit int) int {
	if supplier == nil {
		panic("laneq: nil supplier")
	}
	if limit < 0 {
		panic("laneq: negative limit")
	}
	if limit == 0 {
		return 0
	}

	exhausted := false
	supply := func() *T {
		e := supplier()
		if e == nil {
			exhausted = true
		}
		return e
	}

	start := producerID & c.mask
	filled := c.lanes[start].Fill(supply, limit)
	if filled == limit || exhausted {
		return filled
	}

	k := uint64(len(c.lanes))
	for i := start + 1; i < start+k; i++ {
		filled += c.lanes[i&c.mask].Fill(supply, limit-filled)
		if filled == limit || exhausted {
			break
		}
	}
	return filled
}
