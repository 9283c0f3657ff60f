// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq

import "github.com/lanepipe/laneq/primitives"

// Options configures queue creation and topology selection.
type Options struct {
	singleProducer bool
	singleConsumer bool
	compact        bool
	parallelism    int
	capacity       int
}

// Builder creates queues with fluent configuration, choosing among the
// topologies in this package and in [laneq/primitives] based on the
// producer/consumer constraints and performance hints the caller declares.
//
// Example:
//
//	// SPSC queue (optimal for a single producer and single consumer)
//	q := laneq.Build[Event](laneq.NewBuilder(1024).SingleProducer().SingleConsumer())
//
//	// Default (no constraints): an FAA-based MPMC queue
//	q := laneq.Build[Event](laneq.NewBuilder(4096))
//
//	// Compact MPMC queue for memory efficiency
//	q := laneq.Build[Event](laneq.NewBuilder(8192).Compact())
type Builder struct {
	opts Options
}

// NewBuilder creates a queue builder with the given capacity.
//
// Capacity rounds up to the next power of two. Panics if capacity < 2.
func NewBuilder(capacity int) *Builder {
	if capacity < 2 {
		panic("laneq: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// SingleProducer declares that only one goroutine will ever call Enqueue.
func (b *Builder) SingleProducer() *Builder {
	b.opts.singleProducer = true
	return b
}

// SingleConsumer declares that only one goroutine will ever call Dequeue.
func (b *Builder) SingleConsumer() *Builder {
	b.opts.singleConsumer = true
	return b
}

// Compact selects a CAS-based algorithm with n physical slots instead of
// an FAA-based one with 2n slots, where both exist for the chosen topology.
//
// Trade-off: half the memory, reduced scalability under heavy contention.
//
// SPSC already uses n slots and a lane-striped Compound is already
// CAS-based throughout, so Compact has no effect on either.
func (b *Builder) Compact() *Builder {
	b.opts.compact = true
	return b
}

// Parallelism sets the lane count a single-consumer build uses. Ignored
// for every other topology. Defaults to runtime.NumCPU() if unset or <= 0;
// pass 1 for a Compound over a single [Lane].
func (b *Builder) Parallelism(k int) *Builder {
	b.opts.parallelism = k
	return b
}

// Build creates a Queue[T] with automatic topology selection:
//
//	SingleProducer + SingleConsumer → primitives.SPSC
//	SingleProducer only             → primitives.SPMC
//	SingleConsumer only             → Compound (Lane-striped)
//	Neither                         → primitives.MPMC, or primitives.MPMCCompact if Compact()
func Build[T any](b *Builder) Queue[T] {
	switch {
	case b.opts.singleProducer && b.opts.singleConsumer:
		return primitives.NewSPSC[T](b.opts.capacity)
	case b.opts.singleProducer:
		return primitives.NewSPMC[T](b.opts.capacity)
	case b.opts.singleConsumer:
		if b.opts.parallelism <= 0 {
			return New[T](b.opts.capacity)
		}
		return NewParallel[T](b.opts.capacity, b.opts.parallelism)
	case b.opts.compact:
		return primitives.NewMPMCCompact[T](b.opts.capacity)
	default:
		return primitives.NewMPMC[T](b.opts.capacity)
	}
}

// BuildSPSC creates an SPSC queue with compile-time type safety.
// Panics unless the builder was configured with SingleProducer().SingleConsumer().
func BuildSPSC[T any](b *Builder) *primitives.SPSC[T] {
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("laneq: BuildSPSC requires SingleProducer().SingleConsumer()")
	}
	return primitives.NewSPSC[T](b.opts.capacity)
}

// BuildSPMC creates an SPMC queue with compile-time type safety.
// Panics unless the builder was configured with SingleProducer() only.
func BuildSPMC[T any](b *Builder) *primitives.SPMC[T] {
	if !b.opts.singleProducer || b.opts.singleConsumer {
		panic("laneq: BuildSPMC requires SingleProducer() without SingleConsumer()")
	}
	return primitives.NewSPMC[T](b.opts.capacity)
}

// BuildCompound creates a Lane-striped Compound with compile-time type
// safety. Panics unless the builder was configured with SingleConsumer() only.
func BuildCompound[T any](b *Builder) *Compound[T] {
	if b.opts.singleProducer || !b.opts.singleConsumer {
		panic("laneq: BuildCompound requires SingleConsumer() without SingleProducer()")
	}
	if b.opts.parallelism <= 0 {
		return New[T](b.opts.capacity)
	}
	return NewParallel[T](b.opts.capacity, b.opts.parallelism)
}

// BuildMPMC creates an MPMC queue: a *primitives.MPMCCompact if Compact()
// was set, otherwise a *primitives.MPMC, returned as a Queue[T]. Panics if
// the builder has SingleProducer() or SingleConsumer() set.
func BuildMPMC[T any](b *Builder) Queue[T] {
	if b.opts.singleProducer || b.opts.singleConsumer {
		panic("laneq: BuildMPMC requires no producer/consumer constraints")
	}
	if b.opts.compact {
		return primitives.NewMPMCCompact[T](b.opts.capacity)
	}
	return primitives.NewMPMC[T](b.opts.capacity)
}
