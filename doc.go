// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package laneq provides a bounded, lock-free, multi-producer/single-consumer
// compound queue: a fixed array of parallel [Lane] queues striped by producer
// identity, presented behind a single FIFO-like [Compound] interface.
//
// # Why striping
//
// A single bounded MPSC queue serializes all producers on one tail cursor.
// Under heavy fan-in that cursor becomes the bottleneck. Compound spreads
// producers across K lanes chosen by a per-producer hint, so most offers
// only ever contend with the handful of producers that hash to the same
// lane, while the single consumer linearly scans all K lanes for work.
//
// # Quick start
//
//	q := laneq.New[Event](4096) // parallelism defaults to runtime.NumCPU()
//
//	// Simple producers can call Enqueue directly; each call picks its own
//	// producer id from an internal counter.
//	ev := Event{ID: 1}
//	if err := q.Enqueue(&ev); err != nil {
//	    // laneq.IsWouldBlock(err): every lane was full
//	}
//
//	// A goroutine that offers many times benefits from a stable lease,
//	// which keeps it routed to the same starting lane across calls:
//	producer := q.NewProducer()
//	go func() {
//	    backoff := iox.Backoff{}
//	    for ev := range events {
//	        for producer.Enqueue(&ev) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	// Single consumer
//	go func() {
//	    backoff := iox.Backoff{}
//	    for {
//	        ev, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(ev)
//	    }
//	}()
//
// # Lanes on their own
//
// [Lane] is a complete bounded MPSC queue and can be used directly when
// striping isn't wanted — this is exactly what Compound degenerates to when
// built with parallelism 1.
//
// # Other topologies
//
// The [laneq/primitives] package carries the single-producer and
// multi-consumer queue shapes (SPSC, SPMC, MPMC) that this package's
// producer-striping design doesn't address, behind the same [Queue]
// interface and error vocabulary. [Builder] picks among all of them,
// including Compound, from a fluent SingleProducer/SingleConsumer/Compact
// declaration.
//
// # Error handling
//
// Every non-blocking operation that cannot proceed returns or reports
// [ErrWouldBlock] — full on enqueue, empty on dequeue. [Lane.FailFastEnqueue]
// additionally reports [ErrContended] when it loses a compare-and-swap race
// to another producer; [Lane.Enqueue] and [Compound]'s strict enqueue
// methods retry on that outcome internally and never surface it.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !laneq.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// # Capacity
//
// Both the requested total capacity and the requested parallelism round to
// powers of two; see [New] and [NewParallel] for the exact rule. Minimum
// lane capacity is 2, so total capacity must be at least twice the chosen
// lane count.
//
// # Thread safety
//
// Any number of producer goroutines may call the Enqueue family
// concurrently. Exactly one goroutine may call the Dequeue/Peek family at a
// time — a second concurrent consumer is undefined behavior. Ordering
// between elements from different producers, and even between two elements
// from the same producer if a fallback offer lands in a different lane, is
// not guaranteed; only per-lane FIFO is. Callers that need strict
// per-producer FIFO should build with parallelism 1.
//
// # Race detection
//
// Lock-free algorithms synchronize non-atomic fields through acquire and
// release orderings on separate atomic variables, a happens-before
// relationship Go's race detector cannot observe. Concurrent correctness
// tests that would false-positive under it are skipped when [RaceEnabled]
// is true.
package laneq
