// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"

	"github.com/lanepipe/laneq"
)

func TestCompoundDegeneratesToSingleLane(t *testing.T) {
	// Scenario: parallelism=1 behaves exactly like a bare Lane.
	c := laneq.NewParallel[int](4, 1)
	if c.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", c.Cap())
	}

	for i := range 4 {
		v := i
		if err := c.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	v := 99
	if err := c.Enqueue(&v); !errors.Is(err, laneq.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}
	for i := range 4 {
		got, err := c.Dequeue()
		if err != nil || got != i {
			t.Fatalf("Dequeue(%d): got (%d, %v)", i, got, err)
		}
	}
}

func TestNewParallelRoundsParallelismDownToPow2(t *testing.T) {
	// parallelism=6 is not a power of two; it rounds down to 4.
	c := laneq.NewParallel[int](64, 6)
	if got, want := c.Cap(), 64; got != want {
		t.Fatalf("Cap: got %d, want %d", got, want)
	}

	// With 4 lanes, producer ids 3 and 4 hash to lanes 3 and 0, and the
	// consumer's scan starts at lane 0, so id 4's element comes out first.
	first, second := 3, 4
	if err := c.EnqueueFrom(3, &first); err != nil {
		t.Fatal(err)
	}
	if err := c.EnqueueFrom(4, &second); err != nil {
		t.Fatal(err)
	}
	if got, err := c.Dequeue(); err != nil || got != 4 {
		t.Fatalf("first Dequeue: got (%d, %v), want (4, nil)", got, err)
	}
}

func TestNewParallelPanicsOnTooSmallCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewParallel with capacity < lane count did not panic")
		}
	}()
	laneq.NewParallel[int](2, 8)
}

func TestCompoundEnqueueFromRoutesByProducerID(t *testing.T) {
	c := laneq.NewParallel[int](16, 4)
	for id := 3; id >= 0; id-- {
		v := id
		if err := c.EnqueueFrom(uint64(id), &v); err != nil {
			t.Fatalf("EnqueueFrom(%d): %v", id, err)
		}
	}
	if got, want := c.Size(), 4; got != want {
		t.Fatalf("Size: got %d, want %d", got, want)
	}

	// Ids were offered in reverse order; each landed in its own lane, so
	// the consumer's lane-order scan returns them ascending.
	for want := 0; want < 4; want++ {
		got, err := c.Dequeue()
		if err != nil || got != want {
			t.Fatalf("Dequeue: got (%d, %v), want (%d, nil)", got, err, want)
		}
	}
}

func TestCompoundProducerLeaseEnqueue(t *testing.T) {
	c := laneq.NewParallel[int](16, 4)
	p := c.NewProducer()
	for i := range 3 {
		v := i
		if err := p.Enqueue(&v); err != nil {
			t.Fatalf("lease Enqueue(%d): %v", i, err)
		}
	}
	if got, want := c.Size(), 3; got != want {
		t.Fatalf("Size: got %d, want %d", got, want)
	}
}

func TestCompoundIteratorUnsupported(t *testing.T) {
	c := laneq.NewParallel[int](8, 2)
	defer func() {
		if recover() == nil {
			t.Fatal("Iterator did not panic")
		}
	}()
	c.Iterator()
}

func TestCompoundEnqueueFallsBackAcrossLanes(t *testing.T) {
	// Fill lane 0 directly to capacity, then enqueue with producerID hinting
	// lane 0 again: EnqueueFrom must fall back to another lane rather than
	// failing, as long as some lane still has room.
	c := laneq.NewParallel[int](16, 4) // 4 lanes of capacity 4 each

	for i := range 4 {
		v := i
		if err := c.EnqueueFrom(0, &v); err != nil {
			t.Fatalf("priming lane 0, Enqueue(%d): %v", i, err)
		}
	}

	v := 100
	if err := c.EnqueueFrom(0, &v); err != nil {
		t.Fatalf("fallback Enqueue: got %v, want nil (another lane should accept it)", err)
	}
	if got, want := c.Size(), 5; got != want {
		t.Fatalf("Size: got %d, want %d", got, want)
	}
}

func TestCompoundDequeueEmpty(t *testing.T) {
	c := laneq.NewParallel[int](8, 2)
	if _, err := c.Dequeue(); !errors.Is(err, laneq.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

func TestCompoundConcurrentMultiProducerSingleConsumer(t *testing.T) {
	if laneq.RaceEnabled {
		t.Skip("skip: concurrent lock-free correctness test under -race")
	}

	const numProducers = 4
	const itemsPerProducer = 100000
	const capacity = 1024

	c := laneq.NewParallel[int](capacity, numProducers)
	expectedTotal := numProducers * itemsPerProducer
	seen := make([]atomix.Int32, expectedTotal)

	var wg sync.WaitGroup
	for p := range numProducers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for i := 0; i < itemsPerProducer; i++ {
				v := id*itemsPerProducer + i
				for c.EnqueueFrom(uint64(id), &v) != nil {
					backoff.Wait()
				}
				backoff.Reset()
			}
		}(p)
	}

	var consumed atomix.Int64
	done := make(chan struct{})
	go func() {
		backoff := iox.Backoff{}
		for consumed.Load() < int64(expectedTotal) {
			v, err := c.Dequeue()
			if err != nil {
				backoff.Wait()
				continue
			}
			backoff.Reset()
			seen[v].Add(1)
			consumed.Add(1)
		}
		close(done)
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(60 * time.Second):
		t.Fatal("timeout waiting for consumer to drain")
	}

	var duplicates int
	for i, cnt := range seen {
		if cnt.Load() != 1 {
			t.Errorf("item %d seen %d times, want exactly 1", i, cnt.Load())
			duplicates++
		}
		if duplicates > 10 {
			t.Fatal("too many mismatches, aborting")
		}
	}
}

func TestCompoundRelaxedEnqueueUnderFullIsBounded(t *testing.T) {
	// Scenario: relaxed offer on a full compound returns promptly rather
	// than retrying — a single failed pass over every lane, not a spin.
	c := laneq.NewParallel[int](8, 2)
	for {
		v := 1
		if c.RelaxedEnqueue(&v) != nil {
			break
		}
	}
	v := 2
	done := make(chan error, 1)
	go func() { done <- c.RelaxedEnqueue(&v) }()
	select {
	case err := <-done:
		if !errors.Is(err, laneq.ErrWouldBlock) {
			t.Fatalf("RelaxedEnqueue on full: got %v, want ErrWouldBlock", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RelaxedEnqueue on full did not return promptly")
	}
}
