// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq_test

import (
	"testing"

	"github.com/lanepipe/laneq"
)

func TestCompoundDrainTo(t *testing.T) {
	c := laneq.NewParallel[int](16, 4)
	for i := range 10 {
		v := i
		if err := c.Enqueue(&v); err != nil {
			t.Fatalf("priming Enqueue(%d): %v", i, err)
		}
	}

	var got []int
	n := c.DrainTo(func(v int) { got = append(got, v) }, 4)
	if n != 4 || len(got) != 4 {
		t.Fatalf("DrainTo: drained %d, want 4", n)
	}

	n2 := c.DrainAll(func(v int) { got = append(got, v) })
	if n2 != 6 {
		t.Fatalf("DrainAll: drained %d, want 6", n2)
	}
	if len(got) != 10 {
		t.Fatalf("total drained %d, want 10", len(got))
	}
}

func TestCompoundFillAllFrom(t *testing.T) {
	c := laneq.NewParallel[int](16, 4)
	next := 0
	n := c.FillAllFrom(0, func() *int {
		if next >= 100 {
			return nil
		}
		v := next
		next++
		return &v
	})
	if n != c.Cap() {
		t.Fatalf("FillAllFrom: filled %d, want %d (capacity)", n, c.Cap())
	}
	if _, err := c.Dequeue(); err != nil {
		t.Fatal("expected at least one element after FillAllFrom")
	}
}

func TestCompoundDrainWaitStopsOnExit(t *testing.T) {
	c := laneq.NewParallel[int](16, 4)
	for i := range 3 {
		v := i
		c.Enqueue(&v)
	}

	var drained []int
	waits := 0
	c.DrainWait(
		func(v int) { drained = append(drained, v) },
		func(idle int) int { waits++; return idle + 1 },
		func() bool { return len(drained) < 3 || waits == 0 },
	)

	if len(drained) < 3 {
		t.Fatalf("DrainWait: drained %d, want at least 3", len(drained))
	}
}

func TestCompoundFillWaitStopsWhenSupplierExhausted(t *testing.T) {
	c := laneq.NewParallel[int](16, 4)
	next := 0
	c.FillWait(
		0,
		func() *int {
			if next >= 5 {
				return nil
			}
			v := next
			next++
			return &v
		},
		func(idle int) int { return idle + 1 },
		func() bool { return true },
	)

	if got := c.Size(); got != 5 {
		t.Fatalf("Size after FillWait: got %d, want 5", got)
	}
}

func TestCompoundFillWaitStopsWhenExitReturnsFalse(t *testing.T) {
	c := laneq.NewParallel[int](16, 4)
	calls := 0
	c.FillWait(
		0,
		func() *int {
			v := calls
			calls++
			return &v
		},
		func(idle int) int { return idle },
		func() bool { return calls < 3 },
	)
	if calls != 3 {
		t.Fatalf("supplier called %d times, want 3", calls)
	}
}
