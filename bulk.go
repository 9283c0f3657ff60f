// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq

// WaitStrategy is invoked by the Wait-suffixed bulk helpers when a pass
// over the compound found nothing to do (queue empty on drain, queue full
// on fill). It receives the current idle-pass count and returns the
// updated one, so callers can implement spin-then-yield-then-sleep
// backoff without the core ever parking internally.
type WaitStrategy func(idleCount int) int

// ExitCondition is polled once per pass by the Wait-suffixed bulk
// helpers. Returning false stops the loop.
type ExitCondition func() bool

// DrainTo dequeues up to limit elements, passing each to consume in
// order, stopping early once the compound reports empty. Returns the
// number consumed.
func (c *Compound[T]) DrainTo(consume func(T), limit int) int {
	n := 0
	for n < limit {
		e, err := c.RelaxedDequeue()
		if err != nil {
			break
		}
		consume(e)
		n++
	}
	return n
}

// DrainAll is [Compound.DrainTo] with limit set to the compound's current
// capacity, draining everything available in one bounded sweep.
func (c *Compound[T]) DrainAll(consume func(T)) int {
	return c.DrainTo(consume, c.Cap())
}

// FillAllFrom is [Compound.FillFrom] with limit set to the compound's
// current capacity.
func (c *Compound[T]) FillAllFrom(producerID uint64, supplier func() *T) int {
	return c.FillFrom(producerID, supplier, c.Cap())
}

// DrainWait repeatedly drains single elements to consume, calling wait
// whenever a pass finds the compound empty, until exit returns false.
// wait and exit are invoked without any internal lock or lane state held.
func (c *Compound[T]) DrainWait(consume func(T), wait WaitStrategy, exit ExitCondition) {
	idle := 0
	for exit() {
		e, err := c.RelaxedDequeue()
		if err != nil {
			idle = wait(idle)
			continue
		}
		idle = 0
		consume(e)
	}
}

// FillWait repeatedly enqueues single elements pulled from supplier via
// producerID's hinted lane, calling wait whenever an enqueue attempt
// fails, until exit returns false or supplier returns nil. wait and exit
// are invoked without any internal lock or lane state held.
func (c *Compound[T]) FillWait(producerID uint64, supplier func() *T, wait WaitStrategy, exit ExitCondition) {
	idle := 0
	for exit() {
		e := supplier()
		if e == nil {
			return
		}
		if c.RelaxedEnqueueFrom(producerID, e) != nil {
			idle = wait(idle)
			continue
		}
		idle = 0
	}
}
