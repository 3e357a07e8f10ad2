package sim

import (
	"fmt"
	"time"
)

// Clock counts fixed simulation steps.
//
// Invariant: Now() == Ticks() * Step().
type Clock struct {
	step  time.Duration
	ticks uint64
}

// NewClock returns a Clock at tick zero.
//
// Precondition: step > 0 (panics otherwise).
func NewClock(step time.Duration) *Clock {
	if step <= 0 {
		panic(fmt.Sprintf("sim.NewClock: step must be > 0, got %s", step))
	}
	return &Clock{step: step}
}

// Step returns the simulated duration of one tick.
func (c *Clock) Step() time.Duration {
	return c.step
}

// Ticks returns how many steps have elapsed.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Now returns the simulated time elapsed since tick zero.
func (c *Clock) Now() time.Duration {
	return time.Duration(c.ticks) * c.step
}

// Tick advances the clock one step and returns the new time.
func (c *Clock) Tick() time.Duration {
	c.ticks++
	return c.Now()
}

// TicksFor returns the number of whole steps needed to cover d, rounding up.
//
// Postcondition: TicksFor(d)*Step() >= d; returns 0 for d <= 0.
func (c *Clock) TicksFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + c.step - 1) / c.step)
}
