package game

import "time"

const DefaultTickStep = 100 * time.Millisecond

// Countdown is a turn budget spent in fixed steps. It knows nothing about
// clocks; the caller decides when a step has passed.
type Countdown struct {
	budget    time.Duration
	step      time.Duration
	remaining time.Duration
}

func NewCountdown(budget, step time.Duration) *Countdown {
	if step <= 0 {
		step = DefaultTickStep
	}
	return &Countdown{budget: budget, step: step, remaining: budget}
}

func (c *Countdown) Reset() {
	c.remaining = c.budget
}

// Tick spends one step and reports whether the budget is exhausted.
func (c *Countdown) Tick() bool {
	if c.remaining > 0 {
		c.remaining = max(c.remaining-c.step, 0)
	}
	return c.Expired()
}

func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}

func (c *Countdown) Expired() bool {
	return c.remaining <= 0
}

func (c *Countdown) Step() time.Duration {
	return c.step
}
