package testutil

import "sync"

// StepClock numbers the steps of a scripted collection run.
//
// Sequence numbers start at 1 and increase by one per Next call, so two runs
// of the same script number their steps identically and golden traces stay
// byte-stable.
//
// Thread-safety: All methods are safe for concurrent use.
type StepClock struct {
	mu  sync.Mutex
	seq int64
}

// NewStepClock creates a clock whose first Next returns 1.
func NewStepClock() *StepClock {
	return &StepClock{}
}

// Next advances the clock and returns the new step number.
func (c *StepClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last step number handed out, or 0 before the first Next.
func (c *StepClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock so the next step is numbered 1 again.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
