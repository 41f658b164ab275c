// Package timer provides countdown timers advanced by the frame tick.
package timer

// Countdown fires once after its duration has elapsed. The zero value is idle.
type Countdown struct {
	remaining float64
	running   bool
	onDone    func()
}

// Start arms the countdown for d seconds, replacing any pending run.
func (c *Countdown) Start(d float64, onDone func()) {
	c.remaining = d
	c.running = true
	c.onDone = onDone
}

// Stop disarms the countdown without firing.
func (c *Countdown) Stop() {
	c.running = false
	c.remaining = 0
	c.onDone = nil
}

// Running reports whether the countdown is armed.
func (c *Countdown) Running() bool {
	return c.running
}

// Remaining returns the seconds left, or 0 when idle.
func (c *Countdown) Remaining() float64 {
	if !c.running {
		return 0
	}
	return c.remaining
}

// Tick advances the countdown by dt seconds and fires the callback when it reaches zero.
// It returns true on the tick the countdown fires.
func (c *Countdown) Tick(dt float64) bool {
	if !c.running {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	done := c.onDone
	c.running = false
	c.remaining = 0
	c.onDone = nil
	if done != nil {
		done()
	}
	return true
}
