package trainer

// CountdownState enumerates the states of the sweat-mode countdown.
type CountdownState int

const (
	CountdownIdle CountdownState = iota
	CountdownRunning
	CountdownExpired
)

// Countdown counts down from a budget in explicitly ticked steps. It has no
// clock of its own: production wires Tick to a real ticker, tests call it
// directly with synthetic deltas. Expiry is reported exactly once per
// Start..Stop span.
type Countdown struct {
	state     CountdownState
	remaining float64
}

// Start begins (or restarts) the countdown at the given budget in seconds.
func (c *Countdown) Start(budget float64) {
	c.state = CountdownRunning
	c.remaining = budget
}

// timeEpsilon absorbs the rounding residue of repeated fractional deltas:
// ticking 5.0 down by 0.1 fifty times leaves ~1e-15 seconds, which must count
// as zero or expiry would land one tick late.
const timeEpsilon = 1e-9

// Tick advances the countdown by delta seconds. It returns true on the tick
// that drives the remaining time to zero; subsequent ticks never re-fire.
func (c *Countdown) Tick(delta float64) (expired bool) {
	if c.state != CountdownRunning {
		return false
	}
	c.remaining -= delta
	if c.remaining <= timeEpsilon {
		c.remaining = 0
		c.state = CountdownExpired
		return true
	}
	return false
}

// Stop cancels the countdown from any state. This is the only way to prevent
// a pending expiry from firing.
func (c *Countdown) Stop() {
	c.state = CountdownIdle
	c.remaining = 0
}

func (c *Countdown) State() CountdownState { return c.state }
func (c *Countdown) Running() bool         { return c.state == CountdownRunning }

// Remaining returns the seconds left, clamped at zero.
func (c *Countdown) Remaining() float64 { return c.remaining }
