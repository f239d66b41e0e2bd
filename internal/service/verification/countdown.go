package verification

import (
	"math"
	"sync"
	"time"
)

// Countdown is the resend window. Its state is derived from a deadline and
// the clock, so Remaining and Active are pure reads. Observers, when set,
// are driven by a ticker; only one ticker runs per countdown and every
// Start cancels the previous one.
type Countdown struct {
	window time.Duration
	tick   time.Duration
	clock  Clock

	mu       sync.Mutex
	deadline time.Time
	stop     chan struct{}
	onTick   func(remaining int)
	onExpire func()
}

// NewCountdown creates an idle countdown of the given length
func NewCountdown(window, tick time.Duration, clock Clock) *Countdown {
	if clock == nil {
		clock = realClock{}
	}
	if tick <= 0 {
		tick = time.Second
	}
	return &Countdown{window: window, tick: tick, clock: clock}
}

// Observe registers callbacks for each tick and for expiry. Either may be nil.
func (c *Countdown) Observe(onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = onTick
	c.onExpire = onExpire
}

// Start (re)starts the window from now.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.deadline = c.clock.Now().Add(c.window)

	if c.onTick == nil && c.onExpire == nil {
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	go c.run(stop, c.onTick, c.onExpire)
}

// Stop ends the window immediately without firing expiry.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.deadline = time.Time{}
}

// Active reports whether the window is still running.
func (c *Countdown) Active() bool {
	return c.Remaining() > 0
}

// Remaining returns the whole seconds left, rounded up.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	deadline := c.deadline
	c.mu.Unlock()

	if deadline.IsZero() {
		return 0
	}
	left := deadline.Sub(c.clock.Now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

func (c *Countdown) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Countdown) run(stop <-chan struct{}, onTick func(int), onExpire func()) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			remaining := c.Remaining()
			if onTick != nil {
				onTick(remaining)
			}
			if remaining == 0 {
				if onExpire != nil {
					onExpire()
				}
				c.mu.Lock()
				if c.stop == stop {
					c.stop = nil
				}
				c.mu.Unlock()
				return
			}
		}
	}
}
