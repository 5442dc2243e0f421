// Package timer drives the session countdown. Remaining time is always
// recomputed from the absolute deadline and the wall clock, never by
// decrementing a counter, so suspended tabs and scheduling drift cannot
// skew it.
package timer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the tick cadence.
const DefaultInterval = time.Second

// Controller runs at most one countdown at a time. Starting a new
// countdown replaces any running one; when the deadline passes it fires
// the expiry callback exactly once and stops ticking.
type Controller struct {
	// Interval overrides the tick cadence; zero means DefaultInterval.
	Interval time.Duration

	log  zerolog.Logger
	mu   sync.Mutex
	stop chan struct{}
}

// New creates a stopped Controller.
func New(log zerolog.Logger) *Controller {
	return &Controller{
		log: log.With().Str("component", "timer").Logger(),
	}
}

// Start arms the countdown toward deadline. onTick receives the remaining
// whole seconds each tick (including one immediate tick); onExpire runs
// once when the deadline is reached. Either callback may be nil.
func (c *Controller) Start(deadline time.Time, onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	c.log.Debug().Time("deadline", deadline).Msg("Countdown armed")

	go c.run(deadline, interval, stop, onTick, onExpire)
}

// Stop cancels any running countdown. A stale timer must never fire
// forced submission against a newer or absent session.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Controller) run(deadline time.Time, interval time.Duration, stop chan struct{}, onTick func(int), onExpire func()) {
	var expired sync.Once

	tick := func() bool {
		remaining := Remaining(deadline, time.Now())
		if onTick != nil {
			onTick(remaining)
		}
		if remaining > 0 {
			return false
		}
		expired.Do(func() {
			c.log.Info().Msg("Countdown expired")
			if onExpire != nil {
				onExpire()
			}
		})
		return true
	}

	if tick() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if tick() {
				return
			}
		}
	}
}

// Remaining returns the whole seconds left until deadline, never negative.
func Remaining(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
