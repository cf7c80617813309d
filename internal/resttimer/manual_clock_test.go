package resttimer

import (
	"sync"
	"time"
)

// manualClock only moves when told to. Queued wake-ups fire in deadline order
// while advancing, each callback on the advancing goroutine.
type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*manualWakeup
}

type manualWakeup struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{
		now: time.Date(2024, 3, 4, 18, 30, 0, 0, time.UTC),
	}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Wakeup {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := &manualWakeup{
		clock: c,
		at:    c.now.Add(d),
		f:     f,
	}
	c.pending = append(c.pending, w)
	return w
}

func (w *manualWakeup) Stop() bool {
	w.clock.mu.Lock()
	defer w.clock.mu.Unlock()
	if w.stopped || w.fired {
		return false
	}
	w.stopped = true
	return true
}

// Advance moves the clock forward by d, firing every wake-up that becomes due.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualWakeup
		for _, w := range c.pending {
			if w.stopped || w.fired || w.at.After(target) {
				continue
			}
			if next == nil || w.at.Before(next.at) {
				next = w
			}
		}
		if next == nil {
			c.now = target
			c.prune()
			c.mu.Unlock()
			return
		}
		next.fired = true
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()

		next.f()
	}
}

// Jump moves the clock without firing anything, like a scheduler that missed its slots.
func (c *manualClock) Jump(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Active returns the wake-ups that are neither stopped nor fired.
func (c *manualClock) Active() []*manualWakeup {
	c.mu.Lock()
	defer c.mu.Unlock()
	var active []*manualWakeup
	for _, w := range c.pending {
		if !w.stopped && !w.fired {
			active = append(active, w)
		}
	}
	return active
}

func (c *manualClock) prune() {
	kept := c.pending[:0]
	for _, w := range c.pending {
		if !w.stopped && !w.fired {
			kept = append(kept, w)
		}
	}
	c.pending = kept
}
