package spectrum

import (
	"sync"
	"time"
)

// Clock schedules a single future frame. The returned cancel func stops
// the frame if it has not fired yet.
type Clock interface {
	Schedule(fn func()) (cancel func())
}

// FrameClock fires frames after a fixed interval on timer goroutines.
type FrameClock struct {
	Interval time.Duration
}

// NewFrameClock returns a clock running at fps frames per second.
func NewFrameClock(fps int) FrameClock {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return FrameClock{Interval: time.Second / time.Duration(fps)}
}

func (c FrameClock) Schedule(fn func()) func() {
	t := time.AfterFunc(c.Interval, fn)
	return func() { t.Stop() }
}

// ManualClock is a Clock driven by tests.
type ManualClock struct {
	mu      sync.Mutex
	nextID  int
	pending map[int]func()
	order   []int
}

// NewManualClock creates a clock that only fires on Advance.
func NewManualClock() *ManualClock {
	return &ManualClock{pending: make(map[int]func())}
}

func (c *ManualClock) Schedule(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.pending[id] = fn
	c.order = append(c.order, id)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.pending, id)
	}
}

// Advance fires every frame scheduled before the call and returns how
// many fired. Frames scheduled by those callbacks wait for the next Advance.
func (c *ManualClock) Advance() int {
	c.mu.Lock()
	var due []func()
	for _, id := range c.order {
		if fn, ok := c.pending[id]; ok {
			due = append(due, fn)
			delete(c.pending, id)
		}
	}
	c.order = nil
	c.mu.Unlock()

	for _, fn := range due {
		fn()
	}
	return len(due)
}

// Pending returns the number of scheduled frames.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
