package ticker

import "sync"

// ManualClock is a [Clock] under explicit caller control, for deterministic
// tests and host environments that pump frames themselves. Time only moves
// when [ManualClock.Advance] is called, and frames are delivered
// synchronously on the advancing goroutine.
type ManualClock struct {
	mu         sync.Mutex
	now        float64
	pending    map[FrameHandle]FrameCallback
	nextHandle FrameHandle
}

// NewManualClock creates a ManualClock at timestamp zero with no pending
// frame requests.
func NewManualClock() *ManualClock {
	return &ManualClock{pending: make(map[FrameHandle]FrameCallback)}
}

// Now returns the current manual timestamp in milliseconds.
func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// RequestFrame records fn for delivery on the next [ManualClock.Advance].
func (c *ManualClock) RequestFrame(fn FrameCallback) FrameHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextHandle++
	c.pending[c.nextHandle] = fn
	return c.nextHandle
}

// CancelFrame drops a pending frame request. Unknown handles are ignored.
func (c *ManualClock) CancelFrame(handle FrameHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, handle)
}

// Advance moves the clock forward by delta milliseconds and delivers every
// frame request that was pending before the call. Requests made by the
// delivered callbacks (such as the ticker chaining its next frame) stay
// pending until the next Advance, so each call corresponds to exactly one
// frame boundary.
func (c *ManualClock) Advance(delta float64) {
	c.mu.Lock()
	c.now += delta
	now := c.now
	batch := make([]FrameCallback, 0, len(c.pending))
	for handle, fn := range c.pending {
		batch = append(batch, fn)
		delete(c.pending, handle)
	}
	c.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
}

// PendingFrames reports how many frame requests are waiting for the next
// Advance.
func (c *ManualClock) PendingFrames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
