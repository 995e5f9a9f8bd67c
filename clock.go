package ticker

import (
	"sync"
	"time"
)

// FrameCallback is invoked once, asynchronously, at the next frame boundary.
// The argument is the clock's current timestamp in milliseconds.
type FrameCallback func(now float64)

// FrameHandle identifies a single not-yet-fired frame request, for use with
// [Clock.CancelFrame].
type FrameHandle uint64

// Clock is the external capability the [Ticker] schedules against. It is the
// only contact the scheduler has with real time; everything else is derived
// from the timestamps and frame deliveries the clock produces.
//
// Implementations must guarantee:
//   - Now returns a monotonically non-decreasing timestamp in milliseconds,
//     from a high-resolution source where one is available.
//   - RequestFrame runs the callback exactly once, asynchronously, at the
//     next opportunity the host considers a frame boundary. No ordering is
//     guaranteed relative to other asynchronous work beyond "next frame".
//   - CancelFrame is a best-effort cancellation of a pending request and a
//     no-op once the request has fired.
type Clock interface {
	Now() float64
	RequestFrame(fn FrameCallback) FrameHandle
	CancelFrame(handle FrameHandle)
}

// DefaultRefreshRate is the frame delivery rate, in frames per second, used
// by [NewSystemClock] when no rate is specified.
const DefaultRefreshRate = 60

// SystemClock is a [Clock] driven by the wall clock: frame requests fire on
// [time.AfterFunc] timers spaced one refresh interval apart, and timestamps
// are monotonic milliseconds since the clock was created.
//
// Frame callbacks run on the timer's goroutine. Hosts that need callbacks on
// a particular goroutine (a render loop, a JavaScript runtime) should supply
// their own Clock instead.
type SystemClock struct {
	epoch      time.Time
	interval   time.Duration
	mu         sync.Mutex
	pending    map[FrameHandle]*time.Timer
	nextHandle FrameHandle
}

// NewSystemClock creates a SystemClock delivering frames at the given rate
// in frames per second. Rates <= 0 fall back to [DefaultRefreshRate].
func NewSystemClock(refreshRate float64) *SystemClock {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}
	return &SystemClock{
		epoch:    time.Now(),
		interval: time.Duration(float64(time.Second) / refreshRate),
		pending:  make(map[FrameHandle]*time.Timer),
	}
}

// Now returns milliseconds elapsed since the clock was created. The value is
// derived from the runtime's monotonic clock reading, so it never goes
// backwards.
func (c *SystemClock) Now() float64 {
	return float64(time.Since(c.epoch)) / float64(time.Millisecond)
}

// RequestFrame schedules fn to run once after one refresh interval.
func (c *SystemClock) RequestFrame(fn FrameCallback) FrameHandle {
	c.mu.Lock()
	c.nextHandle++
	handle := c.nextHandle
	c.pending[handle] = time.AfterFunc(c.interval, func() {
		c.mu.Lock()
		_, live := c.pending[handle]
		delete(c.pending, handle)
		c.mu.Unlock()
		// Lost the race against CancelFrame; the timer fired anyway.
		if !live {
			return
		}
		fn(c.Now())
	})
	c.mu.Unlock()
	return handle
}

// CancelFrame stops a pending frame request. Unknown or already-fired
// handles are ignored.
func (c *SystemClock) CancelFrame(handle FrameHandle) {
	c.mu.Lock()
	timer, ok := c.pending[handle]
	delete(c.pending, handle)
	c.mu.Unlock()
	if ok {
		timer.Stop()
	}
}
