package ticker

import (
	"fmt"
	"math"
	"sync"
)

// Ticker is the frame-driven cooperative scheduler. It owns the pending
// callback registry, the single-shot frame chain that forms the run loop,
// and the frame-rate telemetry derived from observed inter-frame gaps.
//
// Create instances with [New]; the zero value is not usable.
type Ticker struct {
	clock           Clock
	logger          Logger
	onCallbackError CallbackErrorHandler

	registry  *registry
	telemetry frameTelemetry
	state     tickerState

	// mu guards the run-loop fields below. The tick itself runs outside the
	// lock; only the frame-chain bookkeeping is protected.
	mu            sync.Mutex
	frameHandle   FrameHandle
	framePending  bool
	hasBaseline   bool
	lastFrameTime float64
}

// New creates a stopped Ticker with an empty registry.
func New(opts ...TickerOption) (*Ticker, error) {
	cfg, err := resolveTickerOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Ticker{
		clock:           cfg.clock,
		logger:          cfg.logger,
		onCallbackError: cfg.onCallbackError,
		registry:        newRegistry(),
	}, nil
}

// Clock returns the clock source this ticker schedules against.
func (t *Ticker) Clock() Clock {
	return t.clock
}

// Start begins the frame chain. Starting a running ticker is a no-op. The
// first frame delivered after Start only establishes the time baseline and
// performs no tick work, so idle time spent stopped is never charged to
// pending entries. Returns the receiver for chaining.
func (t *Ticker) Start() *Ticker {
	if !t.state.TryTransition(StateStopped, StateRunning) {
		return t
	}
	t.mu.Lock()
	t.hasBaseline = false
	t.frameHandle = t.clock.RequestFrame(t.onFrame)
	t.framePending = true
	t.mu.Unlock()
	t.logLifecycle("ticker started")
	return t
}

// Stop tears down the frame chain, cancelling the in-flight frame request.
// Stopping a stopped ticker is a no-op. Registry entries survive a stop;
// their accumulated progress resumes on the first tick after the next Start.
// Returns the receiver for chaining.
func (t *Ticker) Stop() *Ticker {
	if !t.state.TryTransition(StateRunning, StateStopped) {
		return t
	}
	t.mu.Lock()
	if t.framePending {
		t.clock.CancelFrame(t.frameHandle)
		t.framePending = false
	}
	t.hasBaseline = false
	t.mu.Unlock()
	t.logLifecycle("ticker stopped")
	return t
}

// IsRunning reports whether the frame chain is active.
func (t *Ticker) IsRunning() bool {
	return t.state.Load() == StateRunning
}

// onFrame is the frame-delivery callback: one link of the run loop. It
// computes the delta since the previous frame, runs the tick, records a
// telemetry sample, and requests the next frame.
func (t *Ticker) onFrame(now float64) {
	// A cancelled request can still fire if the clock lost the race; a
	// stopped ticker ignores the stale delivery.
	if t.state.Load() != StateRunning {
		return
	}

	t.mu.Lock()
	t.framePending = false
	var delta float64
	if t.hasBaseline {
		delta = now - t.lastFrameTime
	}
	t.hasBaseline = true
	t.lastFrameTime = now
	t.mu.Unlock()

	if delta > 0 {
		t.tick(delta)
		t.telemetry.record(delta)
	}

	// The next frame is requested only after the tick completes, so frame
	// N+1 can never begin before every callback due in frame N has run.
	t.mu.Lock()
	if t.state.Load() == StateRunning {
		t.frameHandle = t.clock.RequestFrame(t.onFrame)
		t.framePending = true
	}
	t.mu.Unlock()
}

// tick advances every entry that was live when the pass started by delta
// milliseconds and fires the ones whose accumulated time since their
// previous firing has reached their delay. Each entry fires at most once per
// tick, however many delay periods the delta spans; firing resets the
// entry's reference point to its current accumulated time.
func (t *Ticker) tick(delta float64) {
	for _, id := range t.registry.snapshot() {
		cb, ok := t.registry.get(id)
		if !ok {
			// Cancelled earlier in this same pass.
			continue
		}
		cb.accumulated += delta
		sinceLastFire := cb.accumulated - cb.lastFire
		if sinceLastFire < cb.delay {
			continue
		}
		fired := cb.fired
		cb.fired++
		cb.lastFire = cb.accumulated
		if cb.fired >= cb.repeats {
			t.registry.remove(id)
		}
		t.invoke(id, cb, sinceLastFire, fired)
	}
}

// invoke runs one callback, isolating panics so a failing callback cannot
// suppress the others due in the same tick.
func (t *Ticker) invoke(id ID, cb *pendingCallback, sinceLastFire float64, fired int64) {
	defer func() {
		if r := recover(); r != nil {
			if t.logger.IsEnabled(LevelError) {
				t.logger.Log(LogEntry{
					Level:    LevelError,
					Category: "tick",
					TimerID:  id,
					Message:  "callback panicked",
					Err:      fmt.Errorf("%v", r),
				})
			}
			if t.onCallbackError != nil {
				t.onCallbackError(id, r)
			}
		}
	}()
	cb.action(sinceLastFire, fired, cb.args...)
}

// SetTimeout schedules action to fire once after delay milliseconds of tick
// time. Non-positive or non-finite delays are rejected with
// [InvalidDelayError].
func (t *Ticker) SetTimeout(action Action, delay float64, args ...any) (ID, error) {
	return t.schedule(action, delay, 1, args)
}

// SetInterval schedules action to fire every delay milliseconds of tick time
// until cleared.
func (t *Ticker) SetInterval(action Action, delay float64, args ...any) (ID, error) {
	return t.schedule(action, delay, unbounded, args)
}

// SetCounter schedules action to fire every delay milliseconds, exactly
// repeats times. The entry is removed the instant its final firing begins;
// it never fires more than repeats times.
func (t *Ticker) SetCounter(action Action, delay float64, repeats int64, args ...any) (ID, error) {
	return t.schedule(action, delay, repeats, args)
}

// RequestAnimationFrame schedules action to fire once on the very next tick,
// whatever the frame duration turns out to be.
func (t *Ticker) RequestAnimationFrame(action Action) (ID, error) {
	return t.schedule(action, 1, 1, nil)
}

// StartAnimationLoop schedules action to fire continuously: every tick when
// targetRate <= 0, otherwise at most targetRate times per second
// (a delay of 1000/targetRate milliseconds).
func (t *Ticker) StartAnimationLoop(action Action, targetRate float64, args ...any) (ID, error) {
	delay := 1.0
	if targetRate > 0 {
		delay = 1000 / targetRate
	}
	return t.schedule(action, delay, unbounded, args)
}

// schedule is the single constructor behind every registration kind. It
// validates, allocates the next ID, and stores the entry; the tick does the
// rest.
func (t *Ticker) schedule(action Action, delay float64, repeats int64, args []any) (ID, error) {
	if action == nil {
		return 0, nil
	}
	if !(delay > 0) || math.IsInf(delay, 1) {
		return 0, &InvalidDelayError{Delay: delay}
	}
	if repeats <= 0 {
		return 0, &InvalidRepeatCountError{Repeats: repeats}
	}
	id := t.registry.add(&pendingCallback{
		action:  action,
		args:    args,
		delay:   delay,
		repeats: repeats,
	})
	if t.logger.IsEnabled(LevelDebug) {
		t.logger.Log(LogEntry{
			Level:    LevelDebug,
			Category: "timer",
			TimerID:  id,
			Message:  fmt.Sprintf("scheduled callback delay=%vms repeats=%d", delay, repeats),
		})
	}
	return id, nil
}

// Clear removes a scheduled callback of any kind. The removal is immediate:
// an entry cleared during a tick, before the traversal reaches it, does not
// fire that tick. Unknown ids are ignored, so clearing an entry that already
// consumed its repeat bound is safe.
func (t *Ticker) Clear(id ID) {
	t.registry.remove(id)
}

// Pending reports the number of live registry entries.
func (t *Ticker) Pending() int {
	return t.registry.size()
}

// InstantaneousFrameRate returns the frame rate implied by the last observed
// delta, clamped to [Ticker.MaxFrameRate], or the maximum itself before any
// frame has been observed.
func (t *Ticker) InstantaneousFrameRate() float64 {
	return t.telemetry.instantaneous()
}

// MaxFrameRate returns the last observed delta rounded to the nearest
// supported refresh tier (a multiple of 30 frames per second), defaulting to
// 60 before any frame has been observed.
func (t *Ticker) MaxFrameRate() float64 {
	return t.telemetry.max()
}

// AverageFrameRate returns the arithmetic mean of the bounded sample
// history, or [Ticker.InstantaneousFrameRate] while the history is empty.
func (t *Ticker) AverageFrameRate() float64 {
	return t.telemetry.average()
}

// Score returns round(AverageFrameRate/MaxFrameRate*100), nominally 0-100.
// A sustained drop below a caller-chosen threshold signals the host is
// struggling to keep up with the scheduled workload.
func (t *Ticker) Score() int {
	return t.telemetry.score()
}

// Stats returns a point-in-time snapshot of the ticker's telemetry and
// registry.
func (t *Ticker) Stats() Stats {
	return Stats{
		InstantaneousFrameRate: t.telemetry.instantaneous(),
		MaxFrameRate:           t.telemetry.max(),
		AverageFrameRate:       t.telemetry.average(),
		Score:                  t.telemetry.score(),
		HistorySamples:         t.telemetry.historyLen(),
		PendingCallbacks:       t.registry.size(),
		Running:                t.IsRunning(),
	}
}

func (t *Ticker) logLifecycle(msg string) {
	if t.logger.IsEnabled(LevelInfo) {
		t.logger.Log(LogEntry{Level: LevelInfo, Category: "lifecycle", Message: msg})
	}
}
