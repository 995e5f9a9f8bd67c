// Package ticker provides a frame-driven cooperative scheduler that unifies
// every timer-like primitive (one-shot delays, repeating intervals, bounded
// counters, next-frame callbacks, and continuous per-frame loops) onto a
// single clock source, together with frame-rate telemetry derived from the
// observed inter-frame gaps.
//
// # Architecture
//
// The scheduler is built around a [Ticker] core that owns a registry of
// pending callbacks and advances it once per delivered frame. Frames are
// obtained from an injected [Clock] capability: [Ticker.Start] issues a
// single frame request, and each delivered frame runs one tick and then
// requests the next frame, forming an unbounded chain of single-shot
// requests. Because the next frame is only requested after the current tick
// completes, at most one tick is ever in flight.
//
// Each tick computes the elapsed time since the previous frame (the delta),
// charges it to every live entry, and fires any entry whose accumulated time
// since its previous firing has reached its delay. An entry fires at most
// once per tick regardless of how many delay periods have elapsed.
//
// Five registration kinds are thin entry points over one underlying
// constructor parameterized by delay and repeat bound:
//   - [Ticker.SetTimeout]: fire once after a delay
//   - [Ticker.SetInterval]: fire repeatedly with a fixed delay
//   - [Ticker.SetCounter]: fire a bounded number of times
//   - [Ticker.RequestAnimationFrame]: fire once on the next tick
//   - [Ticker.StartAnimationLoop]: fire every tick, or at a target rate
//
// All five share a single cancellation routine, [Ticker.Clear].
//
// # Clock Sources
//
// [Clock] is the only capability the scheduler needs from its host: a
// monotonic millisecond timestamp plus single-shot frame requests.
// [SystemClock] drives frames from the wall clock at a configurable refresh
// rate, and [ManualClock] delivers frames synchronously under test control.
// Host environments with a real display-refresh callback can satisfy the
// interface directly.
//
// # Telemetry
//
// The ticker records one instantaneous frame-rate sample per observed frame
// into a bounded history of 120 entries. [Ticker.InstantaneousFrameRate],
// [Ticker.MaxFrameRate], [Ticker.AverageFrameRate], and [Ticker.Score] are
// pure functions of that state; [Ticker.Stats] returns a point-in-time
// snapshot. A sustained [Ticker.Score] below a caller-chosen threshold
// signals the host is struggling to keep up with the scheduled workload.
//
// # Thread Safety
//
// The execution model is cooperative: callbacks run synchronously within the
// tick, on whatever goroutine the clock delivers frames. Registration,
// cancellation, and the telemetry accessors are nevertheless safe to call
// from any goroutine; the registry and counters are internally synchronized.
//
// # Usage
//
//	tk, err := ticker.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tk.Start()
//	defer tk.Stop()
//
//	id, err := tk.SetInterval(func(elapsed float64, fired int64, args ...any) {
//	    fmt.Printf("fired %d times, %.1fms since last\n", fired+1, elapsed)
//	}, 250)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tk.Clear(id)
//
// # Error Types
//
// Registration validates its inputs synchronously:
//   - [InvalidDelayError] (matches [ErrInvalidDelay]): delay is not a
//     positive finite number
//   - [InvalidRepeatCountError] (matches [ErrInvalidRepeatCount]): repeat
//     count is not positive
//
// No tick-time operation fails: clearing an unknown id is a no-op, and a
// panicking callback is recovered and reported (see
// [WithCallbackErrorHandler]) without suppressing the other callbacks due in
// the same tick.
package ticker
