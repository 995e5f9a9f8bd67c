package ticker

import (
	"math"
	"sync"
)

// frameRateHistorySize bounds the telemetry sample buffer. One sample is
// recorded per observed frame with nonzero delta; the oldest sample is
// evicted once the buffer is full.
const frameRateHistorySize = 120

// defaultMaxFrameRate is assumed until a frame delta has been observed.
const defaultMaxFrameRate = 60

// refreshTierStep reflects common display refresh rates clustering on
// multiples of 30Hz (30, 60, 90, 120, 144 rounds to 150). This is a
// heuristic, not a hardware query.
const refreshTierStep = 30

// frameTelemetry tracks instantaneous frame rates in a rolling buffer:
// fixed array plus cursor, single writer (the tick), multiple readers.
type frameTelemetry struct {
	mu          sync.RWMutex
	samples     [frameRateHistorySize]float64
	sampleIdx   int
	sampleCount int
	lastDelta   float64
}

// record appends one instantaneous rate sample for a frame that took delta
// milliseconds. Zero deltas carry no rate information and are ignored.
func (m *frameTelemetry) record(delta float64) {
	if delta <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDelta = delta
	rate := math.Min(1000/delta, m.maxFrameRateLocked())
	m.samples[m.sampleIdx] = rate
	m.sampleIdx = (m.sampleIdx + 1) % frameRateHistorySize
	if m.sampleCount < frameRateHistorySize {
		m.sampleCount++
	}
}

// maxFrameRateLocked rounds the last observed delta to the nearest supported
// refresh tier. Callers must hold m.mu.
func (m *frameTelemetry) maxFrameRateLocked() float64 {
	if m.lastDelta <= 0 {
		return defaultMaxFrameRate
	}
	tier := math.Round((1000/m.lastDelta)/refreshTierStep) * refreshTierStep
	if tier < refreshTierStep {
		tier = refreshTierStep
	}
	return tier
}

// instantaneous returns the rate implied by the last delta, clamped to the
// current refresh tier, or the tier itself before any delta is observed.
func (m *frameTelemetry) instantaneous() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	maxRate := m.maxFrameRateLocked()
	if m.lastDelta <= 0 {
		return maxRate
	}
	return math.Min(1000/m.lastDelta, maxRate)
}

// max returns the refresh tier implied by the last observed delta.
func (m *frameTelemetry) max() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxFrameRateLocked()
}

// average returns the arithmetic mean of the sample history, or the
// instantaneous rate while the history is empty.
func (m *frameTelemetry) average() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sampleCount == 0 {
		maxRate := m.maxFrameRateLocked()
		if m.lastDelta <= 0 {
			return maxRate
		}
		return math.Min(1000/m.lastDelta, maxRate)
	}
	var sum float64
	for i := 0; i < m.sampleCount; i++ {
		sum += m.samples[i]
	}
	return sum / float64(m.sampleCount)
}

// score returns round(average/max*100), nominally 0-100.
func (m *frameTelemetry) score() int {
	return int(math.Round(m.average() / m.max() * 100))
}

// historyLen reports how many samples the history currently holds.
func (m *frameTelemetry) historyLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sampleCount
}

// Stats is a point-in-time snapshot of the ticker's telemetry, as returned
// by [Ticker.Stats].
type Stats struct {
	// InstantaneousFrameRate is the rate implied by the last frame delta.
	InstantaneousFrameRate float64
	// MaxFrameRate is the refresh tier implied by the last frame delta.
	MaxFrameRate float64
	// AverageFrameRate is the mean of the bounded sample history.
	AverageFrameRate float64
	// Score is round(AverageFrameRate/MaxFrameRate*100).
	Score int
	// HistorySamples is the number of samples currently retained (at most
	// 120).
	HistorySamples int
	// PendingCallbacks is the number of live registry entries.
	PendingCallbacks int
	// Running reports whether the frame chain is active.
	Running bool
}
