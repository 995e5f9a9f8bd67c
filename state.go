package ticker

import "sync/atomic"

// State represents the lifecycle state of a [Ticker].
//
// State Machine:
//
//	StateStopped (0) -> StateRunning (1)   [Start()]
//	StateRunning (1) -> StateStopped (0)   [Stop()]
//
// There is no paused state: stopping discards the frame chain, and starting
// rebaselines time from the first frame delivered after the restart.
type State uint32

const (
	// StateStopped indicates no frame chain is active. Initial state.
	StateStopped State = 0
	// StateRunning indicates the ticker has an in-flight frame request.
	StateRunning State = 1
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// tickerState is a lock-free two-state machine. Transitions use CAS so that
// concurrent Start/Stop calls collapse to no-ops rather than double-running
// the frame chain.
type tickerState struct {
	v atomic.Uint32
}

// Load returns the current state.
func (s *tickerState) Load() State {
	return State(s.v.Load())
}

// TryTransition attempts to atomically move from one state to another,
// reporting whether it won.
func (s *tickerState) TryTransition(from, to State) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
