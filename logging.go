// Structured logging for the ticker package.
//
// The ticker logs through a minimal Logger interface so that integration
// with logging frameworks (logiface, zerolog, slog adapters, ...) is a small
// bridge rather than a dependency of the core. The built-in implementations
// cover the common cases: NewNoOpLogger (the default) and NewDefaultLogger
// (single-line text output).

package ticker

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel represents the severity of a log message.
type LogLevel int32

const (
	// LevelDebug for detailed diagnostic information.
	LevelDebug LogLevel = iota

	// LevelInfo for general informational messages.
	LevelInfo

	// LevelWarn for warning conditions.
	LevelWarn

	// LevelError for error conditions.
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(l))
	}
}

// LogEntry is a structured record emitted by the ticker.
type LogEntry struct {
	Level     LogLevel
	Category  string // "lifecycle", "timer", "tick"
	TimerID   ID     // zero when the entry concerns no particular timer
	Message   string
	Err       error
	Timestamp time.Time
}

// Logger is the structured logging interface the ticker emits through.
type Logger interface {
	Log(entry LogEntry)
	IsEnabled(level LogLevel) bool
}

type noOpLogger struct{}

// NewNoOpLogger returns a Logger that discards everything. This is the
// default when no [WithLogger] option is given.
func NewNoOpLogger() Logger { return noOpLogger{} }

func (noOpLogger) Log(LogEntry) {}

func (noOpLogger) IsEnabled(LogLevel) bool { return false }

// DefaultLogger implements Logger with single-line text output.
type DefaultLogger struct {
	level atomic.Int32
	mu    sync.Mutex
	Out   *os.File // defaults to os.Stderr
}

// NewDefaultLogger creates a logger writing to stderr with the specified
// minimum level.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	l := &DefaultLogger{Out: os.Stderr}
	l.level.Store(int32(level))
	return l
}

// SetLevel changes the minimum level at runtime.
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.level.Store(int32(level))
}

// IsEnabled reports whether entries at the given level would be written.
func (l *DefaultLogger) IsEnabled(level LogLevel) bool {
	return level >= LogLevel(l.level.Load())
}

// Log writes the entry as a single line.
func (l *DefaultLogger) Log(entry LogEntry) {
	if !l.IsEnabled(entry.Level) {
		return
	}
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%s [%s] %s: %s", ts.Format(time.RFC3339Nano), entry.Level, entry.Category, entry.Message)
	if entry.TimerID != 0 {
		line += fmt.Sprintf(" id=%d", entry.TimerID)
	}
	if entry.Err != nil {
		line += fmt.Sprintf(" err=%v", entry.Err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.Out, line)
}
