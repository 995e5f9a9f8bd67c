package ticker

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/joeycumines/logiface"
)

func TestLogLevelString(t *testing.T) {
	for _, tc := range []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN(99)"},
	} {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestNoOpLogger(t *testing.T) {
	l := NewNoOpLogger()
	for _, level := range []LogLevel{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if l.IsEnabled(level) {
			t.Errorf("no-op logger claims %v enabled", level)
		}
	}
	l.Log(LogEntry{Level: LevelError, Message: "dropped"})
}

func TestDefaultLoggerLevelFilter(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "ticker-log-*")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	defer f.Close()

	l := NewDefaultLogger(LevelWarn)
	l.Out = f

	if l.IsEnabled(LevelInfo) {
		t.Error("info enabled at warn level")
	}
	if !l.IsEnabled(LevelError) {
		t.Error("error disabled at warn level")
	}

	l.Log(LogEntry{Level: LevelDebug, Category: "timer", Message: "filtered"})
	l.Log(LogEntry{Level: LevelInfo, Category: "lifecycle", Message: "filtered"})
	l.Log(LogEntry{Level: LevelError, Category: "tick", TimerID: 7, Message: "kept", Err: errors.New("callback panicked")})

	l.SetLevel(LevelDebug)
	if !l.IsEnabled(LevelDebug) {
		t.Error("debug disabled after SetLevel")
	}
	l.Log(LogEntry{Level: LevelDebug, Category: "timer", Message: "kept too"})

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "[ERROR] tick: kept") {
		t.Errorf("first line missing level/category/message: %q", lines[0])
	}
	if !strings.Contains(lines[0], "id=7") {
		t.Errorf("first line missing timer id: %q", lines[0])
	}
	if !strings.Contains(lines[0], "err=callback panicked") {
		t.Errorf("first line missing error: %q", lines[0])
	}
	if !strings.Contains(lines[1], "[DEBUG] timer: kept too") {
		t.Errorf("second line wrong: %q", lines[1])
	}
}

// bridgeEvent is a minimal logiface.Event implementation collecting fields.
type bridgeEvent struct {
	logiface.UnimplementedEvent
	level  logiface.Level
	fields map[string]any
}

func (e *bridgeEvent) Level() logiface.Level { return e.level }

func (e *bridgeEvent) AddField(key string, val any) {
	e.fields[key] = val
}

func (e *bridgeEvent) AddUint64(key string, val uint64) bool {
	e.fields[key] = val
	return true
}

type bridgeEventFactory struct{}

func (bridgeEventFactory) NewEvent(level logiface.Level) *bridgeEvent {
	return &bridgeEvent{level: level, fields: make(map[string]any)}
}

type bridgeEventWriter struct {
	mu     sync.Mutex
	events []*bridgeEvent
}

func (w *bridgeEventWriter) Write(event *bridgeEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
	return nil
}

func (w *bridgeEventWriter) snapshot() []*bridgeEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*bridgeEvent(nil), w.events...)
}

// logifaceBridge adapts a logiface logger to the ticker's Logger interface.
type logifaceBridge struct {
	logger *logiface.Logger[*bridgeEvent]
}

func (b *logifaceBridge) builder(level LogLevel) *logiface.Builder[*bridgeEvent] {
	switch level {
	case LevelDebug:
		return b.logger.Debug()
	case LevelWarn:
		return b.logger.Warning()
	case LevelError:
		return b.logger.Err()
	default:
		return b.logger.Info()
	}
}

func (b *logifaceBridge) Log(entry LogEntry) {
	builder := b.builder(entry.Level).Str("category", entry.Category)
	if entry.TimerID != 0 {
		builder = builder.Uint64("timer_id", uint64(entry.TimerID))
	}
	if entry.Err != nil {
		builder = builder.Err(entry.Err)
	}
	builder.Log(entry.Message)
}

func (b *logifaceBridge) IsEnabled(level LogLevel) bool {
	return b.builder(level).Enabled()
}

func TestLogifaceBridge(t *testing.T) {
	writer := &bridgeEventWriter{}
	bridge := &logifaceBridge{logger: logiface.New[*bridgeEvent](
		logiface.WithEventFactory[*bridgeEvent](bridgeEventFactory{}),
		logiface.WithWriter[*bridgeEvent](writer),
		logiface.WithLevel[*bridgeEvent](logiface.LevelDebug),
	)}

	tk, clock := newTestTicker(t, WithLogger(bridge))

	id, err := tk.SetTimeout(func(float64, int64, ...any) {}, 10)
	if err != nil {
		t.Fatalf("SetTimeout failed: %v", err)
	}
	startAndBaseline(t, tk, clock)
	clock.Advance(10)
	tk.Stop()

	var lifecycle, timer int
	for _, ev := range writer.snapshot() {
		switch ev.fields["category"] {
		case "lifecycle":
			lifecycle++
		case "timer":
			timer++
			if got, ok := ev.fields["timer_id"]; ok && got != uint64(id) {
				t.Errorf("timer event carries id %v, want %d", got, uint64(id))
			}
		}
	}
	if lifecycle < 2 {
		t.Errorf("expected start and stop lifecycle events, got %d", lifecycle)
	}
	if timer < 1 {
		t.Errorf("expected at least one timer registration event, got %d", timer)
	}
}
