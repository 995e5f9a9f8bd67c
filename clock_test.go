package ticker

import (
	"testing"
	"time"
)

func TestManualClockNowAdvances(t *testing.T) {
	clock := NewManualClock()
	if clock.Now() != 0 {
		t.Fatalf("Now = %v, want 0", clock.Now())
	}
	clock.Advance(16.5)
	clock.Advance(3.5)
	if clock.Now() != 20 {
		t.Fatalf("Now = %v, want 20", clock.Now())
	}
}

func TestManualClockDeliversSnapshotOnly(t *testing.T) {
	clock := NewManualClock()

	var outer, inner int
	clock.RequestFrame(func(now float64) {
		outer++
		// Chained request waits for the next Advance.
		clock.RequestFrame(func(float64) { inner++ })
	})

	clock.Advance(10)
	if outer != 1 || inner != 0 {
		t.Fatalf("after first Advance: outer=%d inner=%d, want 1,0", outer, inner)
	}
	if clock.PendingFrames() != 1 {
		t.Fatalf("PendingFrames = %d, want 1", clock.PendingFrames())
	}

	clock.Advance(10)
	if outer != 1 || inner != 1 {
		t.Fatalf("after second Advance: outer=%d inner=%d, want 1,1", outer, inner)
	}
	if clock.PendingFrames() != 0 {
		t.Fatalf("PendingFrames = %d, want 0", clock.PendingFrames())
	}
}

func TestManualClockCancelFrame(t *testing.T) {
	clock := NewManualClock()

	var fired int
	handle := clock.RequestFrame(func(float64) { fired++ })
	clock.CancelFrame(handle)
	if clock.PendingFrames() != 0 {
		t.Fatalf("PendingFrames = %d, want 0", clock.PendingFrames())
	}

	clock.Advance(10)
	if fired != 0 {
		t.Fatal("cancelled frame callback fired")
	}

	// Unknown handles are ignored.
	clock.CancelFrame(handle)
	clock.CancelFrame(0)
}

func TestManualClockCallbackSeesCurrentNow(t *testing.T) {
	clock := NewManualClock()
	clock.Advance(5)

	var got float64
	clock.RequestFrame(func(now float64) { got = now })
	clock.Advance(10)
	if got != 15 {
		t.Fatalf("callback now = %v, want 15", got)
	}
}

func TestSystemClockNowMonotone(t *testing.T) {
	clock := NewSystemClock(DefaultRefreshRate)
	a := clock.Now()
	time.Sleep(2 * time.Millisecond)
	b := clock.Now()
	if b <= a {
		t.Fatalf("Now not monotone: %v then %v", a, b)
	}
}

func TestSystemClockDeliversFrame(t *testing.T) {
	// A coarse refresh rate keeps the test fast without racing the
	// scheduler.
	clock := NewSystemClock(200)

	ch := make(chan float64, 1)
	clock.RequestFrame(func(now float64) { ch <- now })

	select {
	case now := <-ch:
		if now < 0 {
			t.Fatalf("frame delivered negative now %v", now)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("frame was never delivered")
	}
}

func TestSystemClockCancelFrame(t *testing.T) {
	clock := NewSystemClock(10)

	ch := make(chan struct{}, 1)
	handle := clock.RequestFrame(func(float64) { ch <- struct{}{} })
	clock.CancelFrame(handle)

	select {
	case <-ch:
		t.Fatal("cancelled frame was delivered")
	case <-time.After(300 * time.Millisecond):
	}
}
