package ticker

import (
	"context"
	"sync"
)

// Deferred is a single-shot completion handle returned by [Ticker.Sleep] and
// [Ticker.NextFrame]. It completes at most once: either normally, when the
// underlying registration fires, or with [ErrDeferredCancelled] when
// [Deferred.Cancel] wins the race.
type Deferred struct {
	ticker *Ticker
	id     ID
	once   sync.Once
	err    error
	done   chan struct{}
}

func newDeferred(t *Ticker) *Deferred {
	return &Deferred{ticker: t, done: make(chan struct{})}
}

func (d *Deferred) settle(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}

// Done returns a channel that is closed when the deferred completes, whether
// normally or by cancellation.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Err returns nil while pending, nil after normal completion, and
// [ErrDeferredCancelled] after cancellation.
func (d *Deferred) Err() error {
	select {
	case <-d.done:
		return d.err
	default:
		return nil
	}
}

// Wait blocks until the deferred completes or ctx expires, returning the
// completion error or the context's error respectively.
func (d *Deferred) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return d.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel removes the underlying registration and settles the deferred with
// [ErrDeferredCancelled]. A deferred that already completed is unaffected;
// repeated cancellation is a no-op.
func (d *Deferred) Cancel() {
	d.ticker.Clear(d.id)
	d.settle(ErrDeferredCancelled)
}

// Sleep returns a [Deferred] that completes once duration milliseconds of
// tick time have elapsed. The duration is validated like
// [Ticker.SetTimeout]'s delay. The ticker must be running for the deferred
// to make progress.
func (t *Ticker) Sleep(duration float64) (*Deferred, error) {
	d := newDeferred(t)
	id, err := t.SetTimeout(func(float64, int64, ...any) {
		d.settle(nil)
	}, duration)
	if err != nil {
		return nil, err
	}
	d.id = id
	return d, nil
}

// NextFrame returns a [Deferred] that completes on the next tick.
func (t *Ticker) NextFrame() *Deferred {
	d := newDeferred(t)
	// Fixed delay of one time unit cannot fail validation.
	id, _ := t.RequestAnimationFrame(func(float64, int64, ...any) {
		d.settle(nil)
	})
	d.id = id
	return d
}
