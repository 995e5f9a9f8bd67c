package ticker

// tickerOptions holds configuration resolved from TickerOption values.
type tickerOptions struct {
	clock           Clock
	logger          Logger
	onCallbackError CallbackErrorHandler
}

// TickerOption configures a [Ticker] instance.
type TickerOption interface {
	applyTicker(*tickerOptions) error
}

// tickerOptionImpl implements TickerOption.
type tickerOptionImpl struct {
	applyTickerFunc func(*tickerOptions) error
}

func (o *tickerOptionImpl) applyTicker(opts *tickerOptions) error {
	return o.applyTickerFunc(opts)
}

// CallbackErrorHandler receives the ID of a registered callback that
// panicked during a tick, together with the recovered value. The handler
// runs synchronously within the tick, after the panic has been recovered and
// before the remaining due callbacks fire.
type CallbackErrorHandler func(id ID, recovered any)

// WithClock sets the clock source the ticker schedules against.
// When omitted, the ticker uses [NewSystemClock] at [DefaultRefreshRate].
func WithClock(clock Clock) TickerOption {
	return &tickerOptionImpl{func(opts *tickerOptions) error {
		if clock == nil {
			return ErrNilClock
		}
		opts.clock = clock
		return nil
	}}
}

// WithLogger sets the structured logger the ticker emits through.
// When omitted, logging is disabled.
func WithLogger(logger Logger) TickerOption {
	return &tickerOptionImpl{func(opts *tickerOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithCallbackErrorHandler registers a handler for callbacks that panic
// during a tick. Panics are always recovered so that one failing callback
// cannot suppress the others due in the same tick; the handler makes the
// failure observable beyond the log.
func WithCallbackErrorHandler(handler CallbackErrorHandler) TickerOption {
	return &tickerOptionImpl{func(opts *tickerOptions) error {
		opts.onCallbackError = handler
		return nil
	}}
}

// resolveTickerOptions applies TickerOption instances to tickerOptions.
func resolveTickerOptions(opts []TickerOption) (*tickerOptions, error) {
	cfg := &tickerOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyTicker(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.clock == nil {
		cfg.clock = NewSystemClock(DefaultRefreshRate)
	}
	if cfg.logger == nil {
		cfg.logger = NewNoOpLogger()
	}
	return cfg, nil
}
