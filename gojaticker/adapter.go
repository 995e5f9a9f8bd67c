// Package gojaticker binds a [ticker.Ticker] to a Goja JavaScript runtime.
//
// The adapter manages the six conventional host timer globals:
//
//   - setTimeout(callback, delay?, ...args) returns a timer ID
//   - clearTimeout(id)
//   - setInterval(callback, delay, ...args) returns a timer ID
//   - clearInterval(id)
//   - requestAnimationFrame(callback) returns a timer ID
//   - cancelAnimationFrame(id)
//
// The values those names hold when the adapter is constructed are captured
// once; [Adapter.Install] rebinds all six to ticker-backed implementations
// ("managed" mode) and [Adapter.Uninstall] restores the captured originals
// ("native" mode). [Adapter.SetUseNativeFunctions] expresses the same pair
// as a toggle. Installing is an explicit step, never a side effect of
// constructing or starting the ticker, and toggling never starts or stops
// the tick loop: it only changes which implementation future ambient calls
// reach.
//
// Managed callbacks are invoked with the registration's extra arguments
// followed by two scheduler-supplied values: the time since the callback's
// previous firing (milliseconds) and the number of prior firings.
//
// [Adapter.BindConveniences] additionally provides promise-returning sugar:
//
//   - sleep(ms) returns a Promise resolved after ms milliseconds
//   - nextFrame() returns a Promise resolved on the next frame boundary
//
// Both route through whichever setTimeout/requestAnimationFrame binding is
// current at call time, so their completion timing follows the toggle state
// when they are called, not when they were bound.
//
// # Thread Safety
//
// The Goja runtime is not thread-safe. The ticker's clock must deliver
// frames on the same goroutine that accesses the runtime, for example a
// [ticker.ManualClock] pumped from the host loop, or a custom [ticker.Clock]
// that dispatches onto it.
package gojaticker

import (
	"fmt"

	"github.com/dop251/goja"

	ticker "github.com/mcastiello/ticker-service"
)

// hostSymbols are the six global names the adapter manages, in binding
// order.
var hostSymbols = [...]string{
	"setTimeout",
	"clearTimeout",
	"setInterval",
	"clearInterval",
	"requestAnimationFrame",
	"cancelAnimationFrame",
}

// Adapter bridges a ticker.Ticker to a goja.Runtime's timer globals.
type Adapter struct {
	ticker    *ticker.Ticker
	runtime   *goja.Runtime
	originals map[string]goja.Value // captured once, before any redirection
	managed   bool
}

// New creates an Adapter for the given ticker and runtime, capturing the
// runtime's current bindings for the six managed globals. Nothing is
// rebound until [Adapter.Install] is called.
func New(tk *ticker.Ticker, runtime *goja.Runtime) (*Adapter, error) {
	if tk == nil {
		return nil, fmt.Errorf("gojaticker: ticker cannot be nil")
	}
	if runtime == nil {
		return nil, fmt.Errorf("gojaticker: runtime cannot be nil")
	}

	a := &Adapter{
		ticker:    tk,
		runtime:   runtime,
		originals: make(map[string]goja.Value, len(hostSymbols)),
	}
	for _, name := range hostSymbols {
		a.originals[name] = runtime.Get(name) // nil for absent globals
	}
	return a, nil
}

// Ticker returns the scheduler this adapter schedules through.
func (a *Adapter) Ticker() *ticker.Ticker {
	return a.ticker
}

// Runtime returns the Goja runtime this adapter is bound to.
func (a *Adapter) Runtime() *goja.Runtime {
	return a.runtime
}

// UseNativeFunctions reports whether the originally captured bindings are
// currently active. A freshly constructed adapter is native.
func (a *Adapter) UseNativeFunctions() bool {
	return !a.managed
}

// SetUseNativeFunctions toggles between the captured originals (true) and
// the managed implementations (false). Setting the value already held is a
// no-op.
func (a *Adapter) SetUseNativeFunctions(native bool) error {
	if native {
		return a.Uninstall()
	}
	return a.Install()
}

// Install rebinds the six managed globals to ticker-backed implementations.
// Installing an already-managed adapter is a no-op.
func (a *Adapter) Install() error {
	if a.managed {
		return nil
	}
	bindings := map[string]func(goja.FunctionCall) goja.Value{
		"setTimeout":            a.setTimeout,
		"clearTimeout":          a.clearTimeout,
		"setInterval":           a.setInterval,
		"clearInterval":         a.clearInterval,
		"requestAnimationFrame": a.requestAnimationFrame,
		"cancelAnimationFrame":  a.cancelAnimationFrame,
	}
	for _, name := range hostSymbols {
		if err := a.runtime.Set(name, bindings[name]); err != nil {
			return fmt.Errorf("gojaticker: binding %s: %w", name, err)
		}
	}
	a.managed = true
	return nil
}

// Uninstall restores the six globals to the values captured at construction.
// Uninstalling an already-native adapter is a no-op.
func (a *Adapter) Uninstall() error {
	if !a.managed {
		return nil
	}
	for _, name := range hostSymbols {
		orig := a.originals[name]
		if orig == nil {
			orig = goja.Undefined()
		}
		if err := a.runtime.Set(name, orig); err != nil {
			return fmt.Errorf("gojaticker: restoring %s: %w", name, err)
		}
	}
	a.managed = false
	return nil
}

// BindConveniences adds the sleep(ms) and nextFrame() promise helpers to the
// runtime's global scope. These are independent of the managed/native
// toggle: they call whichever setTimeout/requestAnimationFrame binding is
// current when they run.
func (a *Adapter) BindConveniences() error {
	if err := a.runtime.Set("sleep", a.sleep); err != nil {
		return fmt.Errorf("gojaticker: binding sleep: %w", err)
	}
	if err := a.runtime.Set("nextFrame", a.nextFrame); err != nil {
		return fmt.Errorf("gojaticker: binding nextFrame: %w", err)
	}
	return nil
}

// callable asserts that the first argument of a timer call is a function.
func (a *Adapter) callable(v goja.Value, name string) goja.Callable {
	if v == nil || v.Export() == nil {
		panic(a.runtime.NewTypeError("%s requires a function as first argument", name))
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		panic(a.runtime.NewTypeError("%s requires a function as first argument", name))
	}
	return fn
}

// wrap adapts a Goja callable into a ticker.Action. Extra arguments are kept
// as Goja values on the adapter side; the callback receives them first,
// followed by the two scheduler-supplied values.
func (a *Adapter) wrap(fn goja.Callable, extra []goja.Value) ticker.Action {
	return func(sinceLastFire float64, fired int64, _ ...any) {
		args := make([]goja.Value, 0, len(extra)+2)
		args = append(args, extra...)
		args = append(args, a.runtime.ToValue(sinceLastFire), a.runtime.ToValue(fired))
		_, _ = fn(goja.Undefined(), args...)
	}
}

// delayArg reads an optional millisecond delay argument. Absent, undefined,
// null, and zero delays clamp to the one-millisecond minimum, per host timer
// convention; every other value passes through for scheduler validation.
func delayArg(v goja.Value) float64 {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 1
	}
	d := v.ToFloat()
	if d == 0 {
		return 1
	}
	return d
}

// extraArgs copies the pass-through arguments starting at index from.
func extraArgs(call goja.FunctionCall, from int) []goja.Value {
	if len(call.Arguments) <= from {
		return nil
	}
	return append([]goja.Value(nil), call.Arguments[from:]...)
}

func (a *Adapter) setTimeout(call goja.FunctionCall) goja.Value {
	fn := a.callable(call.Argument(0), "setTimeout")
	id, err := a.ticker.SetTimeout(a.wrap(fn, extraArgs(call, 2)), delayArg(call.Argument(1)))
	if err != nil {
		panic(a.runtime.NewGoError(err))
	}
	return a.runtime.ToValue(uint64(id))
}

func (a *Adapter) clearTimeout(call goja.FunctionCall) goja.Value {
	a.ticker.Clear(ticker.ID(call.Argument(0).ToInteger()))
	return goja.Undefined()
}

func (a *Adapter) setInterval(call goja.FunctionCall) goja.Value {
	fn := a.callable(call.Argument(0), "setInterval")
	id, err := a.ticker.SetInterval(a.wrap(fn, extraArgs(call, 2)), delayArg(call.Argument(1)))
	if err != nil {
		panic(a.runtime.NewGoError(err))
	}
	return a.runtime.ToValue(uint64(id))
}

func (a *Adapter) clearInterval(call goja.FunctionCall) goja.Value {
	a.ticker.Clear(ticker.ID(call.Argument(0).ToInteger()))
	return goja.Undefined()
}

func (a *Adapter) requestAnimationFrame(call goja.FunctionCall) goja.Value {
	fn := a.callable(call.Argument(0), "requestAnimationFrame")
	id, err := a.ticker.RequestAnimationFrame(a.wrap(fn, nil))
	if err != nil {
		panic(a.runtime.NewGoError(err))
	}
	return a.runtime.ToValue(uint64(id))
}

func (a *Adapter) cancelAnimationFrame(call goja.FunctionCall) goja.Value {
	a.ticker.Clear(ticker.ID(call.Argument(0).ToInteger()))
	return goja.Undefined()
}

// sleep implements the sleep(ms) JS helper. The promise resolves through
// whichever setTimeout binding is current at call time.
func (a *Adapter) sleep(call goja.FunctionCall) goja.Value {
	target := a.runtime.Get("setTimeout")
	fn, ok := goja.AssertFunction(target)
	if !ok {
		panic(a.runtime.NewTypeError("sleep requires a setTimeout binding"))
	}

	promise, resolve, reject := a.runtime.NewPromise()
	cb := a.runtime.ToValue(func(goja.FunctionCall) goja.Value {
		resolve(goja.Undefined())
		return goja.Undefined()
	})
	if _, err := fn(goja.Undefined(), cb, call.Argument(0)); err != nil {
		reject(err)
	}
	return a.runtime.ToValue(promise)
}

// nextFrame implements the nextFrame() JS helper. The promise resolves
// through whichever requestAnimationFrame binding is current at call time.
func (a *Adapter) nextFrame(goja.FunctionCall) goja.Value {
	target := a.runtime.Get("requestAnimationFrame")
	fn, ok := goja.AssertFunction(target)
	if !ok {
		panic(a.runtime.NewTypeError("nextFrame requires a requestAnimationFrame binding"))
	}

	promise, resolve, reject := a.runtime.NewPromise()
	cb := a.runtime.ToValue(func(goja.FunctionCall) goja.Value {
		resolve(goja.Undefined())
		return goja.Undefined()
	})
	if _, err := fn(goja.Undefined(), cb); err != nil {
		reject(err)
	}
	return a.runtime.ToValue(promise)
}
