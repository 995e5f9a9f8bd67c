package ticker

import (
	"math"
	"sync"
)

// ID is the opaque handle returned by every registration operation. The zero
// value is never issued.
type ID uint64

// idFloor seeds the ID counter well above any value a native timer handle
// plausibly occupies, so the two namespaces cannot collide when host-level
// bindings are toggled between implementations. The floor also keeps every
// issued ID below 2^53, losslessly representable as a JavaScript number.
const idFloor ID = 1 << 48

// unbounded marks entries with no repeat bound.
const unbounded int64 = math.MaxInt64

// Action is the callback signature for every registration kind. It receives
// the time elapsed since the entry's previous firing (milliseconds), the
// number of times the entry fired before this invocation (zero on the first
// firing), and the extra arguments given at registration, verbatim.
type Action func(sinceLastFire float64, fired int64, args ...any)

// pendingCallback is one scheduled unit of work. All time bookkeeping is in
// milliseconds of accumulated tick delta, not wall-clock timestamps, so a
// stopped ticker does not charge idle time to its entries.
type pendingCallback struct {
	action      Action
	args        []any
	delay       float64 // accumulated-time threshold per firing, > 0
	repeats     int64   // firing bound, > 0; unbounded for intervals/loops
	fired       int64   // completed firings
	accumulated float64 // total delta charged since creation
	lastFire    float64 // accumulated value at the most recent firing
}

// registry owns every live pendingCallback, keyed by ID. IDs are allocated
// monotonically and never reused for the lifetime of the registry.
type registry struct {
	mu      sync.Mutex
	entries map[ID]*pendingCallback
	nextID  ID
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[ID]*pendingCallback),
		nextID:  idFloor,
	}
}

// add stores cb under a freshly allocated ID.
func (r *registry) add(cb *pendingCallback) ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.entries[id] = cb
	return id
}

// get returns the live entry for id, if any.
func (r *registry) get(id ID) (*pendingCallback, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.entries[id]
	return cb, ok
}

// remove deletes the entry for id. Unknown ids are ignored.
func (r *registry) remove(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// snapshot returns the IDs live at this instant. The tick traverses a
// snapshot rather than the map itself so that registrations and
// cancellations made by firing callbacks cannot corrupt the pass: each entry
// present at tick start is visited at most once, and entries added mid-tick
// wait for the next frame.
func (r *registry) snapshot() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]ID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// size reports the number of live entries.
func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
