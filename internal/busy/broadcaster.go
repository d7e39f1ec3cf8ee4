// Package busy tracks the number of in-flight HTTP requests and broadcasts
// a process-wide busy boolean to subscribers on 0↔1 edges.
package busy

import (
	"sync"
)

// Sink receives the busy gauge for metrics emission. It matches the
// observability statsd client.
type Sink interface {
	Gauge(name string, value float64, tags map[string]string)
}

// Broadcaster counts in-flight requests and notifies subscribers exactly
// once per 0→1 and 1→0 transition. Counting (not flagging) is what keeps a
// fast second request's start/finish from flickering the signal while a
// slower first request is still in flight.
//
// Safe for concurrent use. Subscriber callbacks run synchronously under the
// broadcaster's lock and must not call back into the Broadcaster.
type Broadcaster struct {
	mu       sync.Mutex
	inFlight int
	nextID   int
	subs     map[int]func(bool)

	metrics Sink
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithMetrics mirrors the in-flight count to a metrics sink as a gauge.
func WithMetrics(sink Sink) Option {
	return func(b *Broadcaster) { b.metrics = sink }
}

// New creates a Broadcaster with no subscribers and a zero counter.
func New(opts ...Option) *Broadcaster {
	b := &Broadcaster{subs: make(map[int]func(bool))}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin records a dispatched request. Returns the new in-flight count.
func (b *Broadcaster) Begin() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inFlight++
	if b.inFlight == 1 {
		b.notifyLocked(true)
	}
	b.gaugeLocked()
	return b.inFlight
}

// End records a settled request (success or failure). The counter never
// goes below zero; an unmatched End is ignored rather than corrupting the
// edge accounting.
func (b *Broadcaster) End() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFlight == 0 {
		return 0
	}
	b.inFlight--
	if b.inFlight == 0 {
		b.notifyLocked(false)
	}
	b.gaugeLocked()
	return b.inFlight
}

// InFlight returns the current in-flight request count.
func (b *Broadcaster) InFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight
}

// Busy reports whether at least one request is in flight.
func (b *Broadcaster) Busy() bool {
	return b.InFlight() > 0
}

// Subscribe registers fn to be called with the new busy value on every
// 0↔1 edge. The returned func removes the subscription; consumers must
// call it before going away so a settled request never invokes a callback
// into a dead view.
func (b *Broadcaster) Subscribe(fn func(busy bool)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Reset clears the counter without emitting edges. For tests and for app
// teardown; never call it while requests are in flight.
func (b *Broadcaster) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight = 0
	b.gaugeLocked()
}

func (b *Broadcaster) notifyLocked(busy bool) {
	for _, fn := range b.subs {
		fn(busy)
	}
}

func (b *Broadcaster) gaugeLocked() {
	if b.metrics != nil {
		b.metrics.Gauge("client.requests.in_flight", float64(b.inFlight), nil)
	}
}
