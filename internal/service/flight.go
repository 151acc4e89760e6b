package service

import (
	"context"
	"sync"
)

// flightTracker enforces latest-wins across overlapping dashboard
// computations for the same key. Beginning a new flight cancels the
// context of the one still in progress; a finished flight checks that
// its generation is still the latest before its result counts.
type flightTracker struct {
	mu      sync.Mutex
	gen     uint64
	flights map[string]*flight
}

type flight struct {
	gen    uint64
	cancel context.CancelFunc
}

func newFlightTracker() *flightTracker {
	return &flightTracker{flights: make(map[string]*flight)}
}

// begin registers a new flight for key, cancelling any in-flight
// predecessor, and returns the context the flight must use plus its
// generation token.
func (t *flightTracker) begin(ctx context.Context, key string) (context.Context, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.flights[key]; ok {
		prev.cancel()
	}
	t.gen++
	fctx, cancel := context.WithCancel(ctx)
	t.flights[key] = &flight{gen: t.gen, cancel: cancel}
	return fctx, t.gen
}

// latest reports whether gen is still the newest flight for key.
func (t *flightTracker) latest(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.flights[key]
	return ok && f.gen == gen
}

// end releases the flight's context resources and clears the registry
// entry unless a newer flight has already replaced it.
func (t *flightTracker) end(key string, gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.flights[key]
	if !ok || f.gen != gen {
		return
	}
	f.cancel()
	delete(t.flights, key)
}
