package engine

import (
	"context"
	"fmt"
	"sync"
)

// futureState tracks the lifecycle of one future record.
// A record transitions statePending -> {stateReady, stateFailed} exactly once.
type futureState int32

const (
	statePending futureState = iota
	stateReady
	stateFailed
)

// Handle is an opaque reference to the eventual result of one task. The zero
// Handle is invalid. Handles are only meaningful to the engine instance that
// issued them; the generation field catches handles that leak across
// instances.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether h was issued by some engine (the zero Handle is not).
func (h Handle) Valid() bool {
	return h.gen != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("future[%d]", h.index)
}

// record holds the state and eventual value of one future. The mutex guards
// state transitions and the subscriber list together, so a task can never
// subscribe to a future whose resolution notification it already missed.
type record struct {
	mu          sync.Mutex
	state       futureState
	value       any
	err         error
	done        chan struct{}
	subscribers []*task
}

// allocate creates a new Pending future and returns its handle. Never fails.
func (e *Engine) allocate() Handle {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = append(e.records, &record{done: make(chan struct{})})
	return Handle{index: uint32(len(e.records) - 1), gen: e.gen}
}

// lookup maps a handle back to its record, rejecting handles that were not
// issued by this engine instance.
func (e *Engine) lookup(h Handle) (*record, error) {
	if h.gen != e.gen {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if int(h.index) >= len(e.records) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	return e.records[h.index], nil
}

// resolve transitions a future to Ready and notifies its subscribers. The
// subscriber list is captured and cleared under the record lock, then
// settled outside it, so resolutions of distinct futures proceed
// concurrently while per-future mutation stays mutually exclusive.
func (e *Engine) resolve(h Handle, value any) {
	rec := e.mustLookup(h)

	rec.mu.Lock()
	if rec.state != statePending {
		rec.mu.Unlock()
		panic(fmt.Sprintf("engine: double resolution of %s", h))
	}
	rec.state = stateReady
	rec.value = value
	subscribers := rec.subscribers
	rec.subscribers = nil
	close(rec.done)
	rec.mu.Unlock()

	e.inflight.Done()
	for _, t := range subscribers {
		e.depSettled(t)
	}
}

// fail transitions a future to Failed. Subscribed tasks are poisoned: they
// will themselves fail without executing, carrying the original error.
func (e *Engine) fail(h Handle, err error) {
	rec := e.mustLookup(h)

	rec.mu.Lock()
	if rec.state != statePending {
		rec.mu.Unlock()
		panic(fmt.Sprintf("engine: double resolution of %s", h))
	}
	rec.state = stateFailed
	rec.err = err
	subscribers := rec.subscribers
	rec.subscribers = nil
	close(rec.done)
	rec.mu.Unlock()

	e.inflight.Done()
	for _, t := range subscribers {
		t.poison(err)
		e.depSettled(t)
	}
}

// mustLookup is the internal variant of lookup for handles the engine
// produced itself; a miss means a scheduler bug, not a caller error.
func (e *Engine) mustLookup(h Handle) *record {
	rec, err := e.lookup(h)
	if err != nil {
		panic(fmt.Sprintf("engine: %v", err))
	}
	return rec
}

// Get blocks until the future is Ready or Failed, then returns its value or
// the recorded error. It is safe to call concurrently from any number of
// goroutines; all callers observe the same outcome. The context only bounds
// the wait, it does not cancel the underlying task.
func (e *Engine) Get(ctx context.Context, h Handle) (any, error) {
	rec, err := e.lookup(h)
	if err != nil {
		return nil, err
	}

	select {
	case <-rec.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.state == stateFailed {
		return nil, rec.err
	}
	return rec.value, nil
}

// GetMany blocks until every handle is resolved and returns the values in
// input order. The first failure, in input order, is returned as an error.
func (e *Engine) GetMany(ctx context.Context, handles []Handle) ([]any, error) {
	values := make([]any, len(handles))
	for i, h := range handles {
		v, err := e.Get(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("future %d of %d: %w", i, len(handles), err)
		}
		values[i] = v
	}
	return values, nil
}

// Resolved allocates a future that is already Ready with the given value.
// It lets callers lift a literal into handle form, e.g. as the seed of a
// reduction.
func (e *Engine) Resolved(value any) Handle {
	e.inflight.Add(1)
	h := e.allocate()
	e.resolve(h, value)
	return h
}
