package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/taskgrid/internal/ctxlog"
)

// DefaultWorkers is the pool size used when Options.Workers is not set.
const DefaultWorkers = 10

// Options configures a new engine. Worker pool size is the only parameter
// that affects core scheduling semantics.
type Options struct {
	// Workers caps the number of tasks executing concurrently. This is an
	// admission bound, not a hint. Values below one fall back to
	// DefaultWorkers.
	Workers int
}

// generation distinguishes handles issued by different engine instances
// within one process.
var generation atomic.Uint32

// Engine owns the future store, the dependency bookkeeping, the ready queue
// and the worker pool. Construct it with New and release it with Close.
type Engine struct {
	gen     uint32
	workers int

	mu      sync.Mutex
	records []*record

	queue    *readyQueue
	wg       sync.WaitGroup // worker goroutines
	inflight sync.WaitGroup // futures not yet terminal
	closed   atomic.Bool
}

// New constructs an engine and starts its worker pool. The context supplies
// the logger and is handed to every payload invocation; it is not used to
// cancel running tasks.
func New(ctx context.Context, opts Options) *Engine {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	e := &Engine{
		gen:     generation.Add(1),
		workers: workers,
		queue:   newReadyQueue(),
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting worker pool.", "workers", workers)
	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.worker(ctx, i)
	}

	return e
}

// Workers returns the configured pool size.
func (e *Engine) Workers() int {
	return e.workers
}

// Submit registers one deferred invocation of payload and immediately
// returns the handle of its future. Arguments may mix literal values and
// handles returned by earlier submissions; the task executes once every
// referenced future is Ready. Submit never blocks on execution, regardless
// of pool occupancy or dependency depth.
//
// Invalid submissions (nil payload, closed engine, foreign handle) are
// reported synchronously and nothing is allocated.
func (e *Engine) Submit(payload *Payload, args []any) (Handle, error) {
	if payload == nil {
		return Handle{}, ErrNilPayload
	}
	if e.closed.Load() {
		return Handle{}, ErrEngineClosed
	}
	for i, arg := range args {
		if h, ok := arg.(Handle); ok {
			if _, err := e.lookup(h); err != nil {
				return Handle{}, fmt.Errorf("arg %d: %w", i, err)
			}
		}
	}

	e.inflight.Add(1)
	t := &task{
		handle:  e.allocate(),
		payload: payload,
		args:    append([]any(nil), args...),
	}
	e.register(t)
	return t.handle, nil
}

// register subscribes t to each still-Pending future among its arguments.
// Subscription happens under the record lock, so a resolution either sees
// the subscriber or the subscriber sees the terminal state; no notification
// can be missed in between.
func (e *Engine) register(t *task) {
	t.unresolved.Store(1) // registration token

	for _, arg := range t.args {
		h, ok := arg.(Handle)
		if !ok {
			continue
		}
		rec := e.mustLookup(h)

		rec.mu.Lock()
		switch rec.state {
		case statePending:
			t.unresolved.Add(1)
			rec.subscribers = append(rec.subscribers, t)
		case stateFailed:
			t.poison(rec.err)
		}
		rec.mu.Unlock()
	}

	// Settle the registration token. A task with no pending dependencies,
	// including the zero-argument case, becomes ready right here.
	e.depSettled(t)
}

// depSettled accounts for one settled dependency (or the registration
// token). The task whose count reaches zero is enqueued exactly once, or
// failed without execution if any dependency failed.
func (e *Engine) depSettled(t *task) {
	if t.unresolved.Add(-1) != 0 {
		return
	}
	if err := t.poisonedBy(); err != nil {
		e.fail(t.handle, fmt.Errorf("%w: %w", ErrDependencyFailed, err))
		return
	}
	e.queue.push(t)
}

// worker is the processing loop of a single pool slot. A slot runs one task
// at a time to completion, so at most Workers tasks execute concurrently.
func (e *Engine) worker(ctx context.Context, id int) {
	defer e.wg.Done()
	logger := ctxlog.FromContext(ctx).With("worker", id)
	logger.Debug("Worker started.")

	for {
		t, ok := e.queue.pop()
		if !ok {
			break
		}
		e.execute(ctx, t)
	}
	logger.Debug("Worker finished.")
}

// execute resolves the task's arguments and runs its payload. Payload
// failure is captured into the future and isolated to this one task.
func (e *Engine) execute(ctx context.Context, t *task) {
	logger := ctxlog.FromContext(ctx).With("task", t.handle.String(), "payload", t.payload.Name())
	logger.Debug("Executing task.")

	// Every future argument is Ready by the time a task is dispatched, so
	// reading values here cannot block.
	args := make([]any, len(t.args))
	for i, arg := range t.args {
		h, ok := arg.(Handle)
		if !ok {
			args[i] = arg
			continue
		}
		rec := e.mustLookup(h)
		rec.mu.Lock()
		args[i] = rec.value
		rec.mu.Unlock()
	}

	value, err := t.invoke(ctx, args)
	if err != nil {
		logger.Debug("Task failed.", "error", err)
		e.fail(t.handle, err)
		return
	}
	logger.Debug("Task resolved.")
	e.resolve(t.handle, value)
}

// Close drains the engine and releases its workers: it stops accepting
// submissions, waits until every already-submitted future is terminal, then
// stops the pool. Close is idempotent and safe to call concurrently.
func (e *Engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.inflight.Wait()
	e.queue.close()
	e.wg.Wait()
}
