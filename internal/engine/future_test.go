package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEngine builds an engine whose Close is deferred to test cleanup.
func testEngine(t *testing.T, workers int) *Engine {
	t.Helper()
	e := New(context.Background(), Options{Workers: workers})
	t.Cleanup(e.Close)
	return e
}

func constPayload(v any) *Payload {
	return NewPayload("const", func(context.Context, []any) (any, error) {
		return v, nil
	})
}

func TestResolvedIsImmediatelyReady(t *testing.T) {
	e := testEngine(t, 2)

	h := e.Resolved(42)
	require.True(t, h.Valid())

	v, err := e.Get(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGetConcurrentCallersObserveSameOutcome(t *testing.T) {
	e := testEngine(t, 2)

	h, err := e.Submit(NewPayload("slow", func(context.Context, []any) (any, error) {
		time.Sleep(50 * time.Millisecond)
		return "done", nil
	}), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := e.Get(context.Background(), h)
			assert.NoError(t, err)
			assert.Equal(t, "done", v)
		}()
	}
	wg.Wait()
}

func TestGetManyPreservesInputOrder(t *testing.T) {
	e := testEngine(t, 8)

	// Later submissions sleep less, so completion order inverts
	// submission order.
	handles := make([]Handle, 6)
	for i := range handles {
		i := i
		h, err := e.Submit(NewPayload("inv", func(context.Context, []any) (any, error) {
			time.Sleep(time.Duration(60-10*i) * time.Millisecond)
			return i, nil
		}), nil)
		require.NoError(t, err)
		handles[i] = h
	}

	values, err := e.GetMany(context.Background(), handles)
	require.NoError(t, err)
	assert.Equal(t, []any{0, 1, 2, 3, 4, 5}, values)
}

func TestDoubleResolutionPanics(t *testing.T) {
	e := testEngine(t, 1)

	e.inflight.Add(1)
	h := e.allocate()
	e.resolve(h, 1)

	require.Panics(t, func() { e.resolve(h, 2) })
	require.Panics(t, func() { e.fail(h, assert.AnError) })
}

func TestGetRejectsForeignHandles(t *testing.T) {
	e := testEngine(t, 1)
	other := testEngine(t, 1)

	_, err := e.Get(context.Background(), Handle{})
	assert.ErrorIs(t, err, ErrInvalidHandle)

	h := other.Resolved(1)
	_, err = e.Get(context.Background(), h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestGetHonorsContextCancellation(t *testing.T) {
	e := testEngine(t, 1)

	e.inflight.Add(1)
	h := e.allocate()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := e.Get(ctx, h)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Unblock Close in cleanup.
	e.resolve(h, nil)
}
