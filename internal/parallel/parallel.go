// Package parallel provides the fan-out/fan-in primitives built on top of
// the engine's submission API: an ordered parallel map and two reduction
// shapes over a binary payload. None of the helpers block; they return
// handles that the caller retrieves at its leisure.
package parallel

import (
	"errors"
	"fmt"

	"github.com/vk/taskgrid/internal/engine"
)

// ErrEmptyInput is returned by the reduce helpers for an empty input
// sequence. There is no neutral-element convention to fall back on, so this
// is a precondition violation reported synchronously.
var ErrEmptyInput = errors.New("reduce of empty input")

// Map submits one payload invocation per input and returns the handles in
// input order. Inputs may mix literal values and handles from earlier
// submissions.
func Map(e *engine.Engine, payload *engine.Payload, inputs []any) ([]engine.Handle, error) {
	handles := make([]engine.Handle, len(inputs))
	for i, in := range inputs {
		h, err := e.Submit(payload, []any{in})
		if err != nil {
			return nil, fmt.Errorf("map input %d: %w", i, err)
		}
		handles[i] = h
	}
	return handles, nil
}

// ReduceChain folds a binary payload left-to-right over inputs. Each
// submission depends on the previous result, so the critical path is
// len(inputs)-1 sequential executions.
func ReduceChain(e *engine.Engine, payload *engine.Payload, inputs []any) (engine.Handle, error) {
	if len(inputs) == 0 {
		return engine.Handle{}, ErrEmptyInput
	}

	acc := inputs[0]
	for i, in := range inputs[1:] {
		h, err := e.Submit(payload, []any{acc, in})
		if err != nil {
			return engine.Handle{}, fmt.Errorf("reduce step %d: %w", i, err)
		}
		acc = h
	}
	return asHandle(e, acc), nil
}

// ReduceTree repeatedly pairs up adjacent not-yet-combined elements and
// submits one combining task per pair until a single handle remains.
// Siblings at the same level carry no dependency on each other, so the
// critical path is ceil(log2 n) executions, bounded only by pool size. The
// payload must be associative and commutative; behavior for any other
// payload is unspecified.
func ReduceTree(e *engine.Engine, payload *engine.Payload, inputs []any) (engine.Handle, error) {
	if len(inputs) == 0 {
		return engine.Handle{}, ErrEmptyInput
	}

	level := append([]any(nil), inputs...)
	for len(level) > 1 {
		next := make([]any, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			h, err := e.Submit(payload, []any{level[i], level[i+1]})
			if err != nil {
				return engine.Handle{}, fmt.Errorf("reduce pair %d: %w", i/2, err)
			}
			next = append(next, h)
		}
		if len(level)%2 == 1 {
			// The odd element out carries over to the next level unchanged.
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return asHandle(e, level[0]), nil
}

// asHandle lifts a single literal into handle form; a one-element reduction
// performs no combining work.
func asHandle(e *engine.Engine, v any) engine.Handle {
	if h, ok := v.(engine.Handle); ok {
		return h
	}
	return e.Resolved(v)
}
