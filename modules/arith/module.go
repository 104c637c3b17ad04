// Package arith provides the integer payloads used by the map/reduce demo
// grids: increment and a binary add. Both payloads are deterministic, and
// add is associative and commutative, which makes it valid for tree-form
// reduction.
package arith

import (
	"context"
	"time"

	"github.com/vk/taskgrid/internal/engine"
	"github.com/vk/taskgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Latency, when non-zero, is slept at the start of every invocation.
	// Demo grids use it to make critical-path depth visible as wall time.
	Latency time.Duration
}

func (m *Module) delay() {
	if m.Latency > 0 {
		time.Sleep(m.Latency)
	}
}

// increment is the handler for the 'increment' payload: one integer in,
// that integer plus one out.
func (m *Module) increment(_ context.Context, args []any) (any, error) {
	m.delay()
	n, err := engine.ArgInt(args, 0)
	if err != nil {
		return nil, err
	}
	return n + 1, nil
}

// add is the handler for the 'add' payload: the sum of two integers.
func (m *Module) add(_ context.Context, args []any) (any, error) {
	m.delay()
	a, err := engine.ArgInt(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := engine.ArgInt(args, 1)
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

// Register registers the payloads with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPayload(engine.NewPayload("increment", m.increment))
	r.RegisterPayload(engine.NewPayload("add", m.add))
}
