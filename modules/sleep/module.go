// Package sleep provides a payload that sleeps for a fixed duration, the
// standard probe for dispatch ordering and critical-path measurements.
package sleep

import (
	"context"
	"time"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/engine"
	"github.com/vk/taskgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// onRunSleep is the handler for the 'sleep' payload. Its single argument is
// a duration string ("250ms", "2s"); it returns the parsed duration's
// millisecond count.
func onRunSleep(ctx context.Context, args []any) (any, error) {
	d, err := engine.ArgDuration(args, 0)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("payload", "sleep")
	logger.Debug("Sleeping.", "duration", d)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return d.Milliseconds(), nil
}

// Register registers the payload with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPayload(engine.NewPayload("sleep", onRunSleep))
}
