package app

import (
	"context"
	"fmt"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/engine"
	"github.com/vk/taskgrid/internal/grid"
)

// Run executes the loaded grid: it starts an engine with the configured
// worker pool, submits every block, waits for all results and logs them.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.HealthcheckPort > 0 {
		a.startHealthcheckServer(cfg.HealthcheckPort)
	}

	a.logger.Info("Payloads registered:", "names", a.registry.Names())

	eng := engine.New(ctx, engine.Options{Workers: cfg.Workers})
	defer eng.Close()

	a.logger.Info("🚀 Starting grid execution...", "workers", eng.Workers())
	outputs, err := grid.Execute(ctx, eng, a.registry, a.model)
	if err != nil {
		return fmt.Errorf("failed to submit grid: %w", err)
	}

	var firstErr error
	for _, out := range outputs {
		values, err := eng.GetMany(ctx, out.Handles)
		if err != nil {
			a.logger.Error("Block failed.", "block", out.Block, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("execution failed for %s: %w", out.Block, err)
			}
			continue
		}
		a.recordResult(out.Block, values)
		if len(values) == 1 {
			a.logger.Info("Block completed.", "block", out.Block, "value", values[0])
		} else {
			a.logger.Info("Block completed.", "block", out.Block, "values", values)
		}
	}

	if firstErr != nil {
		return firstErr
	}
	a.logger.Info("🏁 Execution finished.")
	a.logger.Debug("App.Run method finished.")
	return nil
}
