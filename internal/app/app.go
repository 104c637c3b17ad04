package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/grid"
	"github.com/vk/taskgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *grid.Model

	mu      sync.Mutex
	results map[string][]any
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := grid.Load(ctx, cfg.GridPath)
	if err != nil {
		// A failure to load the grid is a fatal startup error.
		panic(fmt.Errorf("failed to load grid: %w", err))
	}
	logger.Debug("Grid model loaded.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All payload modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
		results:  make(map[string][]any),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Results returns the values retrieved for each successfully completed
// block, keyed by block name. Populated by Run; primarily for testing.
func (a *App) Results() map[string][]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string][]any, len(a.results))
	for k, v := range a.results {
		out[k] = v
	}
	return out
}

func (a *App) recordResult(block string, values []any) {
	a.mu.Lock()
	a.results[block] = values
	a.mu.Unlock()
}
