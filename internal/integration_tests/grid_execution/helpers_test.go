package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/taskgrid/internal/app"
	"github.com/vk/taskgrid/internal/engine"
	"github.com/vk/taskgrid/internal/registry"
)

// mockSleeperModule is a self-contained module for concurrency tests. Its
// "sleeper" payload records wall-clock start and end times per id.
type mockSleeperModule struct {
	wg             *sync.WaitGroup
	executionTimes map[string]*app.ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
}

// Register registers the "sleeper" payload. The first argument is the id
// the execution is recorded under; any further arguments are ignored, which
// lets grid blocks depend on earlier sleepers by referencing them.
func (m *mockSleeperModule) Register(r *registry.Registry) {
	r.RegisterPayload(engine.NewPayload("sleeper", func(_ context.Context, args []any) (any, error) {
		defer m.wg.Done()
		id, err := engine.ArgString(args, 0)
		if err != nil {
			return nil, err
		}

		startTime := time.Now()
		time.Sleep(m.sleepDuration)
		endTime := time.Now()

		m.mu.Lock()
		m.executionTimes[id] = &app.ExecutionRecord{Start: startTime, End: endTime}
		m.mu.Unlock()

		return id, nil
	}))
}

// record returns the execution record for id under the module's lock.
func (m *mockSleeperModule) record(id string) *app.ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.executionTimes[id]
}

// writeGridFile writes gridHCL into a temp dir and returns the file path.
func writeGridFile(t *testing.T, gridHCL string) string {
	t.Helper()
	gridPath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(gridPath, []byte(gridHCL), 0600))
	return gridPath
}
