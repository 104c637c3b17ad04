package integration_tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/taskgrid/internal/app"
)

// Test for: a block referencing several futures starts only after the last
// of them resolves.
func TestGridExecution_FanInWaitsForAllDependencies(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	gridHCL := `
		task "sleeper" "A" {
			args = ["A"]
		}
		task "sleeper" "B" {
			args = ["B"]
		}
		task "sleeper" "C" {
			args = ["C"]
		}
		task "sleeper" "D" {
			args = ["D", task.A, task.B, task.C]
		}
	`
	gridPath := writeGridFile(t, gridHCL)

	var wg sync.WaitGroup
	wg.Add(4)

	appConfig := &app.Config{
		GridPath: gridPath,
		Workers:  4,
	}
	mockModule := &mockSleeperModule{
		wg:             &wg,
		executionTimes: make(map[string]*app.ExecutionRecord),
		sleepDuration:  100 * time.Millisecond,
	}
	testApp, _ := app.SetupAppTest(t, appConfig, mockModule)

	// --- Act ---
	runErr := testApp.Run(context.Background(), appConfig)
	require.NoError(t, runErr)
	wg.Wait()

	// --- Assert ---
	latestPrereqEnd := mockModule.record("A").End
	for _, id := range []string{"B", "C"} {
		if end := mockModule.record(id).End; end.After(latestPrereqEnd) {
			latestPrereqEnd = end
		}
	}
	if mockModule.record("D").Start.Before(latestPrereqEnd) {
		t.Errorf("fan-in synchronization failed: task D started before all prerequisites were complete")
	}
}
