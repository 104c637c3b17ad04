package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgrid/internal/app"
	"github.com/vk/taskgrid/modules/arith"
)

// Test for: a full map -> reduce -> task pipeline produces the expected
// values through App.Results.
func TestGridExecution_PipelineResults(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	gridHCL := `
		map "increment" "bumped" {
			inputs = [1, 2, 3, 4, 5]
		}
		reduce "add" "sum" {
			inputs = [map.bumped]
			form   = "tree"
		}
		task "add" "total" {
			args = [reduce.sum, 1000]
		}
	`
	gridPath := writeGridFile(t, gridHCL)

	appConfig := &app.Config{
		GridPath: gridPath,
		Workers:  4,
	}
	testApp, _ := app.SetupAppTest(t, appConfig, &arith.Module{})

	// --- Act ---
	runErr := testApp.Run(context.Background(), appConfig)
	require.NoError(t, runErr)

	// --- Assert ---
	results := testApp.Results()
	assert.Equal(t, []any{int64(2), int64(3), int64(4), int64(5), int64(6)}, results["map.bumped"])
	assert.Equal(t, []any{int64(20)}, results["reduce.sum"])
	assert.Equal(t, []any{int64(1020)}, results["task.total"])
}

// Test for: chain and tree reduce forms agree on an associative payload.
func TestGridExecution_ReduceFormsAgree(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	gridHCL := `
		reduce "add" "chained" {
			inputs = [1, 2, 3, 4, 5, 6]
			form   = "chain"
		}
		reduce "add" "treed" {
			inputs = [1, 2, 3, 4, 5, 6]
			form   = "tree"
		}
	`
	gridPath := writeGridFile(t, gridHCL)

	appConfig := &app.Config{
		GridPath: gridPath,
		Workers:  4,
	}
	testApp, _ := app.SetupAppTest(t, appConfig, &arith.Module{})

	// --- Act ---
	runErr := testApp.Run(context.Background(), appConfig)
	require.NoError(t, runErr)

	// --- Assert ---
	results := testApp.Results()
	assert.Equal(t, results["reduce.chained"], results["reduce.treed"])
	assert.Equal(t, []any{int64(21)}, results["reduce.chained"])
}
