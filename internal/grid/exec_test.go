package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgrid/internal/engine"
	"github.com/vk/taskgrid/internal/parallel"
	"github.com/vk/taskgrid/internal/registry"
)

func execEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New(context.Background(), engine.Options{Workers: 4})
	t.Cleanup(e.Close)
	return e
}

func arithRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.RegisterPayload(engine.NewPayload("increment", func(_ context.Context, args []any) (any, error) {
		n, err := engine.ArgInt(args, 0)
		if err != nil {
			return nil, err
		}
		return n + 1, nil
	}))
	reg.RegisterPayload(engine.NewPayload("add", func(_ context.Context, args []any) (any, error) {
		a, err := engine.ArgInt(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := engine.ArgInt(args, 1)
		if err != nil {
			return nil, err
		}
		return a + b, nil
	}))
	return reg
}

func TestExecuteFanOutFanIn(t *testing.T) {
	model := loadModel(t, `
map "increment" "bumped" {
  inputs = [1, 2, 3, 4]
}

reduce "add" "sum" {
  inputs = [map.bumped]
  form   = "tree"
}

task "add" "total" {
  args = [reduce.sum, 100]
}
`)

	e := execEngine(t)
	outputs, err := Execute(context.Background(), e, arithRegistry(t), model)
	require.NoError(t, err)
	require.Len(t, outputs, 3)

	byBlock := make(map[string]*Output)
	for _, o := range outputs {
		byBlock[o.Block] = o
	}

	bumped, err := e.GetMany(context.Background(), byBlock["map.bumped"].Handles)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(3), int64(4), int64(5)}, bumped)

	sum, err := e.Get(context.Background(), byBlock["reduce.sum"].Handles[0])
	require.NoError(t, err)
	assert.Equal(t, int64(14), sum)

	total, err := e.Get(context.Background(), byBlock["task.total"].Handles[0])
	require.NoError(t, err)
	assert.Equal(t, int64(114), total)
}

func TestExecuteChainIsDefaultReduceForm(t *testing.T) {
	model := loadModel(t, `
reduce "add" "sum" {
  inputs = [1, 2, 3]
}
`)

	e := execEngine(t)
	outputs, err := Execute(context.Background(), e, arithRegistry(t), model)
	require.NoError(t, err)

	v, err := e.Get(context.Background(), outputs[0].Handles[0])
	require.NoError(t, err)
	assert.Equal(t, int64(6), v)
}

func TestExecuteTaskReferenceExpandsToSingleHandle(t *testing.T) {
	model := loadModel(t, `
task "increment" "seed" {
  args = [41]
}

task "increment" "next" {
  args = [task.seed]
}
`)

	e := execEngine(t)
	outputs, err := Execute(context.Background(), e, arithRegistry(t), model)
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	v, err := e.Get(context.Background(), outputs[1].Handles[0])
	require.NoError(t, err)
	assert.Equal(t, int64(43), v)
}

func TestExecuteMapReferenceFlattensIntoArgs(t *testing.T) {
	// A two-element map referenced from a binary task supplies both args.
	model := loadModel(t, `
map "increment" "pair" {
  inputs = [10, 20]
}

task "add" "sum" {
  args = [map.pair]
}
`)

	e := execEngine(t)
	outputs, err := Execute(context.Background(), e, arithRegistry(t), model)
	require.NoError(t, err)

	v, err := e.Get(context.Background(), outputs[1].Handles[0])
	require.NoError(t, err)
	assert.Equal(t, int64(32), v)
}

func TestExecuteRejectsUnknownPayload(t *testing.T) {
	model := loadModel(t, `
task "frobnicate" "x" {
  args = [1]
}
`)

	e := execEngine(t)
	_, err := Execute(context.Background(), e, arithRegistry(t), model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown payload 'frobnicate'")
}

func TestExecuteRejectsEmptyReduceInputs(t *testing.T) {
	model := loadModel(t, `
reduce "add" "sum" {
  inputs = []
}
`)

	e := execEngine(t)
	_, err := Execute(context.Background(), e, arithRegistry(t), model)
	require.Error(t, err)
	assert.ErrorIs(t, err, parallel.ErrEmptyInput)
}
