package grid

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/engine"
	"github.com/vk/taskgrid/internal/parallel"
	"github.com/vk/taskgrid/internal/registry"
)

// Output is the handle set produced by one block: a single handle for task
// and reduce blocks, one per input for map blocks.
type Output struct {
	Block   string
	Handles []engine.Handle
}

// Execute submits every block of the model in dependency order and returns
// the outputs in that order. Nothing is awaited here: all blocks are in
// flight when Execute returns, and callers retrieve results through the
// engine.
func Execute(ctx context.Context, eng *engine.Engine, reg *registry.Registry, model *Model) ([]*Output, error) {
	logger := ctxlog.FromContext(ctx)

	plan, err := BuildPlan(ctx, model)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string][]engine.Handle)
	var outputs []*Output
	for _, n := range plan.order {
		payload, ok := reg.Payload(n.payload)
		if !ok {
			return nil, fmt.Errorf("block '%s': unknown payload '%s'", n.ref.key(), n.payload)
		}

		var handles []engine.Handle
		switch {
		case n.task != nil:
			args, err := evalList(n.task.Args, resolved)
			if err != nil {
				return nil, fmt.Errorf("block '%s': %w", n.ref.key(), err)
			}
			h, err := eng.Submit(payload, args)
			if err != nil {
				return nil, fmt.Errorf("block '%s': %w", n.ref.key(), err)
			}
			handles = []engine.Handle{h}

		case n.mapB != nil:
			inputs, err := evalList(n.mapB.Inputs, resolved)
			if err != nil {
				return nil, fmt.Errorf("block '%s': %w", n.ref.key(), err)
			}
			if handles, err = parallel.Map(eng, payload, inputs); err != nil {
				return nil, fmt.Errorf("block '%s': %w", n.ref.key(), err)
			}

		case n.reduce != nil:
			inputs, err := evalList(n.reduce.Inputs, resolved)
			if err != nil {
				return nil, fmt.Errorf("block '%s': %w", n.ref.key(), err)
			}
			reduce := parallel.ReduceChain
			if n.reduce.Form == FormTree {
				reduce = parallel.ReduceTree
			}
			h, err := reduce(eng, payload, inputs)
			if err != nil {
				return nil, fmt.Errorf("block '%s': %w", n.ref.key(), err)
			}
			handles = []engine.Handle{h}
		}

		logger.Debug("Block submitted.", "block", n.ref.key(), "payload", n.payload, "futures", len(handles))
		resolved[n.ref.key()] = handles
		outputs = append(outputs, &Output{Block: n.ref.key(), Handles: handles})
	}

	return outputs, nil
}

// evalList materializes an args/inputs expression into the flat argument
// sequence for submission. Block references expand to their handle sets; a
// top-level literal list contributes its elements; a literal inside a tuple
// stays a single value, list-typed or not.
func evalList(expr hcl.Expression, resolved map[string][]engine.Handle) ([]any, error) {
	if tuple, ok := expr.(*hclsyntax.TupleConsExpr); ok {
		var out []any
		for _, el := range tuple.Exprs {
			vals, err := evalElement(el, resolved, false)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
		}
		return out, nil
	}
	return evalElement(expr, resolved, true)
}

// evalElement evaluates one expression. Block references yield their
// handles. Literals yield one value, unless splat is set and the literal is
// a list, in which case its elements are returned individually.
func evalElement(expr hcl.Expression, resolved map[string][]engine.Handle, splat bool) ([]any, error) {
	if scope, ok := expr.(*hclsyntax.ScopeTraversalExpr); ok {
		ref, ok := parseBlockRef(scope.Traversal)
		if !ok {
			return nil, fmt.Errorf("unknown reference '%s'", scope.Traversal.RootName())
		}
		handles, found := resolved[ref.key()]
		if !found {
			return nil, fmt.Errorf("reference to unsubmitted block '%s'", ref.key())
		}
		out := make([]any, len(handles))
		for i, h := range handles {
			out[i] = h
		}
		return out, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("unsupported expression, only literals and whole block references are allowed: %w", diags)
	}
	goVal, err := ctyToGo(val)
	if err != nil {
		return nil, err
	}
	if list, ok := goVal.([]any); ok && splat {
		return list, nil
	}
	return []any{goVal}, nil
}
