package grid

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/taskgrid/internal/ctxlog"
)

// blockRef identifies one block output referenced from an expression, e.g.
// task.total or map.bumped.
type blockRef struct {
	Kind string
	Name string
}

func (r blockRef) key() string {
	return fmt.Sprintf("%s.%s", r.Kind, r.Name)
}

// node is one block in the submission plan, with its payload name, its
// argument expressions and the references they carry.
type node struct {
	ref     blockRef
	payload string
	task    *TaskBlock
	mapB    *MapBlock
	reduce  *ReduceBlock
	deps    []blockRef
}

// Plan is a dependency-ordered sequence of blocks: every block appears
// after everything it references.
type Plan struct {
	order []*node
	nodes map[string]*node
}

// parseBlockRef analyzes an HCL traversal to extract a block reference. A
// valid reference is of the form `task.<name>`, `map.<name>` or
// `reduce.<name>`; anything else is ignored.
func parseBlockRef(traversal hcl.Traversal) (blockRef, bool) {
	root := traversal.RootName()
	if root != kindTask && root != kindMap && root != kindReduce {
		return blockRef{}, false
	}
	if len(traversal) < 2 {
		return blockRef{}, false
	}
	attr, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return blockRef{}, false
	}
	return blockRef{Kind: root, Name: attr.Name}, true
}

// refsOf collects the distinct block references appearing anywhere in expr.
func refsOf(expr hcl.Expression) []blockRef {
	var refs []blockRef
	seen := make(map[string]bool)
	for _, traversal := range expr.Variables() {
		ref, ok := parseBlockRef(traversal)
		if !ok || seen[ref.key()] {
			continue
		}
		seen[ref.key()] = true
		refs = append(refs, ref)
	}
	return refs
}

// BuildPlan wires every block's references into dependency edges, verifies
// they resolve, and returns the blocks in submission order. A reference
// cycle is a configuration error.
func BuildPlan(ctx context.Context, model *Model) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building submission plan.")

	plan := &Plan{nodes: make(map[string]*node)}
	var declared []*node

	add := func(n *node) {
		plan.nodes[n.ref.key()] = n
		declared = append(declared, n)
	}
	for _, t := range model.Tasks {
		add(&node{ref: blockRef{kindTask, t.Name}, payload: t.Payload, task: t, deps: refsOf(t.Args)})
	}
	for _, m := range model.Maps {
		add(&node{ref: blockRef{kindMap, m.Name}, payload: m.Payload, mapB: m, deps: refsOf(m.Inputs)})
	}
	for _, r := range model.Reduces {
		add(&node{ref: blockRef{kindReduce, r.Name}, payload: r.Payload, reduce: r, deps: refsOf(r.Inputs)})
	}

	for _, n := range declared {
		for _, dep := range n.deps {
			if _, ok := plan.nodes[dep.key()]; !ok {
				return nil, fmt.Errorf("block '%s' references unknown block '%s'", n.ref.key(), dep.key())
			}
		}
	}

	// Depth-first postorder visit: dependencies land in the plan before
	// their dependents, declaration order breaks ties.
	visiting := make(map[string]bool)
	visited := make(map[string]bool)
	var visit func(n *node) error
	visit = func(n *node) error {
		visiting[n.ref.key()] = true
		for _, dep := range n.deps {
			depNode := plan.nodes[dep.key()]
			if visiting[dep.key()] {
				return fmt.Errorf("reference cycle detected involving '%s'", dep.key())
			}
			if !visited[dep.key()] {
				if err := visit(depNode); err != nil {
					return err
				}
			}
		}
		delete(visiting, n.ref.key())
		visited[n.ref.key()] = true
		plan.order = append(plan.order, n)
		return nil
	}
	for _, n := range declared {
		if !visited[n.ref.key()] {
			if err := visit(n); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Plan built.", "blocks", len(plan.order))
	return plan, nil
}
