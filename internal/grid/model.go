package grid

import "github.com/hashicorp/hcl/v2"

// Model is the merged representation of every loaded grid file.
type Model struct {
	Tasks   []*TaskBlock
	Maps    []*MapBlock
	Reduces []*ReduceBlock
}

// TaskBlock is one `task "<payload>" "<name>"` block: a single deferred
// payload invocation.
type TaskBlock struct {
	Payload string         `hcl:"payload,label"`
	Name    string         `hcl:"name,label"`
	Args    hcl.Expression `hcl:"args"`
}

// MapBlock is one `map "<payload>" "<name>"` block: one task per input,
// producing an ordered list of futures.
type MapBlock struct {
	Payload string         `hcl:"payload,label"`
	Name    string         `hcl:"name,label"`
	Inputs  hcl.Expression `hcl:"inputs"`
}

// ReduceBlock is one `reduce "<payload>" "<name>"` block: a fold of a
// binary payload over its inputs. Form selects the shape, "chain" (default)
// or "tree"; tree form requires an associative-commutative payload.
type ReduceBlock struct {
	Payload string         `hcl:"payload,label"`
	Name    string         `hcl:"name,label"`
	Inputs  hcl.Expression `hcl:"inputs"`
	Form    string         `hcl:"form,optional"`
}

// fileContent is the gohcl decoding target for a single grid file.
type fileContent struct {
	Tasks   []*TaskBlock   `hcl:"task,block"`
	Maps    []*MapBlock    `hcl:"map,block"`
	Reduces []*ReduceBlock `hcl:"reduce,block"`
}

// Block kinds, doubling as the reference namespaces usable in expressions.
const (
	kindTask   = "task"
	kindMap    = "map"
	kindReduce = "reduce"
)

// FormChain and FormTree are the accepted reduce shapes.
const (
	FormChain = "chain"
	FormTree  = "tree"
)
