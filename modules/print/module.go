// Package print provides a payload that writes its arguments to stdout,
// useful as a terminal sink in demo grids.
package print

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/taskgrid/internal/engine"
	"github.com/vk/taskgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// onRunPrint is the handler for the 'print' payload. It prints every
// resolved argument on its own line and returns the rendered text.
func onRunPrint(_ context.Context, args []any) (any, error) {
	var b strings.Builder
	for i, v := range args {
		fmt.Fprintf(&b, "      [%d] %v\n", i, v)
	}
	text := b.String()
	if text == "" {
		text = "      (no arguments)\n"
	}
	fmt.Print(text)
	return text, nil
}

// Register registers the payload with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPayload(engine.NewPayload("print", onRunPrint))
}
