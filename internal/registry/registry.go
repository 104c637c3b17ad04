package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/taskgrid/internal/engine"
)

// Module is the interface that all payload modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the payload references available to a single application
// instance, keyed by the names grid files refer to them by.
type Registry struct {
	payloads map[string]*engine.Payload
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		payloads: make(map[string]*engine.Payload),
	}
}

// RegisterPayload adds a payload under its own name. Registering the same
// name twice is a programmer error and panics.
func (r *Registry) RegisterPayload(p *engine.Payload) {
	if _, exists := r.payloads[p.Name()]; exists {
		panic(fmt.Sprintf("payload with name '%s' already registered", p.Name()))
	}
	slog.Debug("Registering payload.", "name", p.Name())
	r.payloads[p.Name()] = p
}

// Payload looks up a payload reference by name.
func (r *Registry) Payload(name string) (*engine.Payload, bool) {
	p, ok := r.payloads[name]
	return p, ok
}

// Names returns the registered payload names, sorted for stable logging.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.payloads))
	for name := range r.payloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
