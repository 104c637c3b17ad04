package engine

import "context"

// PayloadFunc is the signature of a payload implementation. It receives the
// fully resolved argument values in submission order and produces exactly
// one value or one error.
type PayloadFunc func(ctx context.Context, args []any) (any, error)

// Payload is an opaque reference to an executable payload. Submission APIs
// accept only *Payload values, never bare functions, so the distinction
// between "a callable" and "a payload the engine may run" is enforced by the
// type system instead of a runtime marker check.
type Payload struct {
	name string
	fn   PayloadFunc
}

// NewPayload wraps fn as a named payload reference. Name and fn are
// programmer-supplied constants; passing empty or nil values panics.
func NewPayload(name string, fn PayloadFunc) *Payload {
	if name == "" {
		panic("engine: payload name must not be empty")
	}
	if fn == nil {
		panic("engine: payload function must not be nil")
	}
	return &Payload{name: name, fn: fn}
}

// Name returns the payload's registered name, used for logging and for
// lookups from declarative grid files.
func (p *Payload) Name() string {
	return p.name
}
