// Package registry provides the central "glue" for the payload module
// system.
//
// The Registry stores mappings between the string identifiers used in grid
// files (e.g. "add", "socketio_request") and the compiled payload references
// the engine will execute. During application startup the registry is
// populated by the built-in modules plus any modules the embedding code
// supplies, after which grid execution resolves payload names through it.
package registry
