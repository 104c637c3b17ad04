// Package app wires the application together: configuration, logging, the
// payload registry, grid loading and the engine lifecycle for one run.
package app
