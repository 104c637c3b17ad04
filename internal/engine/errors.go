package engine

import "errors"

var (
	// ErrEngineClosed is returned by Submit after Close has been called.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrNilPayload is returned by Submit when no payload reference is given.
	ErrNilPayload = errors.New("payload reference is nil")

	// ErrInvalidHandle is returned when a handle does not belong to this
	// engine instance, for example the zero Handle or one from an earlier
	// engine.
	ErrInvalidHandle = errors.New("invalid future handle")

	// ErrDependencyFailed marks futures that were failed without execution
	// because one of their task's dependencies failed. The original failure
	// is wrapped alongside it and reachable via errors.Is/As.
	ErrDependencyFailed = errors.New("dependency failed")
)
