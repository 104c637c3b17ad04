// Package engine implements a futures-based task scheduler: callers submit
// payload invocations whose arguments may reference the not-yet-computed
// results of earlier submissions, and the engine executes each task on a
// bounded worker pool once every referenced result has resolved.
//
// Submission never blocks. The only blocking operations are Get and GetMany,
// which suspend the caller until the awaited futures reach a terminal state.
// A future resolves exactly once; resolving it a second time is a scheduler
// invariant violation and panics rather than being silently ignored.
package engine
