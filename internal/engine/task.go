package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// task is one deferred payload invocation. Its id is the handle of the
// future it produces; it executes at most once, when unresolved reaches
// zero.
type task struct {
	handle  Handle
	payload *Payload
	args    []any

	// unresolved counts Pending future arguments plus one registration
	// token, so resolutions arriving while registration is still scanning
	// the argument list cannot release the task early.
	unresolved atomic.Int32

	depMu  sync.Mutex
	depErr error
}

// poison records the first dependency failure. A poisoned task is failed
// without execution once its remaining dependencies settle.
func (t *task) poison(err error) {
	t.depMu.Lock()
	if t.depErr == nil {
		t.depErr = err
	}
	t.depMu.Unlock()
}

// poisonedBy returns the recorded dependency failure, if any.
func (t *task) poisonedBy() error {
	t.depMu.Lock()
	defer t.depMu.Unlock()
	return t.depErr
}

// invoke runs the payload, converting a panic into a task failure so a
// misbehaving payload cannot take down the worker executing it.
func (t *task) invoke(ctx context.Context, args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("payload '%s' panicked: %v", t.payload.Name(), r)
		}
	}()
	return t.payload.fn(ctx, args)
}
