// Package socketio provides a remote request/response payload over
// Socket.IO: connect, emit one event, wait for the response event, return
// its data. It turns an external service round-trip into an ordinary task
// whose result other tasks can depend on.
package socketio

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/engine"
	"github.com/vk/taskgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

const defaultTimeout = 10 * time.Second

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

// onRunRequest is the handler for the 'socketio_request' payload.
//
// Arguments, in order: url, emit_event, on_event, emit_data, and an
// optional timeout duration string (default 10s).
func onRunRequest(ctx context.Context, args []any) (any, error) {
	rawURL, err := engine.ArgString(args, 0)
	if err != nil {
		return nil, err
	}
	emitEvent, err := engine.ArgString(args, 1)
	if err != nil {
		return nil, err
	}
	onEvent, err := engine.ArgString(args, 2)
	if err != nil {
		return nil, err
	}
	emitData, err := engine.ArgValue(args, 3)
	if err != nil {
		return nil, err
	}
	timeout := defaultTimeout
	if len(args) > 4 {
		if timeout, err = engine.ArgDuration(args, 4); err != nil {
			return nil, err
		}
	}

	logger := ctxlog.FromContext(ctx).With("payload", "socketio_request", "url", rawURL, "emitEvent", emitEvent, "onEvent", onEvent)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected.", "sid", io.Id())
		io.Emit(emitEvent, emitData)
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if e, ok := errs[0].(error); ok {
			done <- opResult{err: e}
			return
		}
		done <- opResult{err: fmt.Errorf("connect_error: %v", errs[0])}
	})

	io.On(types.EventName(onEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		done <- opResult{value: responseData}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", onEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

// Register registers the payload with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPayload(engine.NewPayload("socketio_request", onRunRequest))
}
