// Package commands implements the driver-side command table: one handler per
// command identifier, each run with a call context that can reach the target.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/morezero/capabilities-bridge/pkg/protocol"
	"github.com/morezero/capabilities-bridge/pkg/transport"
)

const logPrefix = "commands:registry"

// ErrUnknownCommand is returned when calling an identifier with no handler.
var ErrUnknownCommand = errors.New("unknown command")

// Handler runs one command. Its result is the raw, already unwrapped value.
type Handler func(cc *CallContext, args []any) (json.RawMessage, error)

// CallContext is what a Handler runs bound to: the caller's context, the
// target transport and the registry of registered commands.
type CallContext struct {
	context.Context
	Command  string
	registry *Registry
}

// Execute runs a procedure in the target and unwraps the response envelope.
func (cc *CallContext) Execute(procedure string, params interface{}) (json.RawMessage, error) {
	return cc.registry.Execute(cc, procedure, params)
}

// Registry returns the registry the handler was registered in.
func (cc *CallContext) Registry() *Registry {
	return cc.registry
}

// Registry maps command identifiers to handlers.
type Registry struct {
	transport transport.Transport

	mu       sync.RWMutex
	handlers map[string]Handler

	seq atomic.Uint64
}

// NewRegistry creates an empty Registry that executes through t.
func NewRegistry(t transport.Transport) *Registry {
	return &Registry{transport: t, handlers: map[string]Handler{}}
}

// Add registers a handler. Adding an identifier again replaces the previous
// handler.
func (r *Registry) Add(id string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[id]; ok {
		slog.Debug(fmt.Sprintf("%s - replacing handler for %s", logPrefix, id))
	}
	r.handlers[id] = h
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id]
	return ok
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Call runs the handler registered for id.
func (r *Registry) Call(ctx context.Context, id string, args ...any) (json.RawMessage, error) {
	r.mu.RLock()
	h, ok := r.handlers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s - %w: %s", logPrefix, ErrUnknownCommand, id)
	}
	if args == nil {
		args = []any{}
	}
	return h(&CallContext{Context: ctx, Command: id, registry: r}, args)
}

// Execute runs a procedure in the target and unwraps the {value} envelope.
// Target-side failures surface as *protocol.RemoteError; transport failures
// are returned unchanged.
func (r *Registry) Execute(ctx context.Context, procedure string, params interface{}) (json.RawMessage, error) {
	id := strconv.FormatUint(r.seq.Add(1), 10)
	req, err := protocol.NewRequest(id, procedure, params)
	if err != nil {
		return nil, err
	}
	env, err := r.transport.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return env.Unwrap()
}

// CallHandler returns the handler used for every discovered member: it
// forwards the arguments to the category's dispatcher entry point, tagged
// with the namespace and member to re-resolve.
func CallHandler(procedure, namespace, member string) Handler {
	return func(cc *CallContext, args []any) (json.RawMessage, error) {
		return cc.Execute(procedure, protocol.CallParams{
			Namespace: namespace,
			Member:    member,
			Args:      args,
		})
	}
}
