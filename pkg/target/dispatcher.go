package target

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/morezero/capabilities-bridge/pkg/protocol"
	"github.com/morezero/capabilities-bridge/pkg/surface"
)

const logPrefix = "target:dispatcher"

// Dispatcher routes execute requests to the enumerator or to a live member of
// the host.
type Dispatcher struct {
	host *Host
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(h *Host) *Dispatcher {
	if h == nil {
		h = &Host{}
	}
	return &Dispatcher{host: h}
}

// Dispatch runs one procedure and returns its response envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, req *protocol.ExecuteRequest) *protocol.Envelope {
	slog.Debug(fmt.Sprintf("%s - procedure=%s id=%s", logPrefix, req.Procedure, req.ID))

	if req.Procedure == protocol.ProcedureDiscover {
		return protocol.Success(req.ID, Discover(d.host))
	}
	c, ok := surface.CategoryForProcedure(req.Procedure)
	if !ok {
		return protocol.Failure(req.ID, protocol.CodeProcedureNotFound, fmt.Sprintf("Unknown procedure: %s", req.Procedure), false)
	}

	var params protocol.CallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return protocol.Failure(req.ID, protocol.CodeInvalidArgument, fmt.Sprintf("Failed to parse %s params", req.Procedure), false)
	}
	if params.Member == "" || (c.Namespaced() && params.Namespace == "") {
		return protocol.Failure(req.ID, protocol.CodeInvalidArgument, fmt.Sprintf("%s requires a member", req.Procedure), false)
	}

	value, err := d.resolve(c, params.Namespace, params.Member)
	if err != nil {
		return errorToEnvelope(req.ID, err)
	}
	result, err := invoke(ctx, value, params.Args)
	if err != nil {
		return errorToEnvelope(req.ID, err)
	}
	return protocol.Success(req.ID, result)
}

// resolve re-looks-up the live member, mirroring the enumeration rules.
func (d *Dispatcher) resolve(c surface.Category, ns, member string) (any, error) {
	var obj Object
	switch c {
	case surface.Local:
		obj = d.namespace(d.host.Primary, ns, ns == "remote" || ignoredModules[ns])
	case surface.Remote:
		if ns == hostProcessNamespace {
			obj = d.host.HostProcess
			break
		}
		obj = d.namespace(d.host.Privileged, ns, ignoredModules[ns])
	case surface.Window:
		if obj = d.host.window(); obj == nil {
			return nil, protocol.NewRemoteError(protocol.CodeNamespaceNotFound, "No current window")
		}
	case surface.Content:
		if obj = d.host.content(); obj == nil {
			return nil, protocol.NewRemoteError(protocol.CodeNamespaceNotFound, "No current web contents")
		}
	case surface.Process:
		obj = d.host.Process
	}
	if obj == nil {
		return nil, protocol.NewRemoteError(protocol.CodeNamespaceNotFound, fmt.Sprintf("Namespace not found: %s", namespacePath(c, ns)))
	}

	if c != surface.Window && c != surface.Content && hidden(member) {
		return nil, memberNotFound(c, ns, member)
	}
	v, ok := obj.Get(member)
	if !ok {
		return nil, memberNotFound(c, ns, member)
	}
	return v, nil
}

func (d *Dispatcher) namespace(parent Object, ns string, ignored bool) Object {
	if parent == nil || ignored {
		return nil
	}
	v, ok := parent.Get(ns)
	if !ok {
		return nil
	}
	obj, _ := v.(Object)
	return obj
}

// invoke calls a Func with the forwarded arguments or returns a plain value
// as-is.
func invoke(ctx context.Context, value any, args []any) (result any, err error) {
	fn, ok := asFunc(value)
	if !ok {
		return value, nil
	}
	if args == nil {
		args = []any{}
	}
	defer func() {
		if r := recover(); r != nil {
			err = protocol.NewRemoteError(protocol.CodeInvocationFailed, fmt.Sprintf("panic: %v", r))
		}
	}()
	result, err = fn(ctx, args)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func memberNotFound(c surface.Category, ns, member string) error {
	return protocol.NewRemoteError(protocol.CodeMemberNotFound, fmt.Sprintf("Member not found: %s", surface.CommandID(c, ns, member)))
}

func namespacePath(c surface.Category, ns string) string {
	if c.Namespaced() {
		return c.Prefix() + "." + ns
	}
	return c.Prefix()
}

// --- helpers ---

func errorToEnvelope(id string, err error) *protocol.Envelope {
	if re, ok := err.(*protocol.RemoteError); ok {
		return &protocol.Envelope{
			ID: id,
			Ok: false,
			Error: &protocol.ErrorDetail{
				Code:      re.Code,
				Message:   re.Message,
				Details:   re.Details,
				Retryable: re.Code == protocol.CodeInternalError,
			},
		}
	}
	return protocol.Failure(id, protocol.CodeInvocationFailed, err.Error(), false)
}
