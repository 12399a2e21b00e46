package target

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/morezero/capabilities-bridge/pkg/protocol"
)

// Loopback executes requests against an in-process Dispatcher. Requests and
// responses still go through JSON so values behave as they would over NATS.
type Loopback struct {
	disp *Dispatcher
}

// NewLoopback creates a Loopback transport for the given dispatcher.
func NewLoopback(d *Dispatcher) *Loopback {
	return &Loopback{disp: d}
}

// Execute implements transport.Transport.
func (l *Loopback) Execute(ctx context.Context, req *protocol.ExecuteRequest) (*protocol.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("target:loopback - failed to encode request: %w", err)
	}
	var decoded protocol.ExecuteRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("target:loopback - failed to decode request: %w", err)
	}

	resp := l.disp.Dispatch(ctx, &decoded)

	data, err = json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("target:loopback - failed to encode response: %w", err)
	}
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("target:loopback - failed to decode response: %w", err)
	}
	return &env, nil
}
