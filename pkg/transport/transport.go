// Package transport provides the driver's "run in target" primitive.
package transport

import (
	"context"

	"github.com/morezero/capabilities-bridge/pkg/protocol"
)

// Transport runs one procedure inside the target process and returns its raw
// response envelope. A returned error is a transport failure; failures
// reported by the target come back inside the envelope.
type Transport interface {
	Execute(ctx context.Context, req *protocol.ExecuteRequest) (*protocol.Envelope, error)
}

// Func adapts an ordinary function to the Transport interface.
type Func func(ctx context.Context, req *protocol.ExecuteRequest) (*protocol.Envelope, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, req *protocol.ExecuteRequest) (*protocol.Envelope, error) {
	return f(ctx, req)
}
