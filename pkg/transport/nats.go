package transport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/capabilities-bridge/pkg/commsutil"
	"github.com/morezero/capabilities-bridge/pkg/protocol"
)

const natsLogPrefix = "transport:nats"

// NATS executes requests over NATS request/reply against a target's execute
// subject.
type NATS struct {
	nc      *comms.Conn
	subject string
	timeout time.Duration
}

// NewNATS creates a NATS transport. A non-positive timeout leaves the round
// trip bounded only by the caller's context.
func NewNATS(nc *comms.Conn, subject string, timeout time.Duration) *NATS {
	return &NATS{nc: nc, subject: subject, timeout: timeout}
}

// Subject returns the execute subject this transport targets.
func (n *NATS) Subject() string {
	return n.subject
}

// Execute implements Transport.
func (n *NATS) Execute(ctx context.Context, req *protocol.ExecuteRequest) (*protocol.Envelope, error) {
	data, err := commsutil.EncodePayload(req)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode request: %w", natsLogPrefix, err)
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	slog.Debug(fmt.Sprintf("%s - request subject=%s procedure=%s id=%s", natsLogPrefix, n.subject, req.Procedure, req.ID))
	msg, err := n.nc.RequestWithContext(ctx, n.subject, data)
	if err != nil {
		return nil, fmt.Errorf("%s - %s request failed: %w", natsLogPrefix, req.Procedure, err)
	}

	var env protocol.Envelope
	if err := commsutil.DecodePayload(msg.Data, &env); err != nil {
		return nil, fmt.Errorf("%s - failed to decode response: %w", natsLogPrefix, err)
	}
	return &env, nil
}
