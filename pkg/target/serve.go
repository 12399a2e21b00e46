package target

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/capabilities-bridge/pkg/commsutil"
	"github.com/morezero/capabilities-bridge/pkg/protocol"
)

const serveLogPrefix = "target:serve"

// Serve subscribes the dispatcher to subject. Each request runs with its own
// timeout derived from ctx; the subscription lives until it is unsubscribed
// or the connection drains.
func Serve(ctx context.Context, nc *comms.Conn, subject string, d *Dispatcher, requestTimeout time.Duration) (*comms.Subscription, error) {
	sub, err := nc.Subscribe(subject, func(msg *comms.Msg) {
		var req protocol.ExecuteRequest
		if err := commsutil.DecodePayload(msg.Data, &req); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode request: %v", serveLogPrefix, err))
			respond(msg, protocol.Failure("", protocol.CodeInvalidRequest, "Failed to decode request", false))
			return
		}

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		respond(msg, d.Dispatch(reqCtx, &req))
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", serveLogPrefix, subject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", serveLogPrefix, subject))
	return sub, nil
}

func respond(msg *comms.Msg, env *protocol.Envelope) {
	data, err := commsutil.EncodePayload(env)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - failed to encode response: %v", serveLogPrefix, err))
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to respond: %v", serveLogPrefix, err))
	}
}
