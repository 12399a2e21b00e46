package events

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/capabilities-bridge/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use defaults.
type CommsPublisherOpts struct {
	// GlobalSubject overrides the global discovery subject (e.g. from BRIDGE_EVENTS_SUBJECT).
	GlobalSubject string
	// IncludeMapping publishes the full mapping instead of counts only.
	IncludeMapping bool
}

// CommsPublisher publishes discovery events to COMMS subjects.
type CommsPublisher struct {
	nc             *comms.Conn
	globalSubject  string
	includeMapping bool
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use defaults.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	p := &CommsPublisher{nc: nc, globalSubject: commsutil.SubjectDiscovered}
	if opts != nil {
		if opts.GlobalSubject != "" {
			p.globalSubject = opts.GlobalSubject
		}
		p.includeMapping = opts.IncludeMapping
	}
	return p
}

// PublishDiscovered publishes a DiscoveredEvent to both the per-target and
// global subjects.
func (p *CommsPublisher) PublishDiscovered(_ context.Context, event *DiscoveredEvent) error {
	out := *event
	if !p.includeMapping {
		out.Mapping = nil
	}
	data, err := commsutil.EncodePayload(&out)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	targetSubject := commsutil.BuildDiscoveredSubject(event.Target)
	if err := p.nc.Publish(targetSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, targetSubject, err))
		return err
	}

	if err := p.nc.Publish(p.globalSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.globalSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published discovery of %s (%d commands)", commsPublisherLogPrefix, event.Target, event.Commands))
	return nil
}
