package events

import (
	"context"
	"errors"
)

// EventPublisher is the interface for publishing discovery events.
type EventPublisher interface {
	PublishDiscovered(ctx context.Context, event *DiscoveredEvent) error
}

// NoOpPublisher is an EventPublisher that does nothing (for in-process usage without events).
type NoOpPublisher struct{}

// PublishDiscovered is a no-op.
func (p *NoOpPublisher) PublishDiscovered(_ context.Context, _ *DiscoveredEvent) error {
	return nil
}

// CallbackPublisher is an EventPublisher that calls a callback function (for testing).
type CallbackPublisher struct {
	callback func(ctx context.Context, event *DiscoveredEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, event *DiscoveredEvent) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

// PublishDiscovered calls the callback.
func (p *CallbackPublisher) PublishDiscovered(ctx context.Context, event *DiscoveredEvent) error {
	return p.callback(ctx, event)
}

// MultiPublisher fans an event out to every publisher, joining their errors.
type MultiPublisher []EventPublisher

// PublishDiscovered publishes to every non-nil publisher.
func (m MultiPublisher) PublishDiscovered(ctx context.Context, event *DiscoveredEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.PublishDiscovered(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
