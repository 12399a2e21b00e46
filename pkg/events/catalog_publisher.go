package events

import (
	"context"
	"fmt"

	"github.com/morezero/capabilities-bridge/pkg/db"
)

// CatalogStore persists discovered mappings.
type CatalogStore interface {
	SaveDiscovery(ctx context.Context, params db.SaveDiscoveryParams) error
}

// CatalogPublisher records every discovery in the catalog database.
type CatalogPublisher struct {
	store CatalogStore
}

// NewCatalogPublisher creates a CatalogPublisher over store.
func NewCatalogPublisher(store CatalogStore) *CatalogPublisher {
	return &CatalogPublisher{store: store}
}

// PublishDiscovered saves the event's mapping. Events without a mapping are
// rejected.
func (p *CatalogPublisher) PublishDiscovered(ctx context.Context, event *DiscoveredEvent) error {
	if event.Mapping == nil {
		return fmt.Errorf("events:catalog_publisher - discovery of %s carries no mapping", event.Target)
	}
	return p.store.SaveDiscovery(ctx, db.SaveDiscoveryParams{
		SessionID: event.SessionID,
		Target:    event.Target,
		Mapping:   event.Mapping,
	})
}
