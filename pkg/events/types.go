// Package events defines discovery events and the publishers that deliver
// them.
package events

import "github.com/morezero/capabilities-bridge/pkg/surface"

// DiscoveredEvent is emitted once a driver session has discovered a target's
// capability surface.
type DiscoveredEvent struct {
	SessionID string           `json:"sessionId"`
	Target    string           `json:"target"`
	Commands  int              `json:"commands"`
	Counts    map[string]int   `json:"counts"`
	Mapping   *surface.Mapping `json:"mapping,omitempty"`
	Timestamp string           `json:"timestamp"`
}
