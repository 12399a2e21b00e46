package db

import "time"

// SessionRecord represents a row in the bridge_sessions table.
type SessionRecord struct {
	ID           string    `json:"id"`
	Target       string    `json:"target"`
	CommandCount int       `json:"command_count"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// CommandRecord represents a row in the bridge_commands table.
type CommandRecord struct {
	SessionID string `json:"session_id"`
	CommandID string `json:"command_id"`
	Category  string `json:"category"`
	Namespace string `json:"namespace,omitempty"`
	Member    string `json:"member"`
}
