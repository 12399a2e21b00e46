// Package session ties discovery, command registration and the proxy trees
// into the driver-facing session object.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nuid"

	"github.com/morezero/capabilities-bridge/pkg/commands"
	"github.com/morezero/capabilities-bridge/pkg/events"
	"github.com/morezero/capabilities-bridge/pkg/promise"
	"github.com/morezero/capabilities-bridge/pkg/protocol"
	"github.com/morezero/capabilities-bridge/pkg/proxy"
	"github.com/morezero/capabilities-bridge/pkg/surface"
	"github.com/morezero/capabilities-bridge/pkg/transport"
)

const logPrefix = "session:session"

// ErrNotInitialized is returned by operations that need a discovered surface.
var ErrNotInitialized = errors.New("session not initialized")

// Session owns one target's discovered mapping, its command registry and the
// public proxy trees built from them.
type Session struct {
	id        string
	target    string
	registry  *commands.Registry
	publisher events.EventPublisher

	mu      sync.RWMutex
	mapping *surface.Mapping
	trees   proxy.Trees
}

// NewSessionParams holds parameters for New.
type NewSessionParams struct {
	// ID identifies the session in events and the catalog; generated when empty.
	ID        string
	Target    string
	Transport transport.Transport
	Publisher events.EventPublisher
}

// New creates a session. Call Initialize before using the trees.
func New(params NewSessionParams) *Session {
	id := params.ID
	if id == "" {
		id = nuid.Next()
	}
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}
	return &Session{
		id:        id,
		target:    params.Target,
		registry:  commands.NewRegistry(params.Transport),
		publisher: pub,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Target returns the name of the target the session drives.
func (s *Session) Target() string { return s.target }

// Commands returns the session's command registry.
func (s *Session) Commands() *commands.Registry { return s.registry }

// Initialize discovers the target surface in one round trip, registers a
// command per identifier and builds the public trees.
func (s *Session) Initialize(ctx context.Context) error {
	m, err := s.Load(ctx)
	if err != nil {
		return err
	}
	trees := proxy.Build(s.registry, m)

	s.mu.Lock()
	s.mapping = m
	s.trees = trees
	s.mu.Unlock()

	ids := m.CommandIDs()
	slog.Info(fmt.Sprintf("%s - session %s discovered %d commands on %s", logPrefix, s.id, len(ids), s.target))

	counts := map[string]int{}
	for c, n := range m.Count() {
		counts[c.String()] = n
	}
	event := &events.DiscoveredEvent{
		SessionID: s.id,
		Target:    s.target,
		Commands:  len(ids),
		Counts:    counts,
		Mapping:   m,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishDiscovered(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish discovery: %v", logPrefix, err))
	}
	return nil
}

// Load runs the enumerator inside the target and returns the unwrapped
// mapping without registering anything.
func (s *Session) Load(ctx context.Context) (*surface.Mapping, error) {
	raw, err := s.registry.Execute(ctx, protocol.ProcedureDiscover, nil)
	if err != nil {
		return nil, fmt.Errorf("%s - discovery failed: %w", logPrefix, err)
	}
	m := surface.NewMapping()
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("%s - failed to decode discovered mapping: %w", logPrefix, err)
	}
	return m, nil
}

// Mapping returns the discovered mapping, or nil before Initialize.
func (s *Session) Mapping() *surface.Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapping
}

// Trees returns the public proxy trees.
func (s *Session) Trees() proxy.Trees {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trees
}

// Electron is the local-surface tree; its "remote" child is the
// remote-surface tree.
func (s *Session) Electron() *proxy.Node { return s.Trees().Electron }

// BrowserWindow is the current-window tree.
func (s *Session) BrowserWindow() *proxy.Node { return s.Trees().BrowserWindow }

// WebContents is the current-content tree.
func (s *Session) WebContents() *proxy.Node { return s.Trees().WebContents }

// RendererProcess is the target's process-info tree.
func (s *Session) RendererProcess() *proxy.Node { return s.Trees().RendererProcess }

// MainProcess aliases Electron().Child("remote").Child("process").
func (s *Session) MainProcess() *proxy.Node { return s.Trees().MainProcess }

// Call invokes a discovered command by identifier and decodes its result.
func (s *Session) Call(ctx context.Context, commandID string, args ...any) (any, error) {
	if s.Mapping() == nil {
		return nil, fmt.Errorf("%s - %w", logPrefix, ErrNotInitialized)
	}
	raw, err := s.registry.Call(ctx, commandID, args...)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s - failed to decode result of %s: %w", logPrefix, commandID, err)
	}
	return out, nil
}

// Go runs fn asynchronously and returns a handle carrying the session trees.
func (s *Session) Go(ctx context.Context, fn func(ctx context.Context) (any, error)) *proxy.Handle {
	return proxy.NewHandle(promise.Go(ctx, fn), s.Trees())
}

// TransferPromiseness makes target settle with source and rebuilds the
// public trees of source on target.
func (s *Session) TransferPromiseness(target, source *proxy.Handle) {
	proxy.TransferPromiseness(target, source)
}
