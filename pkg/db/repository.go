package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morezero/capabilities-bridge/pkg/surface"
)

const repoLogPrefix = "db:repository"

// Repository provides database access for the discovery catalog.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveDiscoveryParams holds parameters for SaveDiscovery.
type SaveDiscoveryParams struct {
	SessionID string
	Target    string
	Mapping   *surface.Mapping
}

// CommandRecords flattens a mapping into catalog rows for a session.
func CommandRecords(sessionID string, m *surface.Mapping) []CommandRecord {
	descs := m.Descriptors()
	out := make([]CommandRecord, 0, len(descs))
	for _, d := range descs {
		out = append(out, CommandRecord{
			SessionID: sessionID,
			CommandID: d.CommandID(),
			Category:  d.Category.String(),
			Namespace: d.Namespace,
			Member:    d.Member,
		})
	}
	return out
}

// SaveDiscovery stores a session and its command identifiers in one
// transaction. Saving the same session again replaces its commands.
func (r *Repository) SaveDiscovery(ctx context.Context, params SaveDiscoveryParams) error {
	records := CommandRecords(params.SessionID, params.Mapping)
	slog.Info(fmt.Sprintf("%s - SaveDiscovery session=%s target=%s commands=%d", repoLogPrefix, params.SessionID, params.Target, len(records)))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s - begin failed: %w", repoLogPrefix, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO bridge_sessions (id, target, command_count, discovered_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   target = EXCLUDED.target,
		   command_count = EXCLUDED.command_count,
		   discovered_at = EXCLUDED.discovered_at`,
		params.SessionID, params.Target, len(records), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s - insert session failed: %w", repoLogPrefix, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bridge_commands WHERE session_id = $1`, params.SessionID); err != nil {
		return fmt.Errorf("%s - delete commands failed: %w", repoLogPrefix, err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{rec.SessionID, rec.CommandID, rec.Category, rec.Namespace, rec.Member}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"bridge_commands"},
		[]string{"session_id", "command_id", "category", "namespace", "member"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("%s - copy commands failed: %w", repoLogPrefix, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s - commit failed: %w", repoLogPrefix, err)
	}
	return nil
}

// LatestSession returns the most recent discovery of target, or nil if none.
func (r *Repository) LatestSession(ctx context.Context, target string) (*SessionRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, target, command_count, discovered_at
		 FROM bridge_sessions
		 WHERE target = $1
		 ORDER BY discovered_at DESC
		 LIMIT 1`, target)

	var s SessionRecord
	err := row.Scan(&s.ID, &s.Target, &s.CommandCount, &s.DiscoveredAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s - scan session failed: %w", repoLogPrefix, err)
	}
	return &s, nil
}

// ListCommands returns a session's command identifiers, sorted.
func (r *Repository) ListCommands(ctx context.Context, sessionID string) ([]CommandRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id, command_id, category, namespace, member
		 FROM bridge_commands
		 WHERE session_id = $1
		 ORDER BY command_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s - list commands failed: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var out []CommandRecord
	for rows.Next() {
		var c CommandRecord
		if err := rows.Scan(&c.SessionID, &c.CommandID, &c.Category, &c.Namespace, &c.Member); err != nil {
			return nil, fmt.Errorf("%s - scan command failed: %w", repoLogPrefix, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
