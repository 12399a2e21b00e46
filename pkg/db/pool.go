// Package db provides the optional discovery catalog stored in PostgreSQL via pgx.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const logPrefix = "db:pool"

// NewPool opens a small pgx pool and pings it. The catalog sees one write
// per discovery.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s - parse database URL: %w", logPrefix, err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s - create pool: %w", logPrefix, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s - ping %s: %w", logPrefix, cfg.ConnConfig.Host, err)
	}

	slog.Info(fmt.Sprintf("%s - Catalog database at %s:%d", logPrefix, cfg.ConnConfig.Host, cfg.ConnConfig.Port))
	return pool, nil
}
