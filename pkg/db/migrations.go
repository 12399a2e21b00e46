package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const migrationsLogPrefix = "db:migrations"

// Migration is one schema file. Files apply in Name order and must be
// idempotent, since Migrate replays all of them.
type Migration struct {
	Name string
	SQL  string
}

// SchemaStatus is what `bridge migrate status` reports.
type SchemaStatus struct {
	Applied    bool
	Migrations []string
}

// LoadMigrations returns the .sql files in dir ordered by name.
func LoadMigrations(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s - read %s: %w", migrationsLogPrefix, dir, err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s - read %s: %w", migrationsLogPrefix, e.Name(), err)
		}
		out = append(out, Migration{Name: e.Name(), SQL: string(data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Migrate loads the migrations in dir and applies them in order.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir string) (int, error) {
	migrations, err := LoadMigrations(dir)
	if err != nil {
		return 0, err
	}
	for _, m := range migrations {
		slog.Debug(fmt.Sprintf("%s - Applying %s", migrationsLogPrefix, m.Name))
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return 0, fmt.Errorf("%s - apply %s: %w", migrationsLogPrefix, m.Name, err)
		}
	}
	slog.Info(fmt.Sprintf("%s - Applied %d migrations from %s", migrationsLogPrefix, len(migrations), dir))
	return len(migrations), nil
}

// Status checks for the catalog schema and lists the migrations in dir.
func Status(ctx context.Context, pool *pgxpool.Pool, dir string) (SchemaStatus, error) {
	var st SchemaStatus
	err := pool.QueryRow(ctx,
		`SELECT to_regclass('public.bridge_sessions') IS NOT NULL`).Scan(&st.Applied)
	if err != nil {
		return st, fmt.Errorf("%s - check schema: %w", migrationsLogPrefix, err)
	}
	migrations, err := LoadMigrations(dir)
	if err != nil {
		return st, err
	}
	for _, m := range migrations {
		st.Migrations = append(st.Migrations, m.Name)
	}
	return st, nil
}
