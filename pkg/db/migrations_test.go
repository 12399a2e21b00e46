package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsTestPrefix = "db:migrations_test"

func TestLoadMigrations_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"0002_commands.sql": "SECOND",
		"0001_sessions.sql": "FIRST",
		"notes.md":          "ignored",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("%s - write %s: %v", migrationsTestPrefix, name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o755); err != nil {
		t.Fatalf("%s - mkdir: %v", migrationsTestPrefix, err)
	}

	got, err := LoadMigrations(dir)
	if err != nil {
		t.Fatalf("%s - unexpected error: %v", migrationsTestPrefix, err)
	}
	if len(got) != 2 {
		t.Fatalf("%s - expected 2 migrations, got %d", migrationsTestPrefix, len(got))
	}
	if got[0].Name != "0001_sessions.sql" || got[0].SQL != "FIRST" || got[1].SQL != "SECOND" {
		t.Errorf("%s - got %+v", migrationsTestPrefix, got)
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	if _, err := LoadMigrations(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("%s - expected error for missing directory", migrationsTestPrefix)
	}
}

// Migrate replays every file on each run, so the shipped schema must be
// idempotent.
func TestShippedMigrations_Idempotent(t *testing.T) {
	got, err := LoadMigrations(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("%s - unexpected error: %v", migrationsTestPrefix, err)
	}
	if len(got) == 0 {
		t.Fatalf("%s - expected at least one migration", migrationsTestPrefix)
	}
	var all strings.Builder
	for _, m := range got {
		all.WriteString(m.SQL)
	}
	for _, table := range []string{"bridge_sessions", "bridge_commands"} {
		if !strings.Contains(all.String(), "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("%s - %s is not created idempotently", migrationsTestPrefix, table)
		}
	}
}
