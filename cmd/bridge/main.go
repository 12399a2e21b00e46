// Package main is the entrypoint for the capabilities bridge: it runs a target
// host or drives one over COMMS.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morezero/capabilities-bridge/internal/config"
	"github.com/morezero/capabilities-bridge/internal/server"
	"github.com/morezero/capabilities-bridge/pkg/db"
)

const usage = `Usage: bridge [command]
       bridge serve                   Run the demo target host (COMMS execute subject, HTTP health).
       bridge discover                Discover a target and print its mapping.
       bridge call <command> [args]   Discover a target and call one command; args are JSON or plain strings.
       bridge demo                    Run an embedded COMMS server, a demo target and a driver against it.
       bridge migrate up              Run catalog database migrations.
       bridge migrate status          Show migration status.
       bridge catalog [target]        Print the latest recorded discovery of a target.
       bridge clear                   Truncate the discovery catalog; schema is preserved.

Commands:
  serve           (default) Start the target host.
  discover        Print the discovered mapping of BRIDGE_TARGET.
  call            Call a command identifier such as electron.dialog.showMessageBox.
  demo            Self-contained walkthrough; needs no external services.
  migrate up      Run database migrations only.
  migrate status  Show current migration status.
  catalog         Show commands of the latest discovery (default target: BRIDGE_TARGET).
  clear           Truncate catalog data.

Environment: COMMS_URL, BRIDGE_TARGET, BRIDGE_EXECUTE_SUBJECT, BRIDGE_REQUEST_TIMEOUT,
DATABASE_URL (catalog; optional for discover/call), MIGRATION_PATH, HTTP_PORT, LOG_LEVEL.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "discover":
		if err := runDiscover(); err != nil {
			log.Fatalf("bridge discover: %v", err)
		}
		return
	case "call":
		if len(args) < 2 {
			log.Fatalf("bridge call: require a command identifier")
		}
		if err := runCall(args[1], args[2:]); err != nil {
			log.Fatalf("bridge call: %v", err)
		}
		return
	case "demo":
		if err := runDemo(); err != nil {
			log.Fatalf("bridge demo: %v", err)
		}
		return
	case "migrate":
		if len(args) < 2 {
			log.Fatalf("bridge migrate: require subcommand (up, status)")
		}
		sub := args[1]
		switch sub {
		case "up":
			if err := runMigrateUp(); err != nil {
				log.Fatalf("bridge migrate up: %v", err)
			}
		case "status":
			if err := runMigrateStatus(); err != nil {
				log.Fatalf("bridge migrate status: %v", err)
			}
		default:
			log.Fatalf("bridge migrate: unknown subcommand %q (use up, status)", sub)
		}
		return
	case "catalog":
		target := ""
		if len(args) > 1 {
			target = args[1]
		}
		if err := runCatalog(target); err != nil {
			log.Fatalf("bridge catalog: %v", err)
		}
		return
	case "clear":
		if err := runClear(); err != nil {
			log.Fatalf("bridge clear: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
		break
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("bridge: %v", err)
	}
}

// loadConfig loads config and installs the logger for driver-side commands.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	server.SetupLogging(cfg.LogLevel)
	return cfg, nil
}

// withCatalog opens the catalog database for one command.
func withCatalog(fn func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer pool.Close()
	return fn(ctx, cfg, pool)
}

func runMigrateUp() error {
	return withCatalog(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
		n, err := db.Migrate(ctx, pool, cfg.MigrationPath)
		if err != nil {
			return err
		}
		fmt.Printf("Applied %d migrations from %s\n", n, cfg.MigrationPath)
		return nil
	})
}

func runMigrateStatus() error {
	return withCatalog(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
		st, err := db.Status(ctx, pool, cfg.MigrationPath)
		if err != nil {
			return err
		}
		state := "not applied (run 'bridge migrate up')"
		if st.Applied {
			state = "applied"
		}
		fmt.Printf("Catalog schema: %s\n", state)
		for _, name := range st.Migrations {
			fmt.Printf("  %s\n", name)
		}
		return nil
	})
}

func runCatalog(target string) error {
	return withCatalog(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
		if target == "" {
			target = cfg.Target
		}
		repo := db.NewRepository(pool)
		sess, err := repo.LatestSession(ctx, target)
		if err != nil {
			return err
		}
		if sess == nil {
			fmt.Printf("No discovery recorded for %q.\n", target)
			return nil
		}
		cmds, err := repo.ListCommands(ctx, sess.ID)
		if err != nil {
			return err
		}
		return printCatalog(os.Stdout, sess, cmds)
	})
}

func runClear() error {
	return withCatalog(func(ctx context.Context, _ *config.Config, pool *pgxpool.Pool) error {
		return db.ClearCatalog(ctx, pool)
	})
}
