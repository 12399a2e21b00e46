package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/morezero/capabilities-bridge/internal/config"
	"github.com/morezero/capabilities-bridge/pkg/commsutil"
	"github.com/morezero/capabilities-bridge/pkg/db"
	"github.com/morezero/capabilities-bridge/pkg/events"
	"github.com/morezero/capabilities-bridge/pkg/session"
	"github.com/morezero/capabilities-bridge/pkg/surface"
	"github.com/morezero/capabilities-bridge/pkg/transport"
)

const logPrefix = "cmd/bridge:driver"

// driver is an initialized session plus the connections backing it.
type driver struct {
	nc      *comms.Conn
	pool    *pgxpool.Pool
	session *session.Session
}

// openDriver connects to COMMS (and the catalog when configured) and runs
// discovery against cfg's target.
func openDriver(ctx context.Context, cfg *config.Config) (*driver, error) {
	if err := cfg.ValidateForDriver(); err != nil {
		return nil, err
	}

	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return nil, err
	}
	d := &driver{nc: nc}

	publishers := events.MultiPublisher{
		events.NewCommsPublisher(nc, &events.CommsPublisherOpts{GlobalSubject: cfg.EventsSubject}),
	}
	if cfg.CatalogEnabled() {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect database: %w", err)
		}
		d.pool = pool
		if cfg.RunMigrations {
			if _, err := db.Migrate(ctx, pool, cfg.MigrationPath); err != nil {
				d.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		publishers = append(publishers, events.NewCatalogPublisher(db.NewRepository(pool)))
	}

	d.session = session.New(session.NewSessionParams{
		Target:    cfg.Target,
		Transport: transport.NewNATS(nc, cfg.Subject(), cfg.RequestTimeout),
		Publisher: publishers,
	})

	discoverCtx, cancel := context.WithTimeout(ctx, cfg.DiscoveryTimeout)
	defer cancel()
	if err := d.session.Initialize(discoverCtx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the driver's connections.
func (d *driver) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.nc != nil {
		if err := d.nc.Drain(); err != nil {
			slog.Warn(fmt.Sprintf("%s - drain failed: %v", logPrefix, err))
		}
	}
}

func runDiscover() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	d, err := openDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	return printJSON(os.Stdout, d.session.Mapping())
}

func runCall(commandID string, rawArgs []string) error {
	if _, err := surface.ParseCommandID(commandID); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	d, err := openDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.session.Call(ctx, commandID, parseArgs(rawArgs)...)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, result)
}

// parseArgs decodes each argument as JSON, falling back to the raw string.
func parseArgs(raw []string) []any {
	args := make([]any, 0, len(raw))
	for _, s := range raw {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			v = s
		}
		args = append(args, v)
	}
	return args
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCatalog(w io.Writer, sess *db.SessionRecord, cmds []db.CommandRecord) error {
	fmt.Fprintf(w, "Session %s (%s), %d commands, discovered %s\n",
		sess.ID, sess.Target, sess.CommandCount, sess.DiscoveredAt.UTC().Format("2006-01-02 15:04:05"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMMAND\tCATEGORY\tNAMESPACE\tMEMBER")
	for _, c := range cmds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.CommandID, c.Category, c.Namespace, c.Member)
	}
	return tw.Flush()
}
