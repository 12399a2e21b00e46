// Package server runs a target host: the dispatcher subscribed to the execute
// subject, plus an HTTP endpoint for health and the currently enumerable
// surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/capabilities-bridge/internal/config"
	"github.com/morezero/capabilities-bridge/internal/demo"
	"github.com/morezero/capabilities-bridge/pkg/commsutil"
	"github.com/morezero/capabilities-bridge/pkg/surface"
	"github.com/morezero/capabilities-bridge/pkg/target"
)

const logPrefix = "server:server"

// Server is a running target host.
type Server struct {
	cfg        *config.Config
	host       *target.Host
	disp       *target.Dispatcher
	nc         *comms.Conn
	sub        *comms.Subscription
	httpServer *http.Server
	started    time.Time
}

// New creates a Server for host. Nothing is started until Start.
func New(cfg *config.Config, host *target.Host) *Server {
	return &Server{
		cfg:  cfg,
		host: host,
		disp: target.NewDispatcher(host),
	}
}

// SetupLogging installs the default slog logger for the given level name.
func SetupLogging(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

// Run starts the demo target host, blocks until shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	SetupLogging(cfg.LogLevel)
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Starting capabilities-bridge target %s", logPrefix, cfg.Target))

	profile, err := demo.LoadProfile()
	if err != nil {
		return fmt.Errorf("%s - failed to load demo profile: %w", logPrefix, err)
	}
	app := demo.New(profile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to COMMS: %w", logPrefix, err)
	}

	s := New(cfg, app.Host())
	if err := s.Start(ctx, nc); err != nil {
		nc.Close()
		return err
	}
	s.ListenHTTP()

	slog.Info(fmt.Sprintf("%s - Target host is ready", logPrefix))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	s.Shutdown(ctx)
	nc.Drain()

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// Start subscribes the dispatcher to the configured execute subject.
func (s *Server) Start(ctx context.Context, nc *comms.Conn) error {
	sub, err := target.Serve(ctx, nc, s.cfg.Subject(), s.disp, s.cfg.RequestTimeout)
	if err != nil {
		return err
	}
	s.nc = nc
	s.sub = sub
	s.started = time.Now()
	return nil
}

// ListenHTTP serves Handler on the configured port in the background.
func (s *Server) ListenHTTP() {
	httpAddr := fmt.Sprintf(":%d", s.cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: s.Handler()}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP health server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()
}

// Shutdown stops the subscription and the HTTP server. The connection is
// left to the caller.
func (s *Server) Shutdown(ctx context.Context) {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.HealthCheckTimeout)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler returns the HTTP mux of the target host.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/surface.json", s.handleSurfaceJSON)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})
	return mux
}

// HealthOutput is the body of /health.
type HealthOutput struct {
	Status    string          `json:"status"`
	Subject   string          `json:"subject"`
	Checks    map[string]bool `json:"checks"`
	Uptime    string          `json:"uptime,omitempty"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) health() *HealthOutput {
	connected := s.nc != nil && s.nc.IsConnected()
	subscribed := s.sub != nil && s.sub.IsValid()
	h := &HealthOutput{
		Status:    "healthy",
		Subject:   s.cfg.Subject(),
		Checks:    map[string]bool{"comms": connected, "subscription": subscribed},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if !connected || !subscribed {
		h.Status = "unhealthy"
	}
	if !s.started.IsZero() {
		h.Uptime = time.Since(s.started).Round(time.Second).String()
	}
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.health()
	w.Header().Set("Content-Type", "application/json")
	if h.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(h)
}

func (s *Server) handleSurfaceJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(target.Discover(s.host)); err != nil {
		slog.Error(fmt.Sprintf("%s - surface json encode: %v", logPrefix, err))
	}
}

// homePageTemplate is the HTML for the target host home page.
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Capabilities Bridge</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2, h3 { color: #0066cc; }
    .status-healthy { color: #0066cc; font-weight: bold; }
    .status-unhealthy { color: #cc0000; font-weight: bold; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .stat { font-weight: bold; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
  </style>
</head>
<body>
  <h1>Capabilities Bridge</h1>
  <p class="meta">Execute subject <code>{{.Health.Subject}}</code>. Raw mapping at <a href="/surface.json">/surface.json</a>.</p>

  <section>
    <h2>Health</h2>
    <p>Status: <span class="status-{{.Health.Status}}">{{.Health.Status}}</span></p>
    <p>Timestamp: {{.Health.Timestamp}}</p>
  </section>

  <section>
    <h2>Surface</h2>
    <p>{{range .Counts}}{{.Category}}: <span class="stat">{{.Count}}</span> {{end}}</p>
    {{if not .Commands}}
    <p>Nothing is currently enumerable.</p>
    {{else}}
    <table>
      <thead>
        <tr><th>Command</th><th>Category</th><th>Namespace</th><th>Member</th><th>Shape</th></tr>
      </thead>
      <tbody>
        {{range .Commands}}
        <tr>
          <td><code>{{.CommandID}}</code></td>
          <td>{{.Category}}</td>
          <td>{{.Namespace}}</td>
          <td>{{.Member}}</td>
          <td>{{.Shape}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
  </section>
</body>
</html>
`

type categoryCount struct {
	Category string
	Count    int
}

type homeData struct {
	Health   *HealthOutput
	Counts   []categoryCount
	Commands []surface.Descriptor
}

// handleHome returns an HTTP handler listing the host's current surface.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		descs := target.Enumerate(s.host)
		counts := map[surface.Category]int{}
		for _, d := range descs {
			counts[d.Category]++
		}
		data := homeData{Health: s.health(), Commands: descs}
		for _, c := range surface.Categories {
			data.Counts = append(data.Counts, categoryCount{Category: c.String(), Count: counts[c]})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
