package config

import (
	"os"
	"testing"
	"time"
)

var allEnvVars = []string{
	"COMMS_URL", "SERVICE_NAME",
	"BRIDGE_TARGET", "BRIDGE_EXECUTE_SUBJECT", "BRIDGE_EVENTS_SUBJECT",
	"BRIDGE_REQUEST_TIMEOUT", "BRIDGE_DISCOVERY_TIMEOUT",
	"DATABASE_URL", "RUN_MIGRATIONS", "MIGRATION_PATH",
	"HTTP_PORT", "HEALTH_CHECK_TIMEOUT", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range allEnvVars {
		if old, ok := os.LookupEnv(env); ok {
			os.Unsetenv(env)
			t.Cleanup(func() { os.Setenv(env, old) })
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("config:config_test - unexpected error: %v", err)
	}

	if cfg.COMMSURL != "nats://127.0.0.1:4222" {
		t.Errorf("config:config_test - COMMSURL = %q, want %q", cfg.COMMSURL, "nats://127.0.0.1:4222")
	}
	if cfg.COMMSName != "capabilities-bridge" {
		t.Errorf("config:config_test - COMMSName = %q, want %q", cfg.COMMSName, "capabilities-bridge")
	}
	if cfg.Target != "app" {
		t.Errorf("config:config_test - Target = %q, want %q", cfg.Target, "app")
	}
	if cfg.Subject() != "bridge.app.execute" {
		t.Errorf("config:config_test - Subject() = %q, want %q", cfg.Subject(), "bridge.app.execute")
	}
	if cfg.RequestTimeout != 25*time.Second {
		t.Errorf("config:config_test - RequestTimeout = %v, want 25s", cfg.RequestTimeout)
	}
	if cfg.DiscoveryTimeout != 10*time.Second {
		t.Errorf("config:config_test - DiscoveryTimeout = %v, want 10s", cfg.DiscoveryTimeout)
	}
	if cfg.CatalogEnabled() {
		t.Error("config:config_test - expected catalog disabled without DATABASE_URL")
	}
	if cfg.MigrationPath != "migrations" {
		t.Errorf("config:config_test - MigrationPath = %q, want %q", cfg.MigrationPath, "migrations")
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("config:config_test - HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("config:config_test - LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if err := cfg.ValidateForServe(); err != nil {
		t.Errorf("config:config_test - defaults should be valid for serve: %v", err)
	}
	if err := cfg.ValidateForDriver(); err != nil {
		t.Errorf("config:config_test - defaults should be valid for driver: %v", err)
	}
	if err := cfg.ValidateForDB(); err == nil {
		t.Error("config:config_test - expected ValidateForDB to fail without DATABASE_URL")
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	overrides := map[string]string{
		"COMMS_URL":                "nats://custom:4222",
		"SERVICE_NAME":             "test-driver",
		"BRIDGE_TARGET":            "editor",
		"BRIDGE_EVENTS_SUBJECT":    "custom.discovered",
		"BRIDGE_REQUEST_TIMEOUT":   "3s",
		"BRIDGE_DISCOVERY_TIMEOUT": "1s",
		"DATABASE_URL":             "postgres://test@localhost/test",
		"RUN_MIGRATIONS":           "true",
		"HTTP_PORT":                "9090",
		"LOG_LEVEL":                "debug",
	}
	for key, val := range overrides {
		t.Setenv(key, val)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("config:config_test - unexpected error: %v", err)
	}

	if cfg.COMMSURL != "nats://custom:4222" {
		t.Errorf("config:config_test - COMMSURL = %q, want %q", cfg.COMMSURL, "nats://custom:4222")
	}
	if cfg.COMMSName != "test-driver" {
		t.Errorf("config:config_test - COMMSName = %q, want %q", cfg.COMMSName, "test-driver")
	}
	if cfg.Subject() != "bridge.editor.execute" {
		t.Errorf("config:config_test - Subject() = %q, want %q", cfg.Subject(), "bridge.editor.execute")
	}
	if cfg.EventsSubject != "custom.discovered" {
		t.Errorf("config:config_test - EventsSubject = %q, want %q", cfg.EventsSubject, "custom.discovered")
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("config:config_test - RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.DiscoveryTimeout != time.Second {
		t.Errorf("config:config_test - DiscoveryTimeout = %v, want 1s", cfg.DiscoveryTimeout)
	}
	if !cfg.CatalogEnabled() || !cfg.RunMigrations {
		t.Error("config:config_test - expected catalog enabled with migrations")
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("config:config_test - HTTPPort = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("config:config_test - LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestConfig_ExecuteSubjectOverride(t *testing.T) {
	cfg := &Config{Target: "app", ExecuteSubject: "custom.execute"}
	if got := cfg.Subject(); got != "custom.execute" {
		t.Errorf("config:config_test - Subject() = %q, want %q", got, "custom.execute")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		serveErr  bool
		driverErr bool
	}{
		{
			name: "valid",
			cfg:  Config{Target: "app", RequestTimeout: time.Second, DiscoveryTimeout: time.Second, HealthCheckTimeout: time.Second},
		},
		{
			name:      "no target or subject",
			cfg:       Config{RequestTimeout: time.Second, DiscoveryTimeout: time.Second, HealthCheckTimeout: time.Second},
			serveErr:  true,
			driverErr: true,
		},
		{
			name:      "zero request timeout",
			cfg:       Config{Target: "app", DiscoveryTimeout: time.Second, HealthCheckTimeout: time.Second},
			serveErr:  true,
			driverErr: true,
		},
		{
			name:      "zero discovery timeout only matters to the driver",
			cfg:       Config{Target: "app", RequestTimeout: time.Second, HealthCheckTimeout: time.Second},
			driverErr: true,
		},
		{
			name:     "zero health timeout only matters to serve",
			cfg:      Config{Target: "app", RequestTimeout: time.Second, DiscoveryTimeout: time.Second},
			serveErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.ValidateForServe(); (err != nil) != tt.serveErr {
				t.Errorf("config:config_test - ValidateForServe() error = %v, wantErr %v", err, tt.serveErr)
			}
			if err := tt.cfg.ValidateForDriver(); (err != nil) != tt.driverErr {
				t.Errorf("config:config_test - ValidateForDriver() error = %v, wantErr %v", err, tt.driverErr)
			}
		})
	}
}
