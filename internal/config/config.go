// Package config provides bridge configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/morezero/capabilities-bridge/pkg/commsutil"
)

const logPrefix = "config:LoadConfig"

// Config holds capabilities-bridge configuration for both the target host
// and the driver.
type Config struct {
	// COMMS: connect to standalone NATS at COMMSURL.
	COMMSURL  string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName string `envconfig:"SERVICE_NAME" default:"capabilities-bridge"`

	// Target is the name of the target process; it selects the execute subject.
	Target string `envconfig:"BRIDGE_TARGET" default:"app"`
	// Subject overrides (empty = derive from Target / defaults)
	ExecuteSubject string `envconfig:"BRIDGE_EXECUTE_SUBJECT"`
	EventsSubject  string `envconfig:"BRIDGE_EVENTS_SUBJECT"`

	// Timeouts
	RequestTimeout   time.Duration `envconfig:"BRIDGE_REQUEST_TIMEOUT" default:"25s"`
	DiscoveryTimeout time.Duration `envconfig:"BRIDGE_DISCOVERY_TIMEOUT" default:"10s"`

	// Discovery catalog (empty DatabaseURL disables it)
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"false"`
	MigrationPath string `envconfig:"MIGRATION_PATH" default:"migrations"`

	// HTTP health endpoint of the target host
	HTTPPort           int           `envconfig:"HTTP_PORT" default:"8080"`
	HealthCheckTimeout time.Duration `envconfig:"HEALTH_CHECK_TIMEOUT" default:"5s"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Subject returns the execute subject for the configured target.
func (c *Config) Subject() string {
	if c.ExecuteSubject != "" {
		return c.ExecuteSubject
	}
	return commsutil.BuildExecuteSubject(c.Target)
}

// CatalogEnabled reports whether discoveries are recorded in the database.
func (c *Config) CatalogEnabled() bool {
	return c.DatabaseURL != ""
}

// ValidateForServe checks required config when running the target host.
func (c *Config) ValidateForServe() error {
	if c.Target == "" && c.ExecuteSubject == "" {
		return fmt.Errorf("%s - BRIDGE_TARGET or BRIDGE_EXECUTE_SUBJECT is required", logPrefix)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - BRIDGE_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	if c.HealthCheckTimeout <= 0 {
		return fmt.Errorf("%s - HEALTH_CHECK_TIMEOUT must be positive", logPrefix)
	}
	return nil
}

// ValidateForDriver checks required config when driving a target.
func (c *Config) ValidateForDriver() error {
	if c.Target == "" && c.ExecuteSubject == "" {
		return fmt.Errorf("%s - BRIDGE_TARGET or BRIDGE_EXECUTE_SUBJECT is required", logPrefix)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - BRIDGE_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	if c.DiscoveryTimeout <= 0 {
		return fmt.Errorf("%s - BRIDGE_DISCOVERY_TIMEOUT must be positive", logPrefix)
	}
	return nil
}

// ValidateForDB checks required config when running DB-dependent commands (migrate, catalog).
func (c *Config) ValidateForDB() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%s - DATABASE_URL is required", logPrefix)
	}
	return nil
}
