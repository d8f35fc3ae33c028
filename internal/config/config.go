// Package config provides configuration loading for taskbridge.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/taskbridge/internal/registry"
)

// Duration wraps time.Duration so config values parse from strings like "30s".
type Duration time.Duration

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the root taskbridge configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	SimpleTask SimpleTaskConfig `koanf:"simpletask"`
	Logging    LoggingConfig    `koanf:"logging"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`

	// ProjectsFile optionally points at a standalone projects.json; its
	// entries are appended to Projects at load time.
	ProjectsFile string `koanf:"projects_file"`

	// Projects is the configured tenant list. At least one entry is
	// required; the adapter cannot operate without a tenant.
	Projects []registry.Definition `koanf:"projects"`
}

// ServerConfig configures the optional HTTP sidecar.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	HTTPPort        int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// SimpleTaskConfig configures the upstream API gateway.
type SimpleTaskConfig struct {
	BaseURL           string   `koanf:"base_url"`
	RequestTimeout    Duration `koanf:"request_timeout"`
	RequestsPerSecond float64  `koanf:"requests_per_second"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
}

// TelemetryConfig configures OpenTelemetry export. Disabled by default so
// users without a collector are unaffected.
type TelemetryConfig struct {
	Enabled        bool   `koanf:"enabled"`
	Endpoint       string `koanf:"endpoint"`
	// Protocol is "grpc" or "http/protobuf".
	Protocol       string   `koanf:"protocol"`
	Insecure       bool     `koanf:"insecure"`
	ServiceName    string   `koanf:"service_name"`
	ServiceVersion string   `koanf:"service_version"`
	MetricInterval Duration `koanf:"metric_interval"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}
	if c.SimpleTask.BaseURL == "" {
		return fmt.Errorf("simpletask.base_url is required")
	}
	if c.SimpleTask.RequestTimeout < 0 {
		return fmt.Errorf("simpletask.request_timeout must be >= 0")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
		}
		switch c.Telemetry.Protocol {
		case "grpc", "http/protobuf":
		default:
			return fmt.Errorf("telemetry.protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol)
		}
	}
	if len(c.Projects) == 0 {
		return fmt.Errorf("projects: %w", registry.ErrNoProjects)
	}
	for i, p := range c.Projects {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("projects[%d]: %w", i, err)
		}
	}
	return nil
}
