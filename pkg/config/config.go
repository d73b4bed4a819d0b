package config

import "time"

// Config is the root configuration structure for Surveyor.
type Config struct {
	// RuleSets configures where versioned rule sets are loaded from.
	RuleSets RuleSetsConfig `yaml:"rule_sets"`

	// Fleet configures multi-target scanning.
	Fleet FleetConfig `yaml:"fleet"`

	// History configures the report history store.
	History HistoryConfig `yaml:"history"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RuleSetsConfig configures rule-set loading.
type RuleSetsConfig struct {
	// Dir is the directory holding rule-set YAML files, one versioned
	// rule set per file.
	// Default: "rulesets"
	Dir string `yaml:"dir"`

	// Watch enables hot reload of the rule-set directory.
	// Default: false
	Watch bool `yaml:"watch"`
}

// FleetConfig configures fleet scans.
type FleetConfig struct {
	// Workers is the worker pool size for concurrent target assessment.
	// Default: 4
	Workers int `yaml:"workers"`

	// Schedule is a cron expression for recurring scans; empty disables
	// scheduling.
	Schedule string `yaml:"schedule"`

	// Targets are the target paths scanned by scheduled runs.
	Targets []string `yaml:"targets"`

	// SpecVersion is the rule-set version scheduled runs assess against.
	SpecVersion string `yaml:"spec_version"`
}

// HistoryConfig configures report persistence.
type HistoryConfig struct {
	// Enabled turns report persistence on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// WALMode enables Write-Ahead Logging for concurrent fleet writers.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// MaxOpenConns caps open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the slog-based logger.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics exposure.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on for long-running scans.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the /metrics endpoint.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`
}
