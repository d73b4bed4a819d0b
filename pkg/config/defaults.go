package config

import "time"

// Default values for configuration fields.
const (
	// Rule-set defaults
	DefaultRuleSetsDir   = "rulesets"
	DefaultRuleSetsWatch = false

	// Fleet defaults
	DefaultFleetWorkers = 4

	// History defaults
	DefaultHistoryEnabled      = false
	DefaultHistoryPath         = "data/history.db"
	DefaultHistoryWALMode      = true
	DefaultHistoryBusyTimeout  = 5 * time.Second
	DefaultHistoryMaxOpenConns = 10

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "text"
	DefaultMetricsEnabled       = false
	DefaultMetricsListenAddress = "127.0.0.1:9464"
)

// ApplyDefaults fills in default values for unset configuration fields.
// Zero values are treated as unset.
func ApplyDefaults(cfg *Config) {
	if cfg.RuleSets.Dir == "" {
		cfg.RuleSets.Dir = DefaultRuleSetsDir
	}

	if cfg.Fleet.Workers == 0 {
		cfg.Fleet.Workers = DefaultFleetWorkers
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if !cfg.History.WALMode {
		cfg.History.WALMode = DefaultHistoryWALMode
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.History.MaxOpenConns == 0 {
		cfg.History.MaxOpenConns = DefaultHistoryMaxOpenConns
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
}

// DefaultConfig returns a configuration populated entirely with defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
