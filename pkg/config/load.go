package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention SURVEYOR_SECTION_FIELD (e.g.,
// SURVEYOR_FLEET_WORKERS) and always take precedence over file-based
// configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format
// SURVEYOR_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Rule-set overrides
	if val := os.Getenv("SURVEYOR_RULE_SETS_DIR"); val != "" {
		cfg.RuleSets.Dir = val
	}
	if val := os.Getenv("SURVEYOR_RULE_SETS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.RuleSets.Watch = b
		}
	}

	// Fleet overrides
	if val := os.Getenv("SURVEYOR_FLEET_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Fleet.Workers = i
		}
	}
	if val := os.Getenv("SURVEYOR_FLEET_SCHEDULE"); val != "" {
		cfg.Fleet.Schedule = val
	}
	if val := os.Getenv("SURVEYOR_FLEET_TARGETS"); val != "" {
		cfg.Fleet.Targets = splitList(val)
	}
	if val := os.Getenv("SURVEYOR_FLEET_SPEC_VERSION"); val != "" {
		cfg.Fleet.SpecVersion = val
	}

	// History overrides
	if val := os.Getenv("SURVEYOR_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("SURVEYOR_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv("SURVEYOR_HISTORY_WAL_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.WALMode = b
		}
	}
	if val := os.Getenv("SURVEYOR_HISTORY_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.History.BusyTimeout = d
		}
	}
	if val := os.Getenv("SURVEYOR_HISTORY_MAX_OPEN_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.MaxOpenConns = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("SURVEYOR_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SURVEYOR_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SURVEYOR_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("SURVEYOR_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}

// splitList splits a comma-separated environment value into trimmed,
// non-empty entries.
func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
