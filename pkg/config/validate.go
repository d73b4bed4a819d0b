package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "fleet.workers").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateRuleSets(&cfg.RuleSets)...)
	errs = append(errs, validateFleet(&cfg.Fleet)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateRuleSets(rs *RuleSetsConfig) []FieldError {
	var errs []FieldError

	if rs.Dir == "" {
		errs = append(errs, FieldError{
			Field:   "rule_sets.dir",
			Message: "must not be empty",
		})
	}

	return errs
}

func validateFleet(f *FleetConfig) []FieldError {
	var errs []FieldError

	if f.Workers < 1 {
		errs = append(errs, FieldError{
			Field:   "fleet.workers",
			Message: fmt.Sprintf("must be at least 1, got %d", f.Workers),
		})
	}
	if f.Schedule != "" {
		if _, err := cron.ParseStandard(f.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "fleet.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", f.Schedule, err),
			})
		}
		if len(f.Targets) == 0 {
			errs = append(errs, FieldError{
				Field:   "fleet.targets",
				Message: "must not be empty when a schedule is set",
			})
		}
		if f.SpecVersion == "" {
			errs = append(errs, FieldError{
				Field:   "fleet.spec_version",
				Message: "must not be empty when a schedule is set",
			})
		}
	}

	return errs
}

func validateHistory(h *HistoryConfig) []FieldError {
	var errs []FieldError

	if !h.Enabled {
		return errs
	}

	if h.Path == "" {
		errs = append(errs, FieldError{
			Field:   "history.path",
			Message: "must not be empty when history is enabled",
		})
	}
	if h.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "history.busy_timeout",
			Message: "must not be negative",
		})
	}
	if h.MaxOpenConns < 1 {
		errs = append(errs, FieldError{
			Field:   "history.max_open_conns",
			Message: fmt.Sprintf("must be at least 1, got %d", h.MaxOpenConns),
		})
	}

	return errs
}

func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", t.Logging.Level),
		})
	}

	switch t.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be json or text; got %q", t.Logging.Format),
		})
	}

	if t.Metrics.Enabled && t.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: "must not be empty when metrics are enabled",
		})
	}

	return errs
}
