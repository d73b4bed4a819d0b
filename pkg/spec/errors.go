package spec

import (
	"errors"
	"fmt"
)

// ErrUnknownSpecVersion is returned by the registry when no rule set is
// registered for the requested specification version.
var ErrUnknownSpecVersion = errors.New("unknown spec version")

// ConfigError indicates an invalid rule set or registry misuse. It is fatal
// for the rule set involved and maps to the CLI's configuration exit code;
// it never occurs during per-target assessment.
type ConfigError struct {
	// Version is the rule-set version involved, if known.
	Version string

	// Field identifies the offending field, dimension, or rule id.
	Field string

	// Message describes the violation.
	Message string
}

func (e *ConfigError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("rule set config error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("rule set %q config error in %s: %s", e.Version, e.Field, e.Message)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(version, field, message string) *ConfigError {
	return &ConfigError{
		Version: version,
		Field:   field,
		Message: message,
	}
}

// NewConfigErrorf creates a new ConfigError with a formatted message.
func NewConfigErrorf(version, field, format string, args ...any) *ConfigError {
	return NewConfigError(version, field, fmt.Sprintf(format, args...))
}

// IsConfigError reports whether err is a rule-set configuration error,
// including an unknown spec version.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce) || errors.Is(err, ErrUnknownSpecVersion)
}
