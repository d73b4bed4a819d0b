package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// ScanIDKey is the context key for fleet scan identifiers.
	ScanIDKey contextKey = "scan_id"

	// TargetKey is the context key for the target path under assessment.
	TargetKey contextKey = "target"

	// SpecVersionKey is the context key for the rule-set version in use.
	SpecVersionKey contextKey = "spec_version"
)

// WithScanID adds a scan identifier to the context.
func WithScanID(ctx context.Context, scanID string) context.Context {
	return context.WithValue(ctx, ScanIDKey, scanID)
}

// GetScanID retrieves the scan identifier from the context.
func GetScanID(ctx context.Context) string {
	if scanID, ok := ctx.Value(ScanIDKey).(string); ok {
		return scanID
	}
	return ""
}

// WithTarget adds a target path to the context.
func WithTarget(ctx context.Context, target string) context.Context {
	return context.WithValue(ctx, TargetKey, target)
}

// GetTarget retrieves the target path from the context.
func GetTarget(ctx context.Context) string {
	if target, ok := ctx.Value(TargetKey).(string); ok {
		return target
	}
	return ""
}

// WithSpecVersion adds a rule-set version to the context.
func WithSpecVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, SpecVersionKey, version)
}

// GetSpecVersion retrieves the rule-set version from the context.
func GetSpecVersion(ctx context.Context) string {
	if version, ok := ctx.Value(SpecVersionKey).(string); ok {
		return version
	}
	return ""
}

// extractContextFields extracts scan fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if scanID := GetScanID(ctx); scanID != "" {
		fields = append(fields, "scan_id", scanID)
	}
	if target := GetTarget(ctx); target != "" {
		fields = append(fields, "target", target)
	}
	if version := GetSpecVersion(ctx); version != "" {
		fields = append(fields, "spec_version", version)
	}

	return fields
}
