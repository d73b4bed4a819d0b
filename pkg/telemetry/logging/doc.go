// Package logging provides structured logging for Surveyor built on
// log/slog.
//
// Loggers are created from a Config carrying the level and format from
// the telemetry section of the configuration file. Output goes to
// stderr by default so that reports printed to stdout remain
// machine-parseable.
//
// Context helpers (WithScanID, WithTarget, WithSpecVersion) attach
// per-scan fields that the *Context logging methods pick up
// automatically, so every line emitted while assessing a target carries
// the scan identity without threading fields by hand.
package logging
