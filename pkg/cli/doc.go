// Package cli provides shared helpers for the surveyor command-line
// interface.
//
// It contains output formatting (human-readable report rendering and
// format flag parsing), progress reporting for fleet scans, signal
// handling for graceful cancellation, and error types that carry
// process exit codes from commands back to main.
//
// Machine-readable exports (JSON, CSV) are produced by pkg/export; the
// formatters here only decide which path a command takes.
package cli
