// Package telemetry groups observability concerns for Surveyor.
//
// The logging subpackage provides the structured logger used across
// the codebase. Prometheus metrics for fleet scans live with the fleet
// runner in pkg/fleet, next to the code that records them.
package telemetry
