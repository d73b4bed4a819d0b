// Package export renders assessment reports for machine consumption.
// JSONExporter emits the report schema consumed by CI gates and dashboards;
// CSVExporter flattens reports to one row per rule result for spreadsheet
// analysis across a fleet.
package export
