package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"conformance-hq/surveyor/pkg/assess"
)

// csvHeader is the flattened one-row-per-rule column set.
var csvHeader = []string{
	"target", "spec_version", "composite_score", "level",
	"dimension", "dimension_weight", "dimension_raw_score",
	"rule_id", "rule_score", "severity", "evidence",
	"generated_at",
}

// CSVExporter exports assessment reports as CSV, one row per rule result.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes all reports' rule results to w with a single header row.
func (e *CSVExporter) Export(reports []*assess.Report, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, report := range reports {
		for _, dim := range report.Dimensions {
			for _, rule := range dim.Rules {
				row := []string{
					report.Target,
					report.SpecVersion,
					strconv.Itoa(report.CompositeScore),
					report.Level.String(),
					dim.Name,
					strconv.FormatFloat(dim.Weight, 'f', -1, 64),
					strconv.FormatFloat(dim.RawScore, 'f', -1, 64),
					rule.RuleID,
					strconv.FormatFloat(rule.Score, 'f', -1, 64),
					string(rule.Severity),
					rule.Evidence,
					report.GeneratedAt.UTC().Format(time.RFC3339),
				}
				if err := writer.Write(row); err != nil {
					return fmt.Errorf("failed to write csv row: %w", err)
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
