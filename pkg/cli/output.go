package cli

import (
	"fmt"
	"io"
	"strings"

	"conformance-hq/surveyor/pkg/assess"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is human-readable text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output, one row per rule result.
	FormatCSV OutputFormat = "csv"
)

// ParseFormat parses a format flag value into an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatText, fmt.Errorf("unknown output format %q (expected text, json, or csv)", s)
	}
}

// RenderReport writes a human-readable rendering of a report.
func RenderReport(w io.Writer, report *assess.Report) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Target:       %s\n", report.Target)
	fmt.Fprintf(&sb, "Rule set:     %s\n", report.SpecVersion)
	fmt.Fprintf(&sb, "Score:        %d/100\n", report.CompositeScore)
	fmt.Fprintf(&sb, "Level:        %s\n", report.Level)
	fmt.Fprintf(&sb, "Generated:    %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString("\n")

	for _, dim := range report.Dimensions {
		fmt.Fprintf(&sb, "%s (weight %.2f): %.2f\n", dim.Name, dim.Weight, dim.RawScore)
		for _, rule := range dim.Rules {
			fmt.Fprintf(&sb, "  %s %-30s %.2f  %s\n",
				ruleMarker(rule.Score), rule.RuleID, rule.Score, rule.Evidence)
		}
	}

	failed := report.FailedRules()
	if len(failed) > 0 {
		fmt.Fprintf(&sb, "\n%d rule(s) below full credit\n", len(failed))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderReportSummary writes a one-line summary of a report, used by
// fleet output where the full rendering would be too noisy.
func RenderReportSummary(w io.Writer, report *assess.Report) error {
	_, err := fmt.Fprintf(w, "%-40s %3d/100  %s\n",
		report.Target, report.CompositeScore, report.Level)
	return err
}

func ruleMarker(score float64) string {
	switch {
	case score >= 1.0:
		return "✓"
	case score > 0:
		return "~"
	default:
		return "✗"
	}
}
