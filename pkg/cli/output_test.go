package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"conformance-hq/surveyor/pkg/assess"
	"conformance-hq/surveyor/pkg/spec"
)

func sampleReport() *assess.Report {
	return &assess.Report{
		ID:             "11111111-2222-3333-4444-555555555555",
		Target:         "/repos/alpha",
		SpecVersion:    "v1",
		CompositeScore: 72,
		Level:          assess.L2Compliant,
		Dimensions: []assess.DimensionScore{
			{
				Name:     "documentation",
				Weight:   0.4,
				RawScore: 0.8,
				Rules: []assess.RuleResult{
					{RuleID: "readme-exists", Score: 1.0, Severity: spec.SeverityError, Evidence: "fact readme.exists is present"},
					{RuleID: "changelog-current", Score: 0.5, Severity: spec.SeverityWarning, Evidence: "1 of 2 patterns matched"},
				},
			},
			{
				Name:     "metadata",
				Weight:   0.6,
				RawScore: 0.6,
				Rules: []assess.RuleResult{
					{RuleID: "version-matches", Score: 0.0, Severity: spec.SeverityError, Evidence: "manifest.version != changelog.latest_version"},
				},
			},
		},
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{input: "text", want: FormatText},
		{input: "", want: FormatText},
		{input: "json", want: FormatJSON},
		{input: "csv", want: FormatCSV},
		{input: "yaml", wantErr: true},
		{input: "JSON", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"/repos/alpha",
		"72/100",
		"L2_Compliant",
		"documentation",
		"readme-exists",
		"version-matches",
		"manifest.version != changelog.latest_version",
		"2 rule(s) below full credit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReportSummary(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderReportSummary() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "/repos/alpha") || !strings.Contains(out, "72/100") {
		t.Errorf("summary missing target or score: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("summary should be a single line, got %q", out)
	}
}
