package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"conformance-hq/surveyor/pkg/assess"
)

func exportReport() *assess.Report {
	return &assess.Report{
		ID:             "report-1",
		Target:         "billing",
		SpecVersion:    "1.2.0",
		CompositeScore: 70,
		Level:          assess.L2Compliant,
		Dimensions: []assess.DimensionScore{
			{
				Name: "structure", Weight: 0.4, RawScore: 1.0,
				Rules: []assess.RuleResult{
					{RuleID: "structure/manifest-present", Score: 1.0, Severity: "error", Evidence: "present"},
				},
			},
			{
				Name: "metadata", Weight: 0.6, RawScore: 0.5,
				Rules: []assess.RuleResult{
					{RuleID: "metadata/min-docs", Score: 0.5, Severity: "error", Evidence: "partial credit"},
				},
			},
		},
		GeneratedAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
	}
}

// TestJSONExporter_Schema verifies the wire schema CI gates depend on
func TestJSONExporter_Schema(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export([]*assess.Report{exportReport()}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}

	if decoded["composite_score"] != float64(70) {
		t.Errorf("composite_score = %v, want 70", decoded["composite_score"])
	}
	if decoded["level"] != "L2_Compliant" {
		t.Errorf("level = %v, want L2_Compliant", decoded["level"])
	}
	dims, ok := decoded["dimensions"].([]any)
	if !ok || len(dims) != 2 {
		t.Fatalf("dimensions = %v, want array of 2", decoded["dimensions"])
	}
	first := dims[0].(map[string]any)
	for _, key := range []string{"name", "weight", "raw_score", "rules"} {
		if _, ok := first[key]; !ok {
			t.Errorf("dimension missing key %q", key)
		}
	}
	rules := first["rules"].([]any)
	rule := rules[0].(map[string]any)
	for _, key := range []string{"id", "score", "severity", "evidence"} {
		if _, ok := rule[key]; !ok {
			t.Errorf("rule missing key %q", key)
		}
	}
	if _, ok := decoded["generated_at"]; !ok {
		t.Error("report missing generated_at")
	}
}

// TestJSONExporter_MultipleAndEmpty tests array and empty forms
func TestJSONExporter_MultipleAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export([]*assess.Report{exportReport(), exportReport()}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "[") {
		t.Error("multiple reports should serialize as an array")
	}

	buf.Reset()
	if err := NewJSONExporter(true).Export(nil, &buf); err != nil {
		t.Fatalf("export empty: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}

// TestCSVExporter tests the flattened per-rule rows
func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter().Export([]*assess.Report{exportReport()}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}

	// Header plus one row per rule.
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}
	if records[0][0] != "target" || records[0][7] != "rule_id" {
		t.Errorf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "billing" || row[2] != "70" || row[3] != "L2_Compliant" {
		t.Errorf("unexpected first row: %v", row)
	}
	if row[7] != "structure/manifest-present" || row[8] != "1" {
		t.Errorf("unexpected rule columns: %v", row)
	}
}
