package spec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validRuleSetYAML = `
spec_version: "1.2.0"
description: "artifact tree conformance rules"
dimensions:
  - name: structure
    weight: 0.4
    rules:
      - id: structure/manifest-present
        description: "target carries a version manifest"
        weight: 2.0
        severity: error
        predicate:
          kind: existence
          fact: manifest.version
      - id: structure/readme-sections
        severity: warning
        predicate:
          kind: pattern
          fact: readme.text
          patterns: ["(?m)^# ", "(?im)^## usage"]
  - name: metadata
    weight: 0.6
    rules:
      - id: metadata/min-docs
        predicate:
          kind: threshold
          fact: docs.count
          operator: gte
          value: 3
          tolerance: 2
      - id: metadata/versions-agree
        predicate:
          kind: cross_reference
          fact: manifest.version
          other_fact: changelog.latest_version
          compare: equal
`

// TestParse_ValidRuleSet tests parsing, defaults, and compilation
func TestParse_ValidRuleSet(t *testing.T) {
	rs, err := Parse([]byte(validRuleSetYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if rs.Version != "1.2.0" {
		t.Errorf("version = %q, want 1.2.0", rs.Version)
	}
	if rs.RuleCount() != 4 {
		t.Errorf("rule count = %d, want 4", rs.RuleCount())
	}
	if rs.Levels != DefaultLevelThresholds() {
		t.Errorf("levels = %+v, want defaults", rs.Levels)
	}

	structure := rs.Dimensions[0]
	if structure.Name != "structure" || structure.Weight != 0.4 {
		t.Errorf("dimension = %q/%v, want structure/0.4", structure.Name, structure.Weight)
	}

	// Defaults: weight 1.0, severity error, unset fields filled.
	readme := structure.Rules[1]
	if readme.Weight != 1.0 {
		t.Errorf("default weight = %v, want 1.0", readme.Weight)
	}
	if readme.Severity != SeverityWarning {
		t.Errorf("severity = %q, want warning", readme.Severity)
	}
	if len(readme.Predicate.Patterns) != 2 {
		t.Errorf("compiled patterns = %d, want 2", len(readme.Predicate.Patterns))
	}
	if readme.Dimension != "structure" {
		t.Errorf("rule dimension = %q, want structure", readme.Dimension)
	}

	minDocs := rs.Dimensions[1].Rules[0]
	if minDocs.Severity != SeverityError {
		t.Errorf("default severity = %q, want error", minDocs.Severity)
	}
	if minDocs.Predicate.Tolerance != 2 {
		t.Errorf("tolerance = %v, want 2", minDocs.Predicate.Tolerance)
	}
}

// TestParse_LevelOverrides tests per-rule-set thresholds
func TestParse_LevelOverrides(t *testing.T) {
	data := []byte(`
spec_version: "2.0.0"
levels:
  exemplary: 95
  compliant: 70
  baseline: 40
dimensions:
  - name: only
    weight: 1.0
    rules:
      - id: only/rule
        predicate: {kind: existence, fact: x}
`)
	rs, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := LevelThresholds{Exemplary: 95, Compliant: 70, Baseline: 40}
	if rs.Levels != want {
		t.Errorf("levels = %+v, want %+v", rs.Levels, want)
	}
}

// TestParse_ConfigErrors tests load-time rejection of invalid rule sets
func TestParse_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "weights sum below one",
			yaml: `
spec_version: "1.0.0"
dimensions:
  - name: a
    weight: 0.5
    rules: [{id: a/r, predicate: {kind: existence, fact: x}}]
  - name: b
    weight: 0.3
    rules: [{id: b/r, predicate: {kind: existence, fact: x}}]
`,
		},
		{
			name: "missing spec version",
			yaml: `
dimensions:
  - name: a
    weight: 1.0
    rules: [{id: a/r, predicate: {kind: existence, fact: x}}]
`,
		},
		{
			name: "invalid regex pattern",
			yaml: `
spec_version: "1.0.0"
dimensions:
  - name: a
    weight: 1.0
    rules:
      - id: a/r
        predicate: {kind: pattern, fact: x, patterns: ["(unclosed"]}
`,
		},
		{
			name: "unknown predicate kind",
			yaml: `
spec_version: "1.0.0"
dimensions:
  - name: a
    weight: 1.0
    rules: [{id: a/r, predicate: {kind: telepathy, fact: x}}]
`,
		},
		{
			name: "duplicate rule ids",
			yaml: `
spec_version: "1.0.0"
dimensions:
  - name: a
    weight: 1.0
    rules:
      - {id: a/r, predicate: {kind: existence, fact: x}}
      - {id: a/r, predicate: {kind: existence, fact: y}}
`,
		},
		{
			name: "negative rule weight",
			yaml: `
spec_version: "1.0.0"
dimensions:
  - name: a
    weight: 1.0
    rules: [{id: a/r, weight: -1, predicate: {kind: existence, fact: x}}]
`,
		},
		{
			name: "cross reference missing other fact",
			yaml: `
spec_version: "1.0.0"
dimensions:
  - name: a
    weight: 1.0
    rules: [{id: a/r, predicate: {kind: cross_reference, fact: x}}]
`,
		},
		{
			name: "tolerance on equality operator",
			yaml: `
spec_version: "1.0.0"
dimensions:
  - name: a
    weight: 1.0
    rules:
      - id: a/r
        predicate: {kind: threshold, fact: x, operator: eq, value: 1, tolerance: 2}
`,
		},
		{
			name: "misordered level thresholds",
			yaml: `
spec_version: "1.0.0"
levels: {exemplary: 50, compliant: 60, baseline: 30}
dimensions:
  - name: a
    weight: 1.0
    rules: [{id: a/r, predicate: {kind: existence, fact: x}}]
`,
		},
		{
			name: "not yaml at all",
			yaml: "{{nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected config error")
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("error type = %T, want *ConfigError", err)
			}
			if !IsConfigError(err) {
				t.Errorf("IsConfigError(%v) = false, want true", err)
			}
		})
	}
}

// TestParseDir tests directory loading with deterministic order
func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeRuleSet := func(name, version string) {
		t.Helper()
		data := `
spec_version: "` + version + `"
dimensions:
  - name: only
    weight: 1.0
    rules: [{id: only/rule, predicate: {kind: existence, fact: x}}]
`
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeRuleSet("v2.yaml", "2.0.0")
	writeRuleSet("v1.yaml", "1.0.0")

	sets, err := ParseDir(dir)
	if err != nil {
		t.Fatalf("parse dir: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("rule sets = %d, want 2", len(sets))
	}
	// Sorted by filename: v1 before v2.
	if sets[0].Version != "1.0.0" || sets[1].Version != "2.0.0" {
		t.Errorf("order = %q, %q; want 1.0.0, 2.0.0", sets[0].Version, sets[1].Version)
	}

	if _, err := ParseDir(t.TempDir()); err == nil {
		t.Error("expected error for empty rule set directory")
	}
}
