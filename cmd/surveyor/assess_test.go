package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"conformance-hq/surveyor/pkg/assess"
	"conformance-hq/surveyor/pkg/cli"
)

const testRulesYAML = `
spec_version: "v1"
dimensions:
  - name: documentation
    weight: 0.5
    rules:
      - id: docs/readme-exists
        predicate:
          kind: existence
          fact: readme.exists
      - id: docs/changelog-exists
        predicate:
          kind: existence
          fact: changelog.exists
  - name: metadata
    weight: 0.5
    rules:
      - id: meta/versions-agree
        predicate:
          kind: cross_reference
          fact: manifest.version
          other_fact: changelog.latest_version
          compare: equal
`

// writeConformingTarget builds a target tree that passes every test rule.
func writeConformingTarget(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"README.md":    "# Alpha\n\n## Usage\n",
		"CHANGELOG.md": "# Changelog\n\n## [1.2.0] - 2026-02-01\n",
		"version.json": `{"name": "alpha", "version": "1.2.0"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func writeRulesDir(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "v1.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write rule set: %v", err)
	}
	return dir
}

func newTestCommand(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunAssessConformantTarget(t *testing.T) {
	assessFlags.specVersion = "v1"
	assessFlags.rulesDir = writeRulesDir(t, testRulesYAML)
	assessFlags.format = "json"
	assessFlags.output = ""
	assessFlags.store = false

	var buf bytes.Buffer
	err := runAssess(newTestCommand(&buf), []string{writeConformingTarget(t)})
	if err != nil {
		t.Fatalf("runAssess() error = %v", err)
	}

	var report assess.Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("output is not a valid report: %v\n%s", err, buf.String())
	}
	if report.CompositeScore != 100 {
		t.Errorf("composite = %d, want 100", report.CompositeScore)
	}
	if report.Level != assess.L3Exemplary {
		t.Errorf("level = %v, want L3", report.Level)
	}
}

func TestRunAssessNonConformantTarget(t *testing.T) {
	// Empty tree: no readme, no changelog, no manifest.
	assessFlags.specVersion = "v1"
	assessFlags.rulesDir = writeRulesDir(t, testRulesYAML)
	assessFlags.format = "text"
	assessFlags.output = ""
	assessFlags.store = false

	var buf bytes.Buffer
	err := runAssess(newTestCommand(&buf), []string{t.TempDir()})
	if err == nil {
		t.Fatal("runAssess() error = nil, want non-conformant exit")
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error type = %T, want *cli.ExitError", err)
	}
	if exitErr.Code != assess.ExitNonConformant {
		t.Errorf("exit code = %d, want %d", exitErr.Code, assess.ExitNonConformant)
	}
}

func TestRunAssessMissingTarget(t *testing.T) {
	assessFlags.specVersion = "v1"
	assessFlags.rulesDir = writeRulesDir(t, testRulesYAML)
	assessFlags.format = "text"
	assessFlags.output = ""
	assessFlags.store = false

	var buf bytes.Buffer
	err := runAssess(newTestCommand(&buf), []string{filepath.Join(t.TempDir(), "missing")})

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitErr.Code != assess.ExitInputError {
		t.Errorf("exit code = %d, want %d", exitErr.Code, assess.ExitInputError)
	}
}

func TestRunAssessUnknownSpecVersion(t *testing.T) {
	assessFlags.specVersion = "v99"
	assessFlags.rulesDir = writeRulesDir(t, testRulesYAML)
	assessFlags.format = "text"
	assessFlags.output = ""
	assessFlags.store = false

	var buf bytes.Buffer
	err := runAssess(newTestCommand(&buf), []string{writeConformingTarget(t)})

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitErr.Code != assess.ExitConfigError {
		t.Errorf("exit code = %d, want %d", exitErr.Code, assess.ExitConfigError)
	}
}

func TestRunAssessBadFormat(t *testing.T) {
	assessFlags.specVersion = "v1"
	assessFlags.rulesDir = writeRulesDir(t, testRulesYAML)
	assessFlags.format = "xml"

	var buf bytes.Buffer
	err := runAssess(newTestCommand(&buf), []string{writeConformingTarget(t)})

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitErr.Code != assess.ExitConfigError {
		t.Errorf("exit code = %d, want %d", exitErr.Code, assess.ExitConfigError)
	}
}

func TestRunAssessOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.json")

	assessFlags.specVersion = "v1"
	assessFlags.rulesDir = writeRulesDir(t, testRulesYAML)
	assessFlags.format = "json"
	assessFlags.output = outPath
	assessFlags.store = false
	defer func() { assessFlags.output = "" }()

	var buf bytes.Buffer
	if err := runAssess(newTestCommand(&buf), []string{writeConformingTarget(t)}); err != nil {
		t.Fatalf("runAssess() error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	var report assess.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("output file is not a valid report: %v", err)
	}
}

func TestRunAssessUnwritableOutputFile(t *testing.T) {
	assessFlags.specVersion = "v1"
	assessFlags.rulesDir = writeRulesDir(t, testRulesYAML)
	assessFlags.format = "json"
	assessFlags.output = filepath.Join(t.TempDir(), "no-such-dir", "report.json")
	assessFlags.store = false
	defer func() { assessFlags.output = "" }()

	var buf bytes.Buffer
	err := runAssess(newTestCommand(&buf), []string{writeConformingTarget(t)})

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitErr.Code != assess.ExitInternalError {
		t.Errorf("exit code = %d, want %d", exitErr.Code, assess.ExitInternalError)
	}
}
