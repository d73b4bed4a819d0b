package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"conformance-hq/surveyor/pkg/assess"
	"conformance-hq/surveyor/pkg/cli"
	"conformance-hq/surveyor/pkg/history"
	"conformance-hq/surveyor/pkg/spec"
)

// setupHistoryConfig points the global config file at a temp SQLite path
// and restores the previous value when the test ends.
func setupHistoryConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	cfgPath := filepath.Join(dir, "surveyor.yaml")
	content := fmt.Sprintf("history:\n  enabled: true\n  path: %s\n", dbPath)
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	orig := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = orig })
	return dbPath
}

func storedReport(target string, score int, level assess.Level, at time.Time) *assess.Report {
	return &assess.Report{
		ID:             fmt.Sprintf("%s-%d", filepath.Base(target), at.Unix()),
		Target:         target,
		SpecVersion:    "v1",
		CompositeScore: score,
		Level:          level,
		Dimensions: []assess.DimensionScore{
			{
				Name:     "documentation",
				Weight:   1.0,
				RawScore: float64(score) / 100,
				Rules: []assess.RuleResult{
					{RuleID: "docs/readme-exists", Score: float64(score) / 100, Severity: spec.SeverityError, Evidence: "checked"},
				},
			},
		},
		GeneratedAt: at,
	}
}

func TestRunHistoryDriftRegression(t *testing.T) {
	dbPath := setupHistoryConfig(t)
	target := "/repos/alpha"

	store, err := history.NewSQLiteStore(&history.SQLiteConfig{Path: dbPath})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Save(context.Background(), storedReport(target, 90, assess.L3Exemplary, base)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(context.Background(), storedReport(target, 55, assess.L1Baseline, base.Add(time.Hour))); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	historyFlags.target = target
	historyFlags.format = "text"

	var buf bytes.Buffer
	err = runHistoryDrift(newTestCommand(&buf), nil)

	// Conformance dropped, so the command signals a regression.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitErr.Code != assess.ExitNonConformant {
		t.Errorf("exit code = %d, want %d", exitErr.Code, assess.ExitNonConformant)
	}

	out := buf.String()
	if !strings.Contains(out, "90 -> 55") {
		t.Errorf("output missing score movement:\n%s", out)
	}
	if !strings.Contains(out, "L3_Exemplary -> L1_Baseline") {
		t.Errorf("output missing level movement:\n%s", out)
	}
}

func TestRunHistoryDriftInsufficientHistory(t *testing.T) {
	dbPath := setupHistoryConfig(t)
	target := "/repos/solo"

	store, err := history.NewSQLiteStore(&history.SQLiteConfig{Path: dbPath})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Save(context.Background(), storedReport(target, 80, assess.L2Compliant, base)); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	historyFlags.target = target
	historyFlags.format = "text"

	var buf bytes.Buffer
	err = runHistoryDrift(newTestCommand(&buf), nil)

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitErr.Code != assess.ExitInputError {
		t.Errorf("exit code = %d, want %d", exitErr.Code, assess.ExitInputError)
	}
}

func TestRunHistoryTargets(t *testing.T) {
	dbPath := setupHistoryConfig(t)

	store, err := history.NewSQLiteStore(&history.SQLiteConfig{Path: dbPath})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, target := range []string{"/repos/alpha", "/repos/beta"} {
		if err := store.Save(context.Background(), storedReport(target, 70, assess.L2Compliant, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	store.Close()

	var buf bytes.Buffer
	if err := runHistoryTargets(newTestCommand(&buf), nil); err != nil {
		t.Fatalf("runHistoryTargets() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "/repos/alpha") || !strings.Contains(out, "/repos/beta") {
		t.Errorf("output missing targets:\n%s", out)
	}
}
