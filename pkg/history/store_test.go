package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"conformance-hq/surveyor/pkg/assess"
)

func sampleReport(target string, composite int, level assess.Level, at time.Time) *assess.Report {
	return &assess.Report{
		ID:             uuid.New().String(),
		Target:         target,
		SpecVersion:    "1.0.0",
		CompositeScore: composite,
		Level:          level,
		Dimensions: []assess.DimensionScore{
			{
				Name: "structure", Weight: 1.0, RawScore: float64(composite) / 100,
				Rules: []assess.RuleResult{
					{RuleID: "structure/manifest-present", Score: 1.0, Severity: "error", Evidence: "present"},
					{RuleID: "structure/readme-sections", Score: float64(composite) / 100, Severity: "warning", Evidence: "partial"},
				},
			},
		},
		GeneratedAt: at,
	}
}

// storeUnderTest runs the same conformance checks against both backends.
func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()
	switch name {
	case "memory":
		return NewMemoryStore()
	case "sqlite":
		store, err := NewSQLiteStore(&SQLiteConfig{
			Path:        filepath.Join(t.TempDir(), "history.db"),
			WALMode:     true,
			BusyTimeout: time.Second,
		})
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		return store
	default:
		t.Fatalf("unknown backend %q", name)
		return nil
	}
}

// TestStore_RoundTrip tests save/latest/targets on both backends
func TestStore_RoundTrip(t *testing.T) {
	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			store := storeUnderTest(t, backend)
			defer store.Close()
			ctx := context.Background()

			base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
			first := sampleReport("billing", 55, assess.L1Baseline, base)
			second := sampleReport("billing", 72, assess.L2Compliant, base.Add(time.Hour))
			other := sampleReport("auth", 91, assess.L3Exemplary, base)

			for _, report := range []*assess.Report{first, second, other} {
				if err := store.Save(ctx, report); err != nil {
					t.Fatalf("save: %v", err)
				}
			}

			// Newest first, limited.
			latest, err := store.Latest(ctx, "billing", 1)
			if err != nil {
				t.Fatalf("latest: %v", err)
			}
			if len(latest) != 1 || latest[0].ID != second.ID {
				t.Fatalf("latest = %v, want just %s", latest, second.ID)
			}
			if latest[0].CompositeScore != 72 || latest[0].Level != assess.L2Compliant {
				t.Errorf("round trip lost fields: %+v", latest[0])
			}
			if len(latest[0].Dimensions) != 1 || len(latest[0].Dimensions[0].Rules) != 2 {
				t.Errorf("round trip lost dimension detail")
			}

			both, err := store.Latest(ctx, "billing", 10)
			if err != nil {
				t.Fatalf("latest: %v", err)
			}
			if len(both) != 2 || both[0].ID != second.ID || both[1].ID != first.ID {
				t.Errorf("order wrong: got %d reports", len(both))
			}

			targets, err := store.Targets(ctx)
			if err != nil {
				t.Fatalf("targets: %v", err)
			}
			if len(targets) != 2 || targets[0] != "auth" || targets[1] != "billing" {
				t.Errorf("targets = %v, want [auth billing]", targets)
			}

			// Duplicate IDs rejected.
			if err := store.Save(ctx, first); err == nil {
				t.Error("expected error for duplicate report id")
			}
		})
	}
}

// TestDetect tests drift across the two most recent reports
func TestDetect(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := Detect(ctx, store, "billing"); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("error = %v, want ErrInsufficientHistory", err)
	}

	older := sampleReport("billing", 72, assess.L2Compliant, base)
	if err := store.Save(ctx, older); err != nil {
		t.Fatal(err)
	}
	if _, err := Detect(ctx, store, "billing"); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("one report: error = %v, want ErrInsufficientHistory", err)
	}

	newer := sampleReport("billing", 55, assess.L1Baseline, base.Add(time.Hour))
	if err := store.Save(ctx, newer); err != nil {
		t.Fatal(err)
	}

	drift, err := Detect(ctx, store, "billing")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if drift.CompositeDelta != -17 {
		t.Errorf("composite delta = %d, want -17", drift.CompositeDelta)
	}
	if !drift.LevelChanged {
		t.Error("level change not detected")
	}
	if !drift.Regressed() {
		t.Error("regression not detected")
	}
	// readme-sections score moved 0.72 -> 0.55.
	found := false
	for _, change := range drift.RuleChanges {
		if change.RuleID == "structure/readme-sections" {
			found = true
			if change.From != 0.72 || change.To != 0.55 {
				t.Errorf("rule change = %+v, want 0.72 -> 0.55", change)
			}
		}
	}
	if !found {
		t.Error("changed rule missing from drift")
	}
}

// TestComputeDrift_RuleSetChanges tests added and removed rules
func TestComputeDrift_RuleSetChanges(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := sampleReport("billing", 80, assess.L2Compliant, base)
	newer := sampleReport("billing", 80, assess.L2Compliant, base.Add(time.Hour))

	// Newer rule set renamed a rule.
	newer.Dimensions[0].Rules[1].RuleID = "structure/readme-complete"

	drift := ComputeDrift(older, newer)

	var added, removed bool
	for _, change := range drift.RuleChanges {
		if change.RuleID == "structure/readme-complete" && change.From == -1 {
			added = true
		}
		if change.RuleID == "structure/readme-sections" && change.To == -1 {
			removed = true
		}
	}
	if !added || !removed {
		t.Errorf("added=%v removed=%v, want both true; changes: %+v", added, removed, drift.RuleChanges)
	}
	if drift.Regressed() {
		t.Error("equal composite should not flag regression")
	}
}

// TestMemoryStore_IsolatesReports verifies stored reports do not share
// rule slices with the caller's report
func TestMemoryStore_IsolatesReports(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	report := sampleReport("/fleet/app", 80, assess.L2Compliant, time.Now().UTC())
	if err := store.Save(ctx, report); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's report after Save must not reach the store.
	report.CompositeScore = 0
	report.Dimensions[0].Rules[0].Score = 0
	report.Dimensions[0].Rules[0].Evidence = "tampered"

	latest, err := store.Latest(ctx, "/fleet/app", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 1 {
		t.Fatalf("latest = %d reports, want 1", len(latest))
	}
	stored := latest[0]
	if stored.CompositeScore != 80 {
		t.Errorf("composite = %d, want 80", stored.CompositeScore)
	}
	if got := stored.Dimensions[0].Rules[0]; got.Score != 1.0 || got.Evidence != "present" {
		t.Errorf("rule result = %+v, want untouched original", got)
	}

	// Mutating a retrieved report must not reach the store either.
	stored.Dimensions[0].Rules[0].Evidence = "tampered"
	again, err := store.Latest(ctx, "/fleet/app", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := again[0].Dimensions[0].Rules[0].Evidence; got != "present" {
		t.Errorf("evidence = %q, want %q", got, "present")
	}
}
