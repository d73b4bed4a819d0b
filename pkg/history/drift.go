package history

import (
	"context"

	"conformance-hq/surveyor/pkg/assess"
)

// RuleChange records a rule whose score moved between two assessments.
type RuleChange struct {
	// RuleID identifies the rule.
	RuleID string `json:"id"`

	// From is the rule's score in the older report; -1 if the rule did
	// not exist there (rule set changed between runs).
	From float64 `json:"from"`

	// To is the rule's score in the newer report; -1 if the rule was
	// removed.
	To float64 `json:"to"`

	// Evidence is the newer report's evidence for the rule, if present.
	Evidence string `json:"evidence,omitempty"`
}

// Drift summarizes how a target's conformance moved between its two most
// recent assessments.
type Drift struct {
	// Target is the assessed target.
	Target string `json:"target"`

	// From is the older report, To the newer.
	From *assess.Report `json:"from"`
	To   *assess.Report `json:"to"`

	// CompositeDelta is To minus From composite score.
	CompositeDelta int `json:"composite_delta"`

	// LevelChanged reports whether the classification moved.
	LevelChanged bool `json:"level_changed"`

	// RuleChanges lists rules whose score moved, appeared, or vanished,
	// in the newer report's order followed by removed rules.
	RuleChanges []RuleChange `json:"rule_changes"`
}

// Regressed reports whether conformance dropped: a lower composite or a
// lower level.
func (d *Drift) Regressed() bool {
	return d.CompositeDelta < 0 || d.To.Level < d.From.Level
}

// ComputeDrift diffs two reports of the same target, older to newer.
func ComputeDrift(older, newer *assess.Report) *Drift {
	drift := &Drift{
		Target:         newer.Target,
		From:           older,
		To:             newer,
		CompositeDelta: newer.CompositeScore - older.CompositeScore,
		LevelChanged:   newer.Level != older.Level,
	}

	oldScores := ruleScores(older)
	seen := make(map[string]bool)
	for _, dim := range newer.Dimensions {
		for _, rule := range dim.Rules {
			seen[rule.RuleID] = true
			from, existed := oldScores[rule.RuleID]
			switch {
			case !existed:
				drift.RuleChanges = append(drift.RuleChanges, RuleChange{
					RuleID: rule.RuleID, From: -1, To: rule.Score, Evidence: rule.Evidence,
				})
			case from != rule.Score:
				drift.RuleChanges = append(drift.RuleChanges, RuleChange{
					RuleID: rule.RuleID, From: from, To: rule.Score, Evidence: rule.Evidence,
				})
			}
		}
	}

	// Rules present before but gone now.
	for _, dim := range older.Dimensions {
		for _, rule := range dim.Rules {
			if !seen[rule.RuleID] {
				drift.RuleChanges = append(drift.RuleChanges, RuleChange{
					RuleID: rule.RuleID, From: rule.Score, To: -1,
				})
			}
		}
	}

	return drift
}

func ruleScores(report *assess.Report) map[string]float64 {
	scores := make(map[string]float64)
	for _, dim := range report.Dimensions {
		for _, rule := range dim.Rules {
			scores[rule.RuleID] = rule.Score
		}
	}
	return scores
}

// Detect loads a target's two most recent reports from the store and
// computes their drift. Targets with fewer than two reports return
// ErrInsufficientHistory.
func Detect(ctx context.Context, store Store, target string) (*Drift, error) {
	reports, err := store.Latest(ctx, target, 2)
	if err != nil {
		return nil, err
	}
	if len(reports) < 2 {
		return nil, ErrInsufficientHistory
	}
	// Latest returns newest first.
	return ComputeDrift(reports[1], reports[0]), nil
}
