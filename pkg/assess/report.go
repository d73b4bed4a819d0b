package assess

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"conformance-hq/surveyor/pkg/facts"
	"conformance-hq/surveyor/pkg/spec"
)

// Assessor runs the full assessment pipeline for targets against rule sets
// held in a registry. It holds no per-assessment state, so a single
// Assessor may serve concurrent fleet scans.
type Assessor struct {
	registry *spec.Registry
	logger   *slog.Logger
}

// NewAssessor creates an assessor backed by the given registry.
func NewAssessor(registry *spec.Registry, logger *slog.Logger) *Assessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assessor{
		registry: registry,
		logger:   logger.With("component", "assess"),
	}
}

// Assess evaluates every rule in the named spec version against the fact
// bag and builds the final report. The only error paths are configuration
// ones (unknown spec version); once scoring starts, a complete report is
// always produced regardless of individual rule failures.
func (a *Assessor) Assess(ctx context.Context, target, specVersion string, bag *facts.Bag) (*Report, error) {
	ruleSet, err := a.registry.Get(specVersion)
	if err != nil {
		return nil, err
	}

	report := Run(ruleSet, bag)
	report.Target = target

	a.logger.Info("assessment complete",
		"target", target,
		"spec_version", specVersion,
		"composite", report.CompositeScore,
		"level", report.Level.String(),
	)
	return report, nil
}

// Run executes the scoring pipeline for one rule set and fact bag and
// builds the immutable report. It is the deterministic core of Assess:
// identical inputs yield identical scores, levels, and evidence; only the
// report ID and timestamp vary between runs.
func Run(ruleSet *spec.RuleSet, bag *facts.Bag) *Report {
	dimensions := make([]DimensionScore, 0, len(ruleSet.Dimensions))
	for _, dim := range ruleSet.Dimensions {
		results := make([]RuleResult, 0, len(dim.Rules))
		for _, rule := range dim.Rules {
			results = append(results, Evaluate(rule, bag))
		}
		dimensions = append(dimensions, AggregateDimension(dim, results))
	}

	composite := Composite(dimensions)
	return &Report{
		ID:             uuid.New().String(),
		SpecVersion:    ruleSet.Version,
		CompositeScore: composite,
		Level:          Classify(composite, ruleSet.Levels),
		Dimensions:     dimensions,
		GeneratedAt:    time.Now().UTC(),
	}
}

// FailedRules returns the results of rules that earned less than full
// credit, across all dimensions, preserving order. Presenters use this to
// surface the evidence trail without rescanning the report.
func (r *Report) FailedRules() []RuleResult {
	var failed []RuleResult
	for _, dim := range r.Dimensions {
		for _, rule := range dim.Rules {
			if rule.Score < 1.0 {
				failed = append(failed, rule)
			}
		}
	}
	return failed
}

// Clone returns a deep copy of the report. Stores use it so a caller
// mutating its report after saving cannot alter the stored history.
func (r *Report) Clone() *Report {
	copied := *r
	copied.Dimensions = make([]DimensionScore, len(r.Dimensions))
	for i, dim := range r.Dimensions {
		copied.Dimensions[i] = dim
		copied.Dimensions[i].Rules = append([]RuleResult(nil), dim.Rules...)
	}
	return &copied
}
