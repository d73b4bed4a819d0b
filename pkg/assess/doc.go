// Package assess implements the conformance scoring and classification
// engine: rule evaluation against a fact bag, weighted dimension
// aggregation, composite scoring, and ordered-threshold level
// classification.
//
// # Pipeline
//
// Assessment of one target is a synchronous, side-effect-free pipeline:
//
//	Fact Bag + Rule Set
//	     |
//	Evaluate        - one RuleResult per rule, failures isolated
//	     |
//	AggregateDimension - weighted mean per dimension
//	     |
//	Composite       - 0-100 weighted percentage, round half to even
//	     |
//	Classify        - ordered thresholds to L0..L3
//	     |
//	Report          - immutable, uuid-identified, timestamped
//
// Every stage is a pure function of its inputs, so identical fact bags and
// rule sets always produce identical scores; only the report's ID and
// timestamp differ between runs. Assessments of independent targets share
// no mutable state and may run concurrently without locking.
//
// # Failure Isolation
//
// Evaluate never returns an error. A predicate that cannot proceed (fact
// absent, value the wrong type) yields a zero-score RuleResult whose
// evidence explains the failure, so one malformed rule cannot suppress the
// rest of the report. The only errors that abort assessment happen before
// scoring: an unknown spec version or invalid rule set (configuration) and
// a fact bag that could not be built (input).
//
// # Basic Usage
//
//	assessor := assess.NewAssessor(registry, logger)
//	report, err := assessor.Assess(ctx, "billing-service", "1.2.0", bag)
//	if err != nil {
//	    // spec.ConfigError or ErrUnknownSpecVersion - nothing was scored
//	}
//	os.Exit(report.Level.ExitCode())
package assess
