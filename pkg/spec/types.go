package spec

import (
	"math"
	"regexp"
)

// WeightEpsilon is the tolerance used when checking that dimension weights
// sum to 1.0.
const WeightEpsilon = 1e-6

// Severity indicates how a rule failure is surfaced in reports. It is
// reporting metadata only: warnings score identically to errors and never
// by themselves block a conformance level.
type Severity string

const (
	// SeverityError marks a rule whose failure is a conformance defect.
	SeverityError Severity = "error"

	// SeverityWarning marks a rule surfaced for visibility only.
	SeverityWarning Severity = "warning"
)

// PredicateKind selects the evaluation strategy for a rule. The set is
// closed: each kind has exactly one pure evaluator in the assess package.
type PredicateKind string

const (
	// KindExistence scores 1.0 if the referenced fact is present and
	// non-empty, else 0.0.
	KindExistence PredicateKind = "existence"

	// KindPattern scores the fraction of required sub-patterns that match
	// the fact's string value.
	KindPattern PredicateKind = "pattern"

	// KindThreshold scores a numeric fact against a comparison, with
	// optional graduated credit inside a tolerance band.
	KindThreshold PredicateKind = "threshold"

	// KindCrossReference scores 1.0 if two named facts agree under the
	// rule's comparison function, else 0.0.
	KindCrossReference PredicateKind = "cross_reference"
)

// CompareOp is the comparison operator for threshold predicates.
type CompareOp string

const (
	OpGTE CompareOp = "gte"
	OpLTE CompareOp = "lte"
	OpGT  CompareOp = "gt"
	OpLT  CompareOp = "lt"
	OpEQ  CompareOp = "eq"
)

// CompareFunc names the agreement function for cross_reference predicates.
type CompareFunc string

const (
	// CompareEqual requires byte-for-byte equal string values.
	CompareEqual CompareFunc = "equal"

	// CompareEqualFold requires case-insensitively equal string values.
	CompareEqualFold CompareFunc = "equal_fold"

	// CompareNumeric requires numerically equal values.
	CompareNumeric CompareFunc = "numeric_equal"
)

// Predicate describes how a rule is evaluated against a fact bag.
// Which fields are meaningful depends on Kind; the YAML parser rejects
// predicates missing the fields their kind requires.
type Predicate struct {
	// Kind selects the evaluation strategy.
	Kind PredicateKind

	// Fact is the primary fact key the predicate reads.
	Fact string

	// Patterns holds the compiled required sub-patterns (pattern kind).
	Patterns []*regexp.Regexp

	// RawPatterns preserves the pattern sources for reporting.
	RawPatterns []string

	// Operator is the threshold comparison (threshold kind).
	Operator CompareOp

	// Value is the threshold value (threshold kind).
	Value float64

	// Tolerance widens the threshold into a band with graduated partial
	// credit (threshold kind, gte/lte only). Zero disables the band.
	Tolerance float64

	// OtherFact is the second fact key (cross_reference kind).
	OtherFact string

	// Compare is the agreement function (cross_reference kind).
	Compare CompareFunc
}

// Rule is a single testable requirement within a dimension.
type Rule struct {
	// ID uniquely identifies the rule within its rule set.
	ID string

	// Dimension is the name of the dimension the rule belongs to.
	Dimension string

	// Description is a human-readable statement of the requirement.
	Description string

	// Weight is the rule's non-negative weight within its dimension.
	Weight float64

	// Severity is error or warning; it does not affect scoring.
	Severity Severity

	// Predicate describes how the rule is evaluated.
	Predicate Predicate
}

// Dimension is a weighted grouping of related rules.
type Dimension struct {
	// Name identifies the dimension within its rule set.
	Name string

	// Weight is the dimension's share of the composite score. Weights
	// across a rule set must sum to 1.0 within WeightEpsilon.
	Weight float64

	// Rules are the rules evaluated for this dimension, in file order.
	Rules []Rule
}

// LevelThresholds holds the minimum composite score for each conformance
// level above L0. Thresholds are inclusive at the lower bound and must be
// strictly descending.
type LevelThresholds struct {
	Exemplary int `yaml:"exemplary"`
	Compliant int `yaml:"compliant"`
	Baseline  int `yaml:"baseline"`
}

// DefaultLevelThresholds returns the standard 90/60/30 banding used when a
// rule set does not override thresholds.
func DefaultLevelThresholds() LevelThresholds {
	return LevelThresholds{Exemplary: 90, Compliant: 60, Baseline: 30}
}

// RuleSet is one immutable, versioned set of conformance rules.
type RuleSet struct {
	// Version is the specification version this rule set implements.
	Version string

	// Description is a human-readable summary of the rule set.
	Description string

	// Levels are the classification thresholds for this rule set.
	Levels LevelThresholds

	// Dimensions are the weighted dimensions, in file order.
	Dimensions []Dimension
}

// RuleCount returns the total number of rules across all dimensions.
func (rs *RuleSet) RuleCount() int {
	n := 0
	for _, d := range rs.Dimensions {
		n += len(d.Rules)
	}
	return n
}

// WeightSum returns the sum of dimension weights.
func (rs *RuleSet) WeightSum() float64 {
	sum := 0.0
	for _, d := range rs.Dimensions {
		sum += d.Weight
	}
	return sum
}

// Validate checks the structural invariants a rule set must hold before it
// can be registered: a version identifier, dimension weights summing to 1.0
// within WeightEpsilon, non-negative rule weights, unique rule IDs, and
// ordered level thresholds. Violations are configuration errors, never
// per-assessment errors.
func (rs *RuleSet) Validate() error {
	if rs.Version == "" {
		return NewConfigError(rs.Version, "spec_version", "rule set must declare a spec_version")
	}
	if len(rs.Dimensions) == 0 {
		return NewConfigError(rs.Version, "dimensions", "rule set must declare at least one dimension")
	}

	if sum := rs.WeightSum(); math.Abs(sum-1.0) > WeightEpsilon {
		return NewConfigErrorf(rs.Version, "dimensions", "dimension weights sum to %.6f, must sum to 1.0", sum)
	}

	seenDims := make(map[string]bool, len(rs.Dimensions))
	seenRules := make(map[string]bool, rs.RuleCount())
	for _, dim := range rs.Dimensions {
		if dim.Name == "" {
			return NewConfigError(rs.Version, "dimensions", "dimension name cannot be empty")
		}
		if seenDims[dim.Name] {
			return NewConfigErrorf(rs.Version, "dimensions", "duplicate dimension %q", dim.Name)
		}
		seenDims[dim.Name] = true

		if dim.Weight < 0 {
			return NewConfigErrorf(rs.Version, dim.Name, "dimension weight %.4f is negative", dim.Weight)
		}

		for _, rule := range dim.Rules {
			if rule.ID == "" {
				return NewConfigErrorf(rs.Version, dim.Name, "rule id cannot be empty")
			}
			if seenRules[rule.ID] {
				return NewConfigErrorf(rs.Version, rule.ID, "duplicate rule id")
			}
			seenRules[rule.ID] = true

			if rule.Weight < 0 {
				return NewConfigErrorf(rs.Version, rule.ID, "rule weight %.4f is negative", rule.Weight)
			}
			if rule.Severity != SeverityError && rule.Severity != SeverityWarning {
				return NewConfigErrorf(rs.Version, rule.ID, "unknown severity %q", rule.Severity)
			}
			if err := validatePredicate(rs.Version, rule); err != nil {
				return err
			}
		}
	}

	lv := rs.Levels
	if !(lv.Exemplary > lv.Compliant && lv.Compliant > lv.Baseline && lv.Baseline > 0) {
		return NewConfigErrorf(rs.Version, "levels",
			"level thresholds must be strictly descending and positive, got %d/%d/%d",
			lv.Exemplary, lv.Compliant, lv.Baseline)
	}
	if lv.Exemplary > 100 {
		return NewConfigErrorf(rs.Version, "levels", "exemplary threshold %d exceeds 100", lv.Exemplary)
	}

	return nil
}

// validatePredicate checks that a predicate carries the fields its kind
// requires.
func validatePredicate(version string, rule Rule) error {
	p := rule.Predicate
	if p.Fact == "" {
		return NewConfigErrorf(version, rule.ID, "predicate must name a fact")
	}

	switch p.Kind {
	case KindExistence:
		return nil
	case KindPattern:
		if len(p.Patterns) == 0 {
			return NewConfigErrorf(version, rule.ID, "pattern predicate requires at least one pattern")
		}
	case KindThreshold:
		switch p.Operator {
		case OpGTE, OpLTE, OpGT, OpLT, OpEQ:
		default:
			return NewConfigErrorf(version, rule.ID, "unknown threshold operator %q", p.Operator)
		}
		if p.Tolerance < 0 {
			return NewConfigErrorf(version, rule.ID, "tolerance %.4f is negative", p.Tolerance)
		}
		if p.Tolerance > 0 && p.Operator != OpGTE && p.Operator != OpLTE {
			return NewConfigErrorf(version, rule.ID, "tolerance requires operator gte or lte, got %q", p.Operator)
		}
	case KindCrossReference:
		if p.OtherFact == "" {
			return NewConfigErrorf(version, rule.ID, "cross_reference predicate requires other_fact")
		}
		switch p.Compare {
		case CompareEqual, CompareEqualFold, CompareNumeric:
		default:
			return NewConfigErrorf(version, rule.ID, "unknown compare function %q", p.Compare)
		}
	default:
		return NewConfigErrorf(version, rule.ID, "unknown predicate kind %q", p.Kind)
	}

	return nil
}
