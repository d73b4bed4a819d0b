package assess

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"conformance-hq/surveyor/pkg/facts"
	"conformance-hq/surveyor/pkg/spec"
)

// Evaluate evaluates one rule against a fact bag. It is a pure function
// with no I/O and never returns an error: a predicate that cannot proceed
// yields a zero-score result whose evidence describes the failure, so one
// malformed rule never aborts assessment of the remaining rules.
func Evaluate(rule spec.Rule, bag *facts.Bag) RuleResult {
	result := RuleResult{
		RuleID:   rule.ID,
		Severity: rule.Severity,
	}

	var score float64
	var evidence string

	switch rule.Predicate.Kind {
	case spec.KindExistence:
		score, evidence = evaluateExistence(rule.Predicate, bag)
	case spec.KindPattern:
		score, evidence = evaluatePattern(rule.Predicate, bag)
	case spec.KindThreshold:
		score, evidence = evaluateThreshold(rule.Predicate, bag)
	case spec.KindCrossReference:
		score, evidence = evaluateCrossReference(rule.Predicate, bag)
	default:
		score, evidence = 0, fmt.Sprintf("cannot evaluate: unknown predicate kind %q", rule.Predicate.Kind)
	}

	result.Score = clampUnit(score)
	result.Evidence = evidence
	return result
}

// evaluateExistence scores 1.0 if the fact is present and non-empty.
func evaluateExistence(p spec.Predicate, bag *facts.Bag) (float64, string) {
	if !bag.Has(p.Fact) {
		return 0, fmt.Sprintf("fact %q is absent", p.Fact)
	}
	if s, ok := bag.String(p.Fact); ok && strings.TrimSpace(s) == "" {
		return 0, fmt.Sprintf("fact %q is present but empty", p.Fact)
	}
	if b, ok := bag.Bool(p.Fact); ok && !b {
		return 0, fmt.Sprintf("fact %q is false", p.Fact)
	}
	return 1, fmt.Sprintf("fact %q is present", p.Fact)
}

// evaluatePattern scores the fraction of required sub-patterns matching the
// fact's string value.
func evaluatePattern(p spec.Predicate, bag *facts.Bag) (float64, string) {
	value, ok := bag.String(p.Fact)
	if !ok {
		if bag.Has(p.Fact) {
			return 0, fmt.Sprintf("cannot evaluate: fact %q is not a string", p.Fact)
		}
		return 0, fmt.Sprintf("cannot evaluate: fact %q is absent", p.Fact)
	}
	if len(p.Patterns) == 0 {
		return 0, "cannot evaluate: no patterns configured"
	}

	matched := 0
	var missing []string
	for i, pattern := range p.Patterns {
		if pattern.MatchString(value) {
			matched++
		} else if i < len(p.RawPatterns) {
			missing = append(missing, p.RawPatterns[i])
		}
	}

	score := float64(matched) / float64(len(p.Patterns))
	if matched == len(p.Patterns) {
		return score, fmt.Sprintf("all %d required patterns matched fact %q", len(p.Patterns), p.Fact)
	}
	return score, fmt.Sprintf("matched %d of %d required patterns against fact %q; unmatched: %s",
		matched, len(p.Patterns), p.Fact, strings.Join(missing, ", "))
}

// evaluateThreshold compares a numeric fact against the rule's threshold.
// For gte/lte with a tolerance band, values inside the band earn graduated
// credit proportional to distance from the band edge.
func evaluateThreshold(p spec.Predicate, bag *facts.Bag) (float64, string) {
	value, ok := bag.Number(p.Fact)
	if !ok {
		if bag.Has(p.Fact) {
			return 0, fmt.Sprintf("cannot evaluate: fact %q is not numeric", p.Fact)
		}
		return 0, fmt.Sprintf("cannot evaluate: fact %q is absent", p.Fact)
	}

	satisfied := false
	switch p.Operator {
	case spec.OpGTE:
		satisfied = value >= p.Value
	case spec.OpLTE:
		satisfied = value <= p.Value
	case spec.OpGT:
		satisfied = value > p.Value
	case spec.OpLT:
		satisfied = value < p.Value
	case spec.OpEQ:
		satisfied = value == p.Value
	default:
		return 0, fmt.Sprintf("cannot evaluate: unknown operator %q", p.Operator)
	}

	if satisfied {
		return 1, fmt.Sprintf("fact %q = %s satisfies %s %s",
			p.Fact, formatNumber(value), p.Operator, formatNumber(p.Value))
	}

	// Graduated credit inside the tolerance band.
	if p.Tolerance > 0 {
		var distance float64
		switch p.Operator {
		case spec.OpGTE:
			distance = p.Value - value
		case spec.OpLTE:
			distance = value - p.Value
		}
		if distance > 0 && distance < p.Tolerance {
			credit := 1 - distance/p.Tolerance
			return credit, fmt.Sprintf("fact %q = %s misses %s %s by %s, within tolerance %s (credit %.2f)",
				p.Fact, formatNumber(value), p.Operator, formatNumber(p.Value),
				formatNumber(distance), formatNumber(p.Tolerance), credit)
		}
	}

	return 0, fmt.Sprintf("fact %q = %s does not satisfy %s %s",
		p.Fact, formatNumber(value), p.Operator, formatNumber(p.Value))
}

// evaluateCrossReference checks that two facts agree under the rule's
// comparison function.
func evaluateCrossReference(p spec.Predicate, bag *facts.Bag) (float64, string) {
	if !bag.Has(p.Fact) {
		return 0, fmt.Sprintf("cannot evaluate: fact %q is absent", p.Fact)
	}
	if !bag.Has(p.OtherFact) {
		return 0, fmt.Sprintf("cannot evaluate: fact %q is absent", p.OtherFact)
	}

	switch p.Compare {
	case spec.CompareEqual, spec.CompareEqualFold:
		left, lok := bag.String(p.Fact)
		right, rok := bag.String(p.OtherFact)
		if !lok || !rok {
			return 0, fmt.Sprintf("cannot evaluate: facts %q and %q must both be strings for %s",
				p.Fact, p.OtherFact, p.Compare)
		}
		agree := left == right
		if p.Compare == spec.CompareEqualFold {
			agree = strings.EqualFold(left, right)
		}
		if agree {
			return 1, fmt.Sprintf("facts %q and %q agree (%q)", p.Fact, p.OtherFact, left)
		}
		return 0, fmt.Sprintf("facts %q = %q and %q = %q disagree", p.Fact, left, p.OtherFact, right)

	case spec.CompareNumeric:
		left, lok := bag.Number(p.Fact)
		right, rok := bag.Number(p.OtherFact)
		if !lok || !rok {
			return 0, fmt.Sprintf("cannot evaluate: facts %q and %q must both be numeric for %s",
				p.Fact, p.OtherFact, p.Compare)
		}
		if left == right {
			return 1, fmt.Sprintf("facts %q and %q agree (%s)", p.Fact, p.OtherFact, formatNumber(left))
		}
		return 0, fmt.Sprintf("facts %q = %s and %q = %s disagree",
			p.Fact, formatNumber(left), p.OtherFact, formatNumber(right))

	default:
		return 0, fmt.Sprintf("cannot evaluate: unknown compare function %q", p.Compare)
	}
}

// clampUnit clamps a score to [0,1].
func clampUnit(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// formatNumber renders a float without trailing zeros for evidence strings.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
