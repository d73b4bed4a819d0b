package assess

import "conformance-hq/surveyor/pkg/spec"

// AggregateDimension combines the rule results of one dimension into its
// dimension score: a weighted mean where each rule's score is weighted by
// the rule's weight within the dimension. Higher-weight rules dominate;
// severity plays no part in the arithmetic.
//
// A dimension with no rules, or whose rule weights sum to zero, is vacuous
// and scores 1.0 by convention so targets without that dimension's
// artifacts are not penalized for it.
//
// results must be in the same order as dim.Rules.
func AggregateDimension(dim spec.Dimension, results []RuleResult) DimensionScore {
	score := DimensionScore{
		Name:   dim.Name,
		Weight: dim.Weight,
		Rules:  results,
	}

	var weightSum, weightedScore float64
	for i, rule := range dim.Rules {
		if i >= len(results) {
			break
		}
		weightSum += rule.Weight
		weightedScore += rule.Weight * clampUnit(results[i].Score)
	}

	if weightSum == 0 {
		score.RawScore = 1.0
		return score
	}

	score.RawScore = clampUnit(weightedScore / weightSum)
	return score
}
