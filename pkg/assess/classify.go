package assess

import "conformance-hq/surveyor/pkg/spec"

// Classify maps a composite score to a conformance level via the rule set's
// ordered thresholds. Thresholds are inclusive at the lower bound of each
// band, so a score exactly at a threshold classifies into the higher band.
// The mapping is deterministic and monotonic non-decreasing in the score.
func Classify(composite int, levels spec.LevelThresholds) Level {
	switch {
	case composite >= levels.Exemplary:
		return L3Exemplary
	case composite >= levels.Compliant:
		return L2Compliant
	case composite >= levels.Baseline:
		return L1Baseline
	default:
		return L0NonConformant
	}
}
