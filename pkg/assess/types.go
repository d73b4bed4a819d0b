package assess

import (
	"encoding/json"
	"fmt"
	"time"

	"conformance-hq/surveyor/pkg/spec"
)

// Level is the discrete conformance classification derived from a composite
// score. Levels are ordered: a higher level always means a score at least
// as high.
type Level int

const (
	// L0NonConformant is below every threshold.
	L0NonConformant Level = iota

	// L1Baseline meets the baseline threshold but not compliance.
	L1Baseline

	// L2Compliant meets the compliance gate; release-blocking checks pass.
	L2Compliant

	// L3Exemplary meets the highest threshold.
	L3Exemplary
)

// levelNames are the wire names for each level.
var levelNames = [...]string{
	"L0_NonConformant",
	"L1_Baseline",
	"L2_Compliant",
	"L3_Exemplary",
}

func (l Level) String() string {
	if l < L0NonConformant || l > L3Exemplary {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalJSON encodes the level by its wire name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its wire name.
func (l *Level) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range levelNames {
		if n == name {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown conformance level %q", name)
}

// Exit codes forming the CLI contract around assessment outcomes.
const (
	// ExitConformant means the target reached L2 or higher.
	ExitConformant = 0

	// ExitNonConformant means the target scored below L2.
	ExitNonConformant = 1

	// ExitInputError means the target could not be assessed at all
	// (missing path, fact extraction failure).
	ExitInputError = 2

	// ExitConfigError means the rule set was invalid or unknown.
	ExitConfigError = 3

	// ExitInternalError means assessment completed but the report could
	// not be delivered (output file or history write failure).
	ExitInternalError = 4
)

// ExitCode returns the process exit code for a classified level: success
// for L2 and above, failure below.
func (l Level) ExitCode() int {
	if l >= L2Compliant {
		return ExitConformant
	}
	return ExitNonConformant
}

// RuleResult is the outcome of evaluating a single rule against a fact bag.
type RuleResult struct {
	// RuleID identifies the rule within its rule set.
	RuleID string `json:"id"`

	// Score is the rule's credit in [0,1]. 1.0 is a full pass; pattern and
	// banded threshold rules may earn partial credit.
	Score float64 `json:"score"`

	// Severity is the rule's declared severity, carried for reporting.
	Severity spec.Severity `json:"severity"`

	// Evidence explains why the rule passed, failed, or could not be
	// evaluated. It is always non-empty.
	Evidence string `json:"evidence"`
}

// DimensionScore is the aggregated outcome of one dimension.
type DimensionScore struct {
	// Name is the dimension name.
	Name string `json:"name"`

	// Weight is the dimension's share of the composite score.
	Weight float64 `json:"weight"`

	// RawScore is the weighted mean of rule scores, in [0,1]. A dimension
	// with no applicable rules scores 1.0 by convention.
	RawScore float64 `json:"raw_score"`

	// Rules are the per-rule results in rule-set order.
	Rules []RuleResult `json:"rules"`
}

// Report is the immutable final product of one assessment. It is the only
// object handed to presenters, exporters, and the history store.
type Report struct {
	// ID uniquely identifies this assessment run.
	ID string `json:"id"`

	// Target names the assessed artifact tree.
	Target string `json:"target"`

	// SpecVersion is the rule-set version the target was assessed against.
	SpecVersion string `json:"spec_version"`

	// CompositeScore is the 0-100 weighted percentage across dimensions.
	CompositeScore int `json:"composite_score"`

	// Level is the classification of CompositeScore.
	Level Level `json:"level"`

	// Dimensions carry per-dimension scores and evidence, in rule-set order.
	Dimensions []DimensionScore `json:"dimensions"`

	// GeneratedAt is when the report was built (UTC).
	GeneratedAt time.Time `json:"generated_at"`
}
