package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// yamlRuleSet is the intermediate structure for parsing rule-set YAML.
// It matches the file format before transformation into the validated
// RuleSet model.
type yamlRuleSet struct {
	SpecVersion string          `yaml:"spec_version"`
	Description string          `yaml:"description"`
	Levels      *yamlLevels     `yaml:"levels"`
	Dimensions  []yamlDimension `yaml:"dimensions"`
}

type yamlLevels struct {
	Exemplary int `yaml:"exemplary"`
	Compliant int `yaml:"compliant"`
	Baseline  int `yaml:"baseline"`
}

type yamlDimension struct {
	Name   string     `yaml:"name"`
	Weight float64    `yaml:"weight"`
	Rules  []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	ID          string        `yaml:"id"`
	Description string        `yaml:"description"`
	Weight      *float64      `yaml:"weight"` // pointer to distinguish unset from 0
	Severity    string        `yaml:"severity"`
	Predicate   yamlPredicate `yaml:"predicate"`
}

type yamlPredicate struct {
	Kind      string   `yaml:"kind"`
	Fact      string   `yaml:"fact"`
	Patterns  []string `yaml:"patterns"`
	Operator  string   `yaml:"operator"`
	Value     float64  `yaml:"value"`
	Tolerance float64  `yaml:"tolerance"`
	OtherFact string   `yaml:"other_fact"`
	Compare   string   `yaml:"compare"`
}

// Parse parses a rule set from YAML data and validates it. Pattern
// predicates are compiled here, so an uncompilable regular expression is a
// load-time configuration error rather than an assessment failure.
func Parse(data []byte) (*RuleSet, error) {
	var raw yamlRuleSet
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, NewConfigErrorf("", "yaml", "failed to parse rule set: %v", err)
	}

	rs := &RuleSet{
		Version:     raw.SpecVersion,
		Description: raw.Description,
		Levels:      DefaultLevelThresholds(),
	}
	if raw.Levels != nil {
		rs.Levels = LevelThresholds{
			Exemplary: raw.Levels.Exemplary,
			Compliant: raw.Levels.Compliant,
			Baseline:  raw.Levels.Baseline,
		}
	}

	for _, yd := range raw.Dimensions {
		dim := Dimension{
			Name:   yd.Name,
			Weight: yd.Weight,
		}
		for _, yr := range yd.Rules {
			rule, err := transformRule(raw.SpecVersion, yd.Name, yr)
			if err != nil {
				return nil, err
			}
			dim.Rules = append(dim.Rules, rule)
		}
		rs.Dimensions = append(rs.Dimensions, dim)
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// transformRule converts an intermediate rule into the model, compiling
// patterns and applying defaults (weight 1.0, severity error).
func transformRule(version, dimension string, yr yamlRule) (Rule, error) {
	rule := Rule{
		ID:          yr.ID,
		Dimension:   dimension,
		Description: yr.Description,
		Weight:      1.0,
		Severity:    SeverityError,
	}
	if yr.Weight != nil {
		rule.Weight = *yr.Weight
	}
	if yr.Severity != "" {
		rule.Severity = Severity(yr.Severity)
	}

	p := Predicate{
		Kind:        PredicateKind(yr.Predicate.Kind),
		Fact:        yr.Predicate.Fact,
		RawPatterns: yr.Predicate.Patterns,
		Operator:    CompareOp(yr.Predicate.Operator),
		Value:       yr.Predicate.Value,
		Tolerance:   yr.Predicate.Tolerance,
		OtherFact:   yr.Predicate.OtherFact,
		Compare:     CompareFunc(yr.Predicate.Compare),
	}
	if p.Kind == KindThreshold && p.Operator == "" {
		p.Operator = OpGTE
	}
	if p.Kind == KindCrossReference && p.Compare == "" {
		p.Compare = CompareEqual
	}

	for _, pattern := range yr.Predicate.Patterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return Rule{}, NewConfigErrorf(version, yr.ID, "invalid pattern %q: %v", pattern, err)
		}
		p.Patterns = append(p.Patterns, compiled)
	}

	rule.Predicate = p
	return rule, nil
}

// ParseFile parses and validates a rule set from a YAML file.
func ParseFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigErrorf("", path, "failed to read rule set file: %v", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// ParseDir parses every .yaml/.yml file in a directory, one rule set per
// file, sorted by filename for deterministic load order.
func ParseDir(dir string) ([]*RuleSet, error) {
	var files []string
	for _, glob := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, glob))
		if err != nil {
			return nil, NewConfigErrorf("", dir, "failed to list rule set files: %v", err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, NewConfigErrorf("", dir, "no rule set files found")
	}
	sort.Strings(files)

	sets := make([]*RuleSet, 0, len(files))
	for _, file := range files {
		rs, err := ParseFile(file)
		if err != nil {
			return nil, err
		}
		sets = append(sets, rs)
	}
	return sets, nil
}
