// Package spec defines the rule model for conformance assessment and the
// versioned registry that holds loaded rule sets.
//
// A rule set is versioned specification data supplied externally as YAML:
// dimensions with weights that must sum to 1.0, rules with per-dimension
// weights and a predicate describing how the rule is evaluated against a
// fact bag, and the level thresholds that classify a composite score.
//
// # Rule Set Lifecycle
//
// Rule sets are parsed and validated once at load time and are read-only
// thereafter. Validation failures (weights not summing to 1.0, duplicate
// rule IDs, uncompilable patterns, misordered level thresholds) are
// configuration errors that abort before any target is evaluated; they are
// never per-assessment failures.
//
//	registry, err := spec.LoadDir("rulesets/")
//	if err != nil {
//	    // *spec.ConfigError - exit code 3
//	}
//	ruleSet, err := registry.Get("1.2.0")
//	if err != nil {
//	    // spec.ErrUnknownSpecVersion - exit code 3
//	}
//
// # Hot Reload
//
// A Watcher can observe the rule-set directory and atomically replace the
// registry contents when files change, so long-running fleet scans pick up
// new specification versions without a restart. Assessments in flight keep
// the rule set they started with.
package spec
