// Surveyor scores filesystem artifact trees against versioned rule sets
// and classifies each target into a conformance level.
//
// It extracts facts from a target tree, evaluates rules grouped into
// weighted dimensions, and produces a 0-100 composite score with a
// discrete level (L0 through L3) and a per-rule evidence trail.
//
// Usage:
//
//	# Assess a single target against a rule-set version
//	surveyor assess ./my-repo --spec-version v1
//
//	# Scan a fleet of targets concurrently
//	surveyor fleet --targets ./repo-a,./repo-b --spec-version v1
//
//	# Validate rule-set files
//	surveyor rules validate --dir rulesets/
//
//	# Compare a target's two most recent stored reports
//	surveyor history drift --target ./my-repo
//
//	# Show version information
//	surveyor version
//
// Exit codes: 0 when the target is conformant (L2 or better), 1 when it
// is not, 2 when the target could not be assessed, 3 when the rule set
// is invalid or unknown, 4 when the assessment completed but the report
// could not be written or stored.
package main

func main() {
	Execute()
}
