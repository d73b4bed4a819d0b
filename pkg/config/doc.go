// Package config defines Surveyor's configuration model and YAML loading.
//
// Configuration flows through three stages: load the YAML file, apply
// defaults for unset fields, validate the result. Environment variables of
// the form SURVEYOR_SECTION_FIELD override file values and are applied
// between defaulting and validation.
//
// The scoring engine itself needs no configuration beyond the selected
// rule-set version; everything here configures the surrounding tooling
// (rule-set location, fleet scanning, history storage, telemetry).
package config
