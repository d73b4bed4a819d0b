// Package fleet assesses many independent targets concurrently.
//
// Because assessment of one target is a pure function of its fact bag and a
// read-only rule set, fleet scans are embarrassingly parallel: the Runner
// fans targets out to a bounded worker pool with no shared mutable state
// and no locking in the scoring path. Results arrive in completion order;
// callers that need determinism sort by target.
//
//	runner := fleet.NewRunner(assessor, extractor, &fleet.RunnerConfig{Workers: 8}, logger)
//	results := runner.Scan(ctx, targets, "1.2.0")
//
// A Scheduler can re-run fleet scans on a cron schedule, persisting every
// report to a history store so drift is observable between runs. Prometheus
// metrics cover scan counts, durations, and per-level outcomes.
package fleet
