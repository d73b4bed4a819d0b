package fleet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"conformance-hq/surveyor/pkg/assess"
	"conformance-hq/surveyor/pkg/facts"
	"conformance-hq/surveyor/pkg/telemetry/logging"
)

// Result is the outcome of assessing one target during a fleet scan.
// Exactly one of Report or Err is set: Err carries extraction or
// configuration failures that prevented scoring.
type Result struct {
	// Target is the target path that was scanned.
	Target string

	// Report is the completed assessment, nil if Err is set.
	Report *assess.Report

	// Err is the pre-scoring failure, nil if Report is set.
	Err error

	// Duration is the wall time spent on this target.
	Duration time.Duration
}

// RunnerConfig contains configuration for the fleet runner.
type RunnerConfig struct {
	// Workers is the size of the worker pool. Default: 4.
	Workers int
}

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() *RunnerConfig {
	return &RunnerConfig{Workers: 4}
}

// Runner assesses a set of targets concurrently with a bounded worker
// pool. It is safe for concurrent use; each Scan call gets its own pool.
type Runner struct {
	assessor  *assess.Assessor
	extractor *facts.Extractor
	config    *RunnerConfig
	logger    *logging.Logger
	metrics   *Metrics
}

// NewRunner creates a fleet runner.
func NewRunner(assessor *assess.Assessor, extractor *facts.Extractor, config *RunnerConfig, logger *logging.Logger) *Runner {
	if config == nil {
		config = DefaultRunnerConfig()
	}
	if config.Workers <= 0 {
		config.Workers = DefaultRunnerConfig().Workers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		assessor:  assessor,
		extractor: extractor,
		config:    config,
		logger:    logger.With("component", "fleet.runner"),
	}
}

// WithMetrics attaches scan metrics to the runner.
func (r *Runner) WithMetrics(metrics *Metrics) *Runner {
	r.metrics = metrics
	return r
}

// Scan assesses every target against the given spec version and returns one
// Result per target, in completion order. Cancelling the context stops
// workers from picking up further targets; targets already being assessed
// finish, since single-target assessment is fast and total.
func (r *Runner) Scan(ctx context.Context, targets []string, specVersion string) []Result {
	ctx = logging.WithScanID(ctx, uuid.NewString())
	ctx = logging.WithSpecVersion(ctx, specVersion)

	jobs := make(chan string)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < r.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				results <- r.scanOne(ctx, target, specVersion)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, target := range targets {
			select {
			case <-ctx.Done():
				return
			case jobs <- target:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]Result, 0, len(targets))
	for result := range results {
		collected = append(collected, result)
	}

	r.logger.InfoContext(ctx, "fleet scan complete",
		"targets", len(targets),
		"assessed", len(collected),
	)
	return collected
}

// scanOne extracts facts and assesses a single target.
func (r *Runner) scanOne(ctx context.Context, target, specVersion string) Result {
	ctx = logging.WithTarget(ctx, target)
	start := time.Now()

	bag, err := r.extractor.Extract(ctx, target)
	if err != nil {
		r.logger.WarnContext(ctx, "target skipped", "error", err)
		result := Result{Target: target, Err: err, Duration: time.Since(start)}
		r.observe(result)
		return result
	}

	report, err := r.assessor.Assess(ctx, target, specVersion, bag)
	result := Result{
		Target:   target,
		Report:   report,
		Err:      err,
		Duration: time.Since(start),
	}
	r.observe(result)
	return result
}

func (r *Runner) observe(result Result) {
	if r.metrics == nil {
		return
	}
	r.metrics.Observe(result)
}
