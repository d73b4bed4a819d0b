package fleet

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"conformance-hq/surveyor/pkg/history"
	"conformance-hq/surveyor/pkg/telemetry/logging"
)

// SchedulerConfig contains configuration for recurring fleet scans.
type SchedulerConfig struct {
	// Schedule is a standard cron expression, e.g. "0 3 * * *" for daily
	// at 3 AM. Empty disables the scheduler.
	Schedule string

	// Targets are the target paths scanned each run.
	Targets []string

	// SpecVersion is the rule-set version scanned against.
	SpecVersion string
}

// Scheduler runs recurring fleet scans on a cron schedule, persisting every
// completed report to a history store so drift between runs is queryable.
type Scheduler struct {
	runner  *Runner
	store   history.Store
	config  *SchedulerConfig
	cron    *cron.Cron
	logger  *logging.Logger
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler around an existing runner and store.
func NewScheduler(runner *Runner, store history.Store, config *SchedulerConfig, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		runner: runner,
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: logger.With("component", "fleet.scheduler"),
	}
}

// Start begins scheduled scanning. With an empty schedule it does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if s.config.Schedule == "" {
		s.logger.Info("scan schedule not configured, scheduler idle")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runScan(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule fleet scan: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("fleet scan scheduler started",
		"schedule", s.config.Schedule,
		"targets", len(s.config.Targets),
		"spec_version", s.config.SpecVersion,
	)
	return nil
}

// Stop halts scheduling and waits for an in-flight scan to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("fleet scan scheduler stopped")
}

// RunOnce performs one scheduled-style scan immediately. Used by the
// scheduler's cron callback and exposed for CLI-triggered runs.
func (s *Scheduler) RunOnce(ctx context.Context) []Result {
	return s.runScan(ctx)
}

func (s *Scheduler) runScan(ctx context.Context) []Result {
	results := s.runner.Scan(ctx, s.config.Targets, s.config.SpecVersion)

	stored, failed := 0, 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		if err := s.store.Save(ctx, result.Report); err != nil {
			s.logger.Error("failed to persist report",
				"target", result.Target,
				"error", err,
			)
			continue
		}
		stored++
	}

	s.logger.Info("scheduled fleet scan finished",
		"stored", stored,
		"failed", failed,
	)
	return results
}
