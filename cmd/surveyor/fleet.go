package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"conformance-hq/surveyor/pkg/assess"
	"conformance-hq/surveyor/pkg/cli"
	"conformance-hq/surveyor/pkg/config"
	"conformance-hq/surveyor/pkg/export"
	"conformance-hq/surveyor/pkg/facts"
	"conformance-hq/surveyor/pkg/fleet"
	"conformance-hq/surveyor/pkg/history"
	"conformance-hq/surveyor/pkg/spec"
	"conformance-hq/surveyor/pkg/telemetry/logging"
)

var fleetFlags struct {
	targets     []string
	specVersion string
	rulesDir    string
	workers     int
	format      string
	store       bool
	daemon      bool
	progress    bool
}

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Assess a fleet of targets concurrently",
	Long: `Fleet scans multiple targets with a bounded worker pool and prints one
summary line per target. A failing target never aborts the scan; its
error is reported alongside the completed assessments.

With --daemon the scan recurs on the cron schedule from the
configuration file, persisting every report to the history database,
until interrupted.

Examples:
  # One-shot scan of three repositories
  surveyor fleet --targets ./a,./b,./c --spec-version v1

  # Persist reports and show a progress bar
  surveyor fleet --targets ./a,./b --spec-version v1 --store --progress

  # Recurring scans driven by the config file
  surveyor fleet --daemon --config surveyor.yaml`,
	RunE: runFleet,
}

func init() {
	rootCmd.AddCommand(fleetCmd)

	fleetCmd.Flags().StringSliceVarP(&fleetFlags.targets, "targets", "t", nil, "target paths to scan")
	fleetCmd.Flags().StringVarP(&fleetFlags.specVersion, "spec-version", "s", "", "rule-set version to assess against")
	fleetCmd.Flags().StringVarP(&fleetFlags.rulesDir, "dir", "d", "", "rule-set directory (overrides config)")
	fleetCmd.Flags().IntVarP(&fleetFlags.workers, "workers", "w", 0, "worker pool size (overrides config)")
	fleetCmd.Flags().StringVarP(&fleetFlags.format, "format", "f", "text", "output format: text, json, csv")
	fleetCmd.Flags().BoolVar(&fleetFlags.store, "store", false, "persist reports to the history database")
	fleetCmd.Flags().BoolVar(&fleetFlags.daemon, "daemon", false, "run recurring scans on the configured schedule")
	fleetCmd.Flags().BoolVar(&fleetFlags.progress, "progress", false, "show a progress bar on stderr")
}

func runFleet(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(fleetFlags.format)
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}

	targets := fleetFlags.targets
	if len(targets) == 0 {
		targets = cfg.Fleet.Targets
	}
	specVersion := fleetFlags.specVersion
	if specVersion == "" {
		specVersion = cfg.Fleet.SpecVersion
	}
	if len(targets) == 0 {
		return cli.NewExitError(assess.ExitConfigError,
			cli.NewCommandError("fleet", fmt.Errorf("no targets given (use --targets or the config file)")))
	}
	if specVersion == "" {
		return cli.NewExitError(assess.ExitConfigError,
			cli.NewCommandError("fleet", fmt.Errorf("no rule-set version given (use --spec-version or the config file)")))
	}

	rulesDir := cfg.RuleSets.Dir
	if fleetFlags.rulesDir != "" {
		rulesDir = fleetFlags.rulesDir
	}
	registry, err := spec.LoadDir(rulesDir)
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}

	workers := cfg.Fleet.Workers
	if fleetFlags.workers > 0 {
		workers = fleetFlags.workers
	}

	assessor := assess.NewAssessor(registry, logger.Slog())
	extractor := facts.NewExtractor(logger.Slog())
	runner := fleet.NewRunner(assessor, extractor, &fleet.RunnerConfig{Workers: workers}, logger)

	promRegistry := prometheus.NewRegistry()
	runner = runner.WithMetrics(fleet.NewMetrics(promRegistry))

	var store history.Store
	if fleetFlags.store || fleetFlags.daemon {
		store, err = history.NewSQLiteStore(&history.SQLiteConfig{
			Path:         cfg.History.Path,
			MaxOpenConns: cfg.History.MaxOpenConns,
			WALMode:      cfg.History.WALMode,
			BusyTimeout:  cfg.History.BusyTimeout,
		})
		if err != nil {
			return cli.NewExitError(assess.ExitInternalError, err)
		}
		defer store.Close()
	}

	if fleetFlags.daemon {
		return runFleetDaemon(cfg, registry, runner, store, promRegistry, logger,
			&fleet.SchedulerConfig{
				Schedule:    cfg.Fleet.Schedule,
				Targets:     targets,
				SpecVersion: specVersion,
			})
	}

	ctx := cmd.Context()
	results := scanWithProgress(ctx, runner, targets, specVersion)

	if store != nil {
		for _, result := range results {
			if result.Report == nil {
				continue
			}
			if err := store.Save(ctx, result.Report); err != nil {
				logger.Error("failed to persist report", "target", result.Target, "error", err)
			}
		}
	}

	if err := writeFleetResults(cmd, format, results); err != nil {
		return cli.NewExitError(assess.ExitInternalError, err)
	}

	if code := fleetExitCode(results); code != assess.ExitConformant {
		return cli.NewExitError(code, nil)
	}
	return nil
}

func scanWithProgress(ctx context.Context, runner *fleet.Runner, targets []string, specVersion string) []fleet.Result {
	if !fleetFlags.progress {
		return runner.Scan(ctx, targets, specVersion)
	}

	progress := cli.NewProgressReporter(nil)
	progress.Start(int64(len(targets)))

	done := make(chan []fleet.Result, 1)
	go func() {
		done <- runner.Scan(ctx, targets, specVersion)
	}()

	// The runner does not expose per-target completion, so the bar
	// advances on a timer capped below the total until the scan returns.
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var shown int64
	for {
		select {
		case results := <-done:
			progress.Finish()
			return results
		case <-ticker.C:
			if shown < int64(len(targets))-1 {
				shown++
				progress.Update(shown)
			}
		}
	}
}

func writeFleetResults(cmd *cobra.Command, format cli.OutputFormat, results []fleet.Result) error {
	out := cmd.OutOrStdout()

	if format == cli.FormatText {
		for _, result := range results {
			if result.Err != nil {
				fmt.Fprintf(out, "%-40s FAILED  %v\n", result.Target, result.Err)
				continue
			}
			if err := cli.RenderReportSummary(out, result.Report); err != nil {
				return err
			}
		}
		return nil
	}

	reports := make([]*assess.Report, 0, len(results))
	for _, result := range results {
		if result.Report != nil {
			reports = append(reports, result.Report)
		}
	}
	if format == cli.FormatCSV {
		return export.NewCSVExporter().Export(reports, out)
	}
	return export.NewJSONExporter(true).Export(reports, out)
}

// fleetExitCode folds per-target outcomes into one process exit code:
// extraction failures dominate, then non-conformant targets.
func fleetExitCode(results []fleet.Result) int {
	code := assess.ExitConformant
	for _, result := range results {
		if result.Err != nil {
			return assess.ExitInputError
		}
		if result.Report.Level.ExitCode() != assess.ExitConformant {
			code = assess.ExitNonConformant
		}
	}
	return code
}

func runFleetDaemon(
	cfg *config.Config,
	registry *spec.Registry,
	runner *fleet.Runner,
	store history.Store,
	promRegistry *prometheus.Registry,
	logger *logging.Logger,
	schedCfg *fleet.SchedulerConfig,
) error {
	if schedCfg.Schedule == "" {
		return cli.NewExitError(assess.ExitConfigError,
			cli.NewCommandError("fleet", fmt.Errorf("daemon mode needs fleet.schedule in the config file")))
	}

	ctx := cli.SetupSignalHandler()

	if cfg.RuleSets.Watch {
		watcher, err := spec.NewWatcher(cfg.RuleSets.Dir, registry, logger.Slog())
		if err != nil {
			return cli.NewExitError(assess.ExitConfigError, err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("rule set watcher exited", "error", err)
			}
		}()
	}

	if cfg.Telemetry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: cfg.Telemetry.Metrics.ListenAddress, Handler: mux}
		go func() {
			logger.Info("metrics endpoint listening", "address", cfg.Telemetry.Metrics.ListenAddress)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	scheduler := fleet.NewScheduler(runner, store, schedCfg, logger)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}
	defer scheduler.Stop()

	logger.Info("fleet daemon running", "schedule", schedCfg.Schedule, "targets", len(schedCfg.Targets))
	<-ctx.Done()
	logger.Info("fleet daemon stopping")
	return nil
}
