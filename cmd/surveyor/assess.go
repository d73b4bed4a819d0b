package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"conformance-hq/surveyor/pkg/assess"
	"conformance-hq/surveyor/pkg/cli"
	"conformance-hq/surveyor/pkg/config"
	"conformance-hq/surveyor/pkg/export"
	"conformance-hq/surveyor/pkg/facts"
	"conformance-hq/surveyor/pkg/history"
	"conformance-hq/surveyor/pkg/spec"
)

var assessFlags struct {
	specVersion string
	rulesDir    string
	format      string
	output      string
	store       bool
}

var assessCmd = &cobra.Command{
	Use:   "assess <target>",
	Short: "Assess a single target against a rule set",
	Long: `Assess extracts facts from the target artifact tree, evaluates every
rule in the requested rule-set version, and prints the resulting report.

Examples:
  # Assess against rule-set version v1
  surveyor assess ./my-repo --spec-version v1

  # JSON output for CI/CD
  surveyor assess ./my-repo --spec-version v1 --format json

  # Persist the report into the history database
  surveyor assess ./my-repo --spec-version v1 --store`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().StringVarP(&assessFlags.specVersion, "spec-version", "s", "", "rule-set version to assess against (required)")
	assessCmd.Flags().StringVarP(&assessFlags.rulesDir, "dir", "d", "", "rule-set directory (overrides config)")
	assessCmd.Flags().StringVarP(&assessFlags.format, "format", "f", "text", "output format: text, json, csv")
	assessCmd.Flags().StringVarP(&assessFlags.output, "output", "o", "", "write the report to a file instead of stdout")
	assessCmd.Flags().BoolVar(&assessFlags.store, "store", false, "persist the report to the history database")
	_ = assessCmd.MarkFlagRequired("spec-version")
}

func runAssess(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cli.ParseFormat(assessFlags.format)
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

	rulesDir := cfg.RuleSets.Dir
	if assessFlags.rulesDir != "" {
		rulesDir = assessFlags.rulesDir
	}
	registry, err := spec.LoadDir(rulesDir)
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}

	extractor := facts.NewExtractor(logger.Slog())
	bag, err := extractor.Extract(cmd.Context(), target)
	if err != nil {
		return cli.NewExitError(assess.ExitInputError, err)
	}

	assessor := assess.NewAssessor(registry, logger.Slog())
	report, err := assessor.Assess(cmd.Context(), target, assessFlags.specVersion, bag)
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}

	if assessFlags.store {
		if err := storeReport(cmd, cfg, report); err != nil {
			return cli.NewExitError(assess.ExitInternalError, err)
		}
	}

	out := cmd.OutOrStdout()
	if assessFlags.output != "" {
		f, err := os.Create(assessFlags.output)
		if err != nil {
			return cli.NewExitError(assess.ExitInternalError, fmt.Errorf("failed to create output file: %w", err))
		}
		defer f.Close()
		out = f
	}

	if err := writeReport(out, format, report); err != nil {
		return cli.NewExitError(assess.ExitInternalError, err)
	}

	if code := report.Level.ExitCode(); code != assess.ExitConformant {
		return cli.NewExitError(code, nil)
	}
	return nil
}

func writeReport(w io.Writer, format cli.OutputFormat, report *assess.Report) error {
	switch format {
	case cli.FormatJSON:
		return export.NewJSONExporter(true).Export([]*assess.Report{report}, w)
	case cli.FormatCSV:
		return export.NewCSVExporter().Export([]*assess.Report{report}, w)
	default:
		return cli.RenderReport(w, report)
	}
}

// storeReport saves a report to the SQLite history database named in the
// configuration, regardless of whether history is enabled there, since
// the user asked explicitly.
func storeReport(cmd *cobra.Command, cfg *config.Config, report *assess.Report) error {
	store, err := history.NewSQLiteStore(&history.SQLiteConfig{
		Path:         cfg.History.Path,
		MaxOpenConns: cfg.History.MaxOpenConns,
		WALMode:      cfg.History.WALMode,
		BusyTimeout:  cfg.History.BusyTimeout,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(cmd.Context(), report)
}
