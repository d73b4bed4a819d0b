package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"conformance-hq/surveyor/pkg/assess"
	"conformance-hq/surveyor/pkg/cli"
	"conformance-hq/surveyor/pkg/history"
)

var historyFlags struct {
	target string
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query stored assessment reports",
}

var historyTargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List targets with stored reports",
	RunE:  runHistoryTargets,
}

var historyDriftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Compare a target's two most recent reports",
	Long: `Drift diffs the two most recent stored reports for a target and shows
how the composite score, level, and individual rule scores moved.

Exits with code 1 when conformance regressed.

Examples:
  surveyor history drift --target ./my-repo
  surveyor history drift --target ./my-repo --format json`,
	RunE: runHistoryDrift,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyTargetsCmd)
	historyCmd.AddCommand(historyDriftCmd)

	historyDriftCmd.Flags().StringVarP(&historyFlags.target, "target", "t", "", "target path to diff (required)")
	historyDriftCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "text", "output format: text, json")
	_ = historyDriftCmd.MarkFlagRequired("target")
}

func openHistoryStore() (history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return history.NewSQLiteStore(&history.SQLiteConfig{
		Path:         cfg.History.Path,
		MaxOpenConns: cfg.History.MaxOpenConns,
		WALMode:      cfg.History.WALMode,
		BusyTimeout:  cfg.History.BusyTimeout,
	})
}

func runHistoryTargets(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}
	defer store.Close()

	targets, err := store.Targets(cmd.Context())
	if err != nil {
		return cli.NewExitError(assess.ExitInputError, err)
	}

	out := cmd.OutOrStdout()
	for _, target := range targets {
		fmt.Fprintln(out, target)
	}
	return nil
}

func runHistoryDrift(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}
	defer store.Close()

	drift, err := history.Detect(cmd.Context(), store, historyFlags.target)
	if err != nil {
		if errors.Is(err, history.ErrInsufficientHistory) {
			return cli.NewExitError(assess.ExitInputError,
				fmt.Errorf("target %q has fewer than two stored reports", historyFlags.target))
		}
		return cli.NewExitError(assess.ExitInputError, err)
	}

	out := cmd.OutOrStdout()
	if historyFlags.format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(drift); err != nil {
			return cli.NewExitError(assess.ExitInputError, err)
		}
	} else {
		fmt.Fprintf(out, "Target:  %s\n", drift.Target)
		fmt.Fprintf(out, "Score:   %d -> %d (%+d)\n",
			drift.From.CompositeScore, drift.To.CompositeScore, drift.CompositeDelta)
		fmt.Fprintf(out, "Level:   %s -> %s\n", drift.From.Level, drift.To.Level)
		for _, change := range drift.RuleChanges {
			switch {
			case change.From < 0:
				fmt.Fprintf(out, "  + %-30s now %.2f\n", change.RuleID, change.To)
			case change.To < 0:
				fmt.Fprintf(out, "  - %-30s was %.2f\n", change.RuleID, change.From)
			default:
				fmt.Fprintf(out, "  ~ %-30s %.2f -> %.2f\n", change.RuleID, change.From, change.To)
			}
		}
	}

	if drift.Regressed() {
		return cli.NewExitError(assess.ExitNonConformant, nil)
	}
	return nil
}
