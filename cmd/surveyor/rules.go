package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"conformance-hq/surveyor/pkg/assess"
	"conformance-hq/surveyor/pkg/cli"
	"conformance-hq/surveyor/pkg/spec"
)

var rulesFlags struct {
	dir  string
	file string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate rule sets",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rule-set versions and their dimensions",
	Long: `List loads every rule set from the rules directory and prints each
version with its dimensions, weights, and rule counts.`,
	RunE: runRulesList,
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate rule-set files",
	Long: `Validate parses rule-set files and checks their structural invariants:
dimension weights summing to 1.0, unique rule identifiers, well-formed
predicates, compilable patterns, and descending level thresholds.

Exits with code 3 when any file is invalid.

Examples:
  # Validate a directory of rule sets
  surveyor rules validate --dir rulesets/

  # Validate a single file
  surveyor rules validate --file rulesets/v1.yaml`,
	RunE: runRulesValidate,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesValidateCmd)

	rulesCmd.PersistentFlags().StringVarP(&rulesFlags.dir, "dir", "d", "", "rule-set directory (overrides config)")
	rulesValidateCmd.Flags().StringVarP(&rulesFlags.file, "file", "f", "", "single rule-set file to validate")
}

func rulesDir() (string, error) {
	if rulesFlags.dir != "" {
		return rulesFlags.dir, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.RuleSets.Dir, nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	dir, err := rulesDir()
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}

	registry, err := spec.LoadDir(dir)
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}

	out := cmd.OutOrStdout()
	for _, version := range registry.Versions() {
		ruleSet, err := registry.Get(version)
		if err != nil {
			return cli.NewExitError(assess.ExitConfigError, err)
		}

		rules := 0
		for _, dim := range ruleSet.Dimensions {
			rules += len(dim.Rules)
		}
		fmt.Fprintf(out, "%s  (%d dimensions, %d rules)\n", ruleSet.Version, len(ruleSet.Dimensions), rules)
		for _, dim := range ruleSet.Dimensions {
			fmt.Fprintf(out, "  %-24s weight %.2f  %d rule(s)\n", dim.Name, dim.Weight, len(dim.Rules))
		}
	}
	return nil
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if rulesFlags.file != "" {
		ruleSet, err := spec.ParseFile(rulesFlags.file)
		if err != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", rulesFlags.file, err)
			return cli.NewExitError(assess.ExitConfigError, nil)
		}
		fmt.Fprintf(out, "✓ %s: version %s valid\n", rulesFlags.file, ruleSet.Version)
		return nil
	}

	dir, err := rulesDir()
	if err != nil {
		return cli.NewExitError(assess.ExitConfigError, err)
	}

	sets, err := spec.ParseDir(dir)
	if err != nil {
		fmt.Fprintf(out, "✗ %s: %v\n", dir, err)
		return cli.NewExitError(assess.ExitConfigError, nil)
	}

	for _, ruleSet := range sets {
		fmt.Fprintf(out, "✓ version %s valid\n", ruleSet.Version)
	}
	fmt.Fprintf(out, "%d rule set(s) valid\n", len(sets))
	return nil
}
