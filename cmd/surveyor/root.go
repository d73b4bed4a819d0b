package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"conformance-hq/surveyor/pkg/cli"
	"conformance-hq/surveyor/pkg/config"
	"conformance-hq/surveyor/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "surveyor",
	Short: "Surveyor - conformance scoring for artifact trees",
	Long: `Surveyor scores filesystem artifact trees against versioned rule sets
and classifies each target into a conformance level.

It extracts facts from a target tree, evaluates rules grouped into
weighted dimensions, and produces a 0-100 composite score with a
discrete level (L0 through L3) and a per-rule evidence trail.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command, mapping command errors to the
// documented process exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintln(os.Stderr, exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file when one was given, or the
// defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// newLogger builds the process logger from configuration, with --verbose
// forcing debug level.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
	})
}
