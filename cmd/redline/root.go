package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redline",
		Short: "Redline - narrative compliance scoring engine",
		Long: `Redline scores qualification narratives for compliance risk.

It runs pattern detectors over narrative text, aggregates the penalties
into a risk score with a full redline report, validates rule sets against
labeled datasets, and drives iterative refinement loops against a remote
drafting agent.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newRefineCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newRulesCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
