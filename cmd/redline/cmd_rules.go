package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redlinehq/redline/internal/rules"
)

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate rule sets",
	}
	cmd.AddCommand(newRulesCheckCommand())
	cmd.AddCommand(newRulesShowCommand())
	return cmd
}

func newRulesCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <rules.yaml>",
		Short: "Validate a rule set file",
		Long: `Validate a rule set file against the schema and semantic rules:
detector names, weight totals, pattern syntax, and guard parameters.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := rules.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (version %s, %d detectors)\n",
				args[0], rs.Version, len(rs.Detectors))
			return nil
		},
	}
}

func newRulesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the built-in rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := rules.Default()
			fmt.Fprintf(cmd.OutOrStdout(), "version: %s\n", rs.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "qualifying threshold: %d, review margin: %d\n\n",
				rs.Classification.QualifyingThreshold, rs.Classification.ReviewMargin)
			for _, det := range rs.Detectors {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s weight %-3d %d pattern(s)\n",
					det.Name, det.Weight, len(det.Patterns))
			}
			return nil
		},
	}
}
