package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/redlinehq/redline/internal/benchmark"
	"github.com/redlinehq/redline/internal/dataset"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dataset.csv>",
		Short: "Validate the rule set against a labeled dataset",
		Long: `Validate the rule set against a labeled dataset.

Scores every narrative in the CSV, compares the classifications with the
expert labels, and reports accuracy with a confidence interval plus
Cohen's kappa for inter-rater agreement.

The CSV needs a text column (text or narrative) and a label column
(expected or label); an id column is optional.`,
		Args:          cobra.ExactArgs(1),
		RunE:          runValidate,
		SilenceErrors: true,
	}
	cmd.Flags().String("rules", "", "Path to a rule set YAML file (default: built-in rules)")
	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().Int("concurrency", 0, "Max concurrent evaluations (default: number of CPUs)")
	cmd.Flags().Float64("confidence", 0.95, "Confidence level for the accuracy interval")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	rulesPath, _ := cmd.Flags().GetString("rules")
	format, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	confidence, _ := cmd.Flags().GetFloat64("confidence")

	batch, err := dataset.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return fmt.Errorf("dataset %s contains no samples", args[0])
	}

	engine, err := buildEngine(rulesPath)
	if err != nil {
		return err
	}

	runner := benchmark.NewRunner(engine,
		benchmark.WithConcurrency(concurrency),
		benchmark.WithConfidenceLevel(confidence))
	report, err := runner.Run(cmd.Context(), batch)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		renderReport(cmd.OutOrStdout(), report)
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}
}

func renderReport(w io.Writer, report *benchmark.Report) {
	fmt.Fprintf(w, "Samples:   %d\n", report.Total)
	fmt.Fprintf(w, "Correct:   %d\n", report.Correct)
	fmt.Fprintf(w, "Accuracy:  %.1f%% (%.0f%% CI: %.1f%% - %.1f%%, %s)\n",
		report.Accuracy*100,
		report.ConfidenceLevel*100,
		report.AccuracyCI.Lower*100,
		report.AccuracyCI.Upper*100,
		report.AccuracyCI.Method)
	if report.AccuracyCI.SmallSample {
		fmt.Fprintln(w, "           (small sample, interval is approximate)")
	}
	if report.Kappa.Defined {
		fmt.Fprintf(w, "Kappa:     %.3f (observed %.3f, chance %.3f)\n",
			report.Kappa.Kappa, report.Kappa.Observed, report.Kappa.Chance)
	} else {
		fmt.Fprintln(w, "Kappa:     undefined (no label variance)")
	}
	if report.ReviewFlagged > 0 {
		fmt.Fprintf(w, "Review:    %d sample(s) flagged for manual review\n", report.ReviewFlagged)
	}
	if len(report.Misclassified) > 0 {
		fmt.Fprintf(w, "\nMisclassified (%d):\n", len(report.Misclassified))
		for _, m := range report.Misclassified {
			fmt.Fprintf(w, "  %-16s expected %-14s got %-14s (risk %d)\n",
				m.SampleID, m.Expected, m.Predicted, m.RiskScore)
		}
	}
	fmt.Fprintf(w, "\nCompleted in %dms against rules %s\n", report.DurationMs, report.RulesVersion)
}
