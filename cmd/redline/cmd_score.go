package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
	"github.com/redlinehq/redline/internal/scoring"
)

func newScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [narrative-file]",
		Short: "Score a single narrative for compliance risk",
		Long: `Score a single narrative for compliance risk.

Reads narrative text from the given file, or from stdin when the argument
is omitted or "-". Prints the risk score, classification, per-component
penalties, and the full redline report.

Exit code is 1 when the narrative is classified NON_QUALIFYING, so the
command composes with shell pipelines.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runScore,
		SilenceErrors: true,
	}
	cmd.Flags().String("rules", "", "Path to a rule set YAML file (default: built-in rules)")
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	rulesPath, _ := cmd.Flags().GetString("rules")
	format, _ := cmd.Flags().GetString("format")

	text, err := readNarrative(args)
	if err != nil {
		return err
	}

	engine, err := buildEngine(rulesPath)
	if err != nil {
		return err
	}

	result := engine.Evaluate(text)

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	case "text":
		renderResult(cmd.OutOrStdout(), result)
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}

	if result.Classification == models.NonQualifying {
		return &NonQualifyingError{
			Message: fmt.Sprintf("narrative classified %s with risk score %d", result.Classification, result.RiskScore),
		}
	}
	return nil
}

func readNarrative(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read narrative: %w", err)
	}
	return string(data), nil
}

func buildEngine(rulesPath string) (*scoring.Engine, error) {
	var (
		rs  *rules.RuleSet
		err error
	)
	if rulesPath != "" {
		rs, err = rules.Load(rulesPath)
	} else {
		rs = rules.Default()
	}
	if err != nil {
		return nil, err
	}
	return scoring.NewEngine(rs)
}

func renderResult(w io.Writer, result *models.EvaluationResult) {
	fmt.Fprintf(w, "Risk score:     %d / 100 (%s)\n", result.RiskScore, result.RiskCategory)
	fmt.Fprintf(w, "Classification: %s\n", result.Classification)
	fmt.Fprintf(w, "Confidence:     %.2f\n", result.Confidence)
	if result.NeedsReview {
		fmt.Fprintln(w, "Needs review:   yes (score is inside the review margin)")
	}
	fmt.Fprintf(w, "Rules version:  %s\n\n", result.RulesVersion)

	fmt.Fprintln(w, "Component penalties:")
	components := make([]string, 0, len(result.ComponentScores))
	for name := range result.ComponentScores {
		if name == models.TotalPenaltyKey {
			continue
		}
		components = append(components, name)
	}
	sort.Strings(components)
	for _, name := range components {
		fmt.Fprintf(w, "  %-28s %d\n", name, result.ComponentScores[name])
	}
	if result.GuardPenalty > 0 {
		fmt.Fprintf(w, "  %-28s %d\n", "adversarial guard", result.GuardPenalty)
	}
	fmt.Fprintln(w)

	if result.Redline.TotalIssues == 0 {
		fmt.Fprintln(w, "Redline: no issues")
	} else {
		fmt.Fprintf(w, "Redline: %d issue(s) (%d critical, %d high, %d medium)\n",
			result.Redline.TotalIssues, result.Redline.Critical, result.Redline.High, result.Redline.Medium)
		for _, issue := range result.Redline.Issues {
			fmt.Fprintf(w, "  [%s] %s: %s\n", strings.ToUpper(string(issue.Severity)), issue.Component, issue.Message)
		}
	}

	for _, diag := range result.Diagnostics {
		fmt.Fprintf(w, "warning: %s\n", diag)
	}
}
