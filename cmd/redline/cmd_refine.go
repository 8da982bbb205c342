package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/redlinehq/redline/internal/protocol"
	"github.com/redlinehq/redline/internal/refinement"
	"github.com/redlinehq/redline/internal/transcript"
)

func newRefineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine <brief-file>",
		Short: "Iteratively refine a narrative with a remote drafting agent",
		Long: `Iteratively refine a narrative with a remote drafting agent.

Sends the brief to the agent, scores each draft, and feeds a critique of
the redline issues back until the risk target is reached or the iteration
budget runs out. The full run history can be saved as a compressed
transcript for later audit.`,
		Args:          cobra.ExactArgs(1),
		RunE:          runRefine,
		SilenceErrors: true,
	}
	cmd.Flags().String("rules", "", "Path to a rule set YAML file (default: built-in rules)")
	cmd.Flags().String("endpoint", "http://localhost:8088", "Base URL of the agent protocol endpoint")
	cmd.Flags().String("recipient", "drafter", "Protocol address of the drafting agent")
	cmd.Flags().Int("max-iterations", 5, "Maximum draft/score cycles")
	cmd.Flags().Int("target", 20, "Target risk score that ends the run")
	cmd.Flags().Duration("call-timeout", 300*time.Second, "Timeout for each remote call")
	cmd.Flags().String("transcript-dir", "", "Directory to write the run transcript (omit to skip)")
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

func runRefine(cmd *cobra.Command, args []string) error {
	rulesPath, _ := cmd.Flags().GetString("rules")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	recipient, _ := cmd.Flags().GetString("recipient")
	maxIterations, _ := cmd.Flags().GetInt("max-iterations")
	target, _ := cmd.Flags().GetInt("target")
	callTimeout, _ := cmd.Flags().GetDuration("call-timeout")
	transcriptDir, _ := cmd.Flags().GetString("transcript-dir")
	format, _ := cmd.Flags().GetString("format")

	brief, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read brief: %w", err)
	}

	engine, err := buildEngine(rulesPath)
	if err != nil {
		return err
	}
	client, err := protocol.NewHTTPClient(endpoint)
	if err != nil {
		return err
	}

	cfg := refinement.Config{
		Recipient:       recipient,
		InitialBrief:    string(brief),
		MaxIterations:   maxIterations,
		TargetRiskScore: target,
		PerCallTimeout:  callTimeout,
	}
	orch, err := refinement.NewOrchestrator(client, engine, cfg)
	if err != nil {
		return err
	}

	run := orch.Run(cmd.Context())

	if transcriptDir != "" {
		path, err := transcript.Write(transcriptDir, run)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "transcript written to %s\n", path)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(run); err != nil {
			return err
		}
	case "text":
		renderRun(cmd.OutOrStdout(), run)
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}

	if run.Termination == refinement.TerminationRemoteFailure {
		return fmt.Errorf("refinement run %s failed: %s", run.ID, run.FailureDetail)
	}
	if !run.Succeeded() {
		best := run.Best()
		score := -1
		if best != nil {
			score = best.Result.RiskScore
		}
		return &NonQualifyingError{
			Message: fmt.Sprintf("target not reached after %d iteration(s), best risk score %d", len(run.Iterations), score),
		}
	}
	return nil
}

func renderRun(w io.Writer, run *refinement.Run) {
	fmt.Fprintf(w, "Run %s (%s)\n", run.ID, run.Termination)
	for _, it := range run.Iterations {
		fmt.Fprintf(w, "  iteration %d: risk %d (%s)\n",
			it.Number, it.Result.RiskScore, it.Result.Classification)
	}
	if best := run.Best(); best != nil {
		fmt.Fprintf(w, "\nBest draft (iteration %d, risk %d):\n%s\n",
			best.Number, best.Result.RiskScore, best.Narrative.Text)
	}
}
