package refinement

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/protocol"
	"github.com/redlinehq/redline/internal/scoring"
)

// Orchestrator runs the refinement loop against a drafting agent.
type Orchestrator struct {
	client protocol.Client
	engine *scoring.Engine
	cfg    Config
	logger *slog.Logger

	listeners []ProgressListener
}

// ProgressListener receives state transitions as they happen.
type ProgressListener func(event ProgressEvent)

// ProgressEvent describes one state transition during a run.
type ProgressEvent struct {
	State     State
	Iteration int
	RiskScore int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithProgressListener registers a listener for state transitions.
func WithProgressListener(fn ProgressListener) Option {
	return func(o *Orchestrator) {
		o.listeners = append(o.listeners, fn)
	}
}

// NewOrchestrator validates the config and wires up a run loop.
func NewOrchestrator(client protocol.Client, engine *scoring.Engine, cfg Config, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		client: client,
		engine: engine,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes the refinement loop and always returns a sealed Run, even
// when the remote agent fails. The caller inspects Termination to tell
// success from failure.
func (o *Orchestrator) Run(ctx context.Context) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		Recipient: o.cfg.Recipient,
		StartedAt: time.Now().UTC(),
	}
	o.logger.Info("refinement run starting",
		"run_id", run.ID,
		"recipient", o.cfg.Recipient,
		"max_iterations", o.cfg.MaxIterations,
		"target_risk_score", o.cfg.TargetRiskScore)

	prompt := o.cfg.InitialBrief
	for n := 1; n <= o.cfg.MaxIterations; n++ {
		// Cancellation between iterations terminates the run as a remote
		// failure so partial history is preserved.
		if err := ctx.Err(); err != nil {
			o.seal(run, TerminationRemoteFailure, err.Error())
			return run
		}

		o.emit(ProgressEvent{State: StateDrafting, Iteration: n})
		o.logger.Debug("requesting draft", "run_id", run.ID, "iteration", n)

		text, err := o.draft(ctx, prompt)
		if err != nil {
			o.logger.Error("draft request failed", "run_id", run.ID, "iteration", n, "error", err)
			o.seal(run, TerminationRemoteFailure, err.Error())
			return run
		}

		o.emit(ProgressEvent{State: StateScoring, Iteration: n})
		narrative := models.NewNarrative(text)
		result := o.engine.EvaluateNarrative(narrative)

		iteration := Iteration{Number: n, Narrative: narrative, Result: result}
		run.Iterations = append(run.Iterations, iteration)

		o.logger.Info("draft scored",
			"run_id", run.ID,
			"iteration", n,
			"risk_score", result.RiskScore,
			"classification", result.Classification)
		o.emit(ProgressEvent{State: StateScoring, Iteration: n, RiskScore: result.RiskScore})

		// The target is exclusive, matching the qualifying threshold: a
		// score equal to it has not reached the target.
		if result.RiskScore < o.cfg.TargetRiskScore {
			o.seal(run, TerminationTargetReached, "")
			return run
		}
		if n == o.cfg.MaxIterations {
			break
		}

		o.emit(ProgressEvent{State: StateCritiquing, Iteration: n, RiskScore: result.RiskScore})
		critique := BuildCritique(result)
		run.Iterations[len(run.Iterations)-1].Critique = critique
		prompt = critique.Prompt()
	}

	o.seal(run, TerminationMaxIterations, "")
	return run
}

// draft requests one narrative from the remote agent under the per-call
// timeout.
func (o *Orchestrator) draft(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.PerCallTimeout)
	defer cancel()

	resp, err := o.client.Send(callCtx, protocol.SendRequest{
		Recipient: o.cfg.Recipient,
		Text:      prompt,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

func (o *Orchestrator) seal(run *Run, reason TerminationReason, detail string) {
	run.Termination = reason
	run.FailureDetail = detail
	run.CompletedAt = time.Now().UTC()
	o.emit(ProgressEvent{State: StateTerminated, Iteration: len(run.Iterations)})
	o.logger.Info("refinement run terminated",
		"run_id", run.ID,
		"reason", reason,
		"iterations", len(run.Iterations))
}

func (o *Orchestrator) emit(event ProgressEvent) {
	for _, fn := range o.listeners {
		fn(event)
	}
}
