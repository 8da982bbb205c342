// Package refinement drives the iterative draft/score/critique loop: a
// remote author agent produces narrative drafts, the scoring engine
// evaluates each one, and a critique built from the evaluation steers the
// next draft until the risk target is reached or the iteration budget
// runs out.
package refinement

import (
	"errors"
	"fmt"
	"time"

	"github.com/redlinehq/redline/internal/models"
)

// State is the orchestrator's lifecycle state.
type State string

const (
	StateDrafting   State = "DRAFTING"
	StateScoring    State = "SCORING"
	StateCritiquing State = "CRITIQUING"
	StateTerminated State = "TERMINATED"
)

// TerminationReason explains why a run stopped.
type TerminationReason string

const (
	// TerminationTargetReached means a draft scored at or below the target.
	TerminationTargetReached TerminationReason = "target_reached"
	// TerminationMaxIterations means the iteration budget was exhausted.
	TerminationMaxIterations TerminationReason = "max_iterations_reached"
	// TerminationRemoteFailure means the author agent could not be reached
	// or failed, including context cancellation between iterations.
	TerminationRemoteFailure TerminationReason = "remote_failure"
)

// Config controls a refinement run.
type Config struct {
	// Recipient is the protocol address of the drafting agent.
	Recipient string
	// InitialBrief seeds the first draft request.
	InitialBrief string
	// MaxIterations caps the number of draft/score cycles.
	MaxIterations int
	// TargetRiskScore terminates the run once a draft scores below it.
	// The comparison is exclusive, like the qualifying threshold.
	TargetRiskScore int
	// PerCallTimeout bounds each individual remote call.
	PerCallTimeout time.Duration
}

// DefaultConfig returns the standard run parameters.
func DefaultConfig(recipient, brief string) Config {
	return Config{
		Recipient:       recipient,
		InitialBrief:    brief,
		MaxIterations:   5,
		TargetRiskScore: 20,
		PerCallTimeout:  300 * time.Second,
	}
}

// Validate fails fast on unusable parameters.
func (c Config) Validate() error {
	if c.Recipient == "" {
		return errors.New("refinement: recipient is required")
	}
	if c.InitialBrief == "" {
		return errors.New("refinement: initial brief is required")
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("refinement: max iterations must be at least 1, got %d", c.MaxIterations)
	}
	if c.TargetRiskScore < 0 || c.TargetRiskScore > 100 {
		return fmt.Errorf("refinement: target risk score must be in [0, 100], got %d", c.TargetRiskScore)
	}
	if c.PerCallTimeout <= 0 {
		return fmt.Errorf("refinement: per-call timeout must be positive, got %s", c.PerCallTimeout)
	}
	return nil
}

// Iteration records one draft/score cycle. Critique is nil on the final
// iteration of a run, since no further draft consumes it.
type Iteration struct {
	Number    int                      `json:"number"`
	Narrative models.Narrative         `json:"narrative"`
	Result    *models.EvaluationResult `json:"result"`
	Critique  *Critique                `json:"critique,omitempty"`
}

// Run is the sealed record of a refinement session. Iterations are
// append-only during the run and never mutated after termination.
type Run struct {
	ID          string            `json:"id"`
	Recipient   string            `json:"recipient"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
	Iterations  []Iteration       `json:"iterations"`
	Termination TerminationReason `json:"termination"`
	// FailureDetail is set only for remote_failure terminations.
	FailureDetail string `json:"failure_detail,omitempty"`
}

// Best returns the iteration with the lowest risk score, or nil when the
// run produced no scored drafts.
func (r *Run) Best() *Iteration {
	var best *Iteration
	for i := range r.Iterations {
		it := &r.Iterations[i]
		if it.Result == nil {
			continue
		}
		if best == nil || it.Result.RiskScore < best.Result.RiskScore {
			best = it
		}
	}
	return best
}

// Succeeded reports whether the run ended because a draft met the target.
func (r *Run) Succeeded() bool {
	return r.Termination == TerminationTargetReached
}
