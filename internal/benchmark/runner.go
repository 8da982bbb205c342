// Package benchmark scores labeled narrative batches and measures
// agreement between the engine's classifications and expert labels.
package benchmark

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/scoring"
	"github.com/redlinehq/redline/internal/statistics"
)

// Misclassification records one disagreement with the expert label.
type Misclassification struct {
	SampleID  string                `json:"sample_id"`
	Expected  models.Classification `json:"expected"`
	Predicted models.Classification `json:"predicted"`
	RiskScore int                   `json:"risk_score"`
}

// Report summarizes a validation batch run.
type Report struct {
	RulesVersion    string                     `json:"rules_version"`
	Total           int                        `json:"total"`
	Correct         int                        `json:"correct"`
	Accuracy        float64                    `json:"accuracy"`
	AccuracyCI      statistics.ProportionCI    `json:"accuracy_ci"`
	Kappa           statistics.KappaResult     `json:"kappa"`
	Misclassified   []Misclassification        `json:"misclassified,omitempty"`
	DurationMs      int64                      `json:"duration_ms"`
	ConfidenceLevel float64                    `json:"confidence_level"`
	ReviewFlagged   int                        `json:"review_flagged"`
	Results         []*models.EvaluationResult `json:"-"`
}

// Runner evaluates validation batches concurrently.
type Runner struct {
	engine          *scoring.Engine
	logger          *slog.Logger
	concurrency     int
	confidenceLevel float64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency caps parallel evaluations. Defaults to GOMAXPROCS.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithConfidenceLevel sets the CI confidence level. Defaults to 0.95.
func WithConfidenceLevel(level float64) RunnerOption {
	return func(r *Runner) {
		if level > 0 && level < 1 {
			r.confidenceLevel = level
		}
	}
}

// WithRunnerLogger sets the structured logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a benchmark runner over the given engine.
func NewRunner(engine *scoring.Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:          engine,
		logger:          slog.Default(),
		concurrency:     runtime.GOMAXPROCS(0),
		confidenceLevel: 0.95,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run scores every sample in the batch and builds the agreement report.
// Evaluation order does not affect the report; samples carry their index.
func (r *Runner) Run(ctx context.Context, batch models.ValidationBatch) (*Report, error) {
	start := time.Now()
	results := make([]*models.EvaluationResult, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.engine.Evaluate(batch[i].Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		RulesVersion:    r.engine.RulesVersion(),
		Total:           len(batch),
		ConfidenceLevel: r.confidenceLevel,
		Results:         results,
	}

	pairs := make([]statistics.LabelPair, 0, len(batch))
	for i, sample := range batch {
		res := results[i]
		pairs = append(pairs, statistics.LabelPair{
			Predicted: res.Classification,
			Expected:  sample.Expected,
		})
		if res.NeedsReview {
			report.ReviewFlagged++
		}
		if res.Classification == sample.Expected {
			report.Correct++
			continue
		}
		report.Misclassified = append(report.Misclassified, Misclassification{
			SampleID:  sample.ID,
			Expected:  sample.Expected,
			Predicted: res.Classification,
			RiskScore: res.RiskScore,
		})
	}

	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
		ci, err := statistics.AccuracyCI(report.Correct, report.Total, r.confidenceLevel)
		if err != nil {
			return nil, err
		}
		report.AccuracyCI = ci
	}

	kappa, err := statistics.CohenKappa(pairs)
	if err == nil {
		report.Kappa = kappa
	}

	report.DurationMs = time.Since(start).Milliseconds()
	r.logger.Info("benchmark complete",
		"total", report.Total,
		"accuracy", report.Accuracy,
		"kappa", report.Kappa.Kappa,
		"duration_ms", report.DurationMs)
	return report, nil
}
