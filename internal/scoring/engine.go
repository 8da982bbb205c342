// Package scoring aggregates detector findings and the adversarial guard
// verdict into a single bounded risk score, classification, confidence
// estimate, and redline.
package scoring

import (
	"fmt"
	"math"

	"github.com/redlinehq/redline/internal/adversarial"
	"github.com/redlinehq/redline/internal/detectors"
	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// GuardComponent names the adversarial guard in redline issues. It is
// not a component score: the guard penalty stays a separate additive
// term and classification is computed from the total alone.
const GuardComponent = "adversarial_guard"

// Engine is the narrative scoring pipeline: detectors, then the
// adversarial guard, then aggregation. An Engine is immutable after
// construction and safe for
// concurrent use; each Evaluate call works on its own data.
type Engine struct {
	rules     *rules.RuleSet
	detectors []detectors.Detector
	guard     *adversarial.Guard
}

// NewEngine builds the pipeline from a rule set, failing fast on any
// configuration problem before the first evaluation.
func NewEngine(rs *rules.RuleSet) (*Engine, error) {
	if rs == nil {
		return nil, fmt.Errorf("scoring: nil rule set")
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	dets, err := detectors.Build(rs)
	if err != nil {
		return nil, err
	}

	return &Engine{
		rules:     rs,
		detectors: dets,
		guard:     adversarial.NewGuard(rs.Adversarial),
	}, nil
}

// RulesVersion returns the version of the injected rule set.
func (e *Engine) RulesVersion() string { return e.rules.Version }

// EvaluateNarrative scores a narrative, stamping its ID on the result.
func (e *Engine) EvaluateNarrative(n models.Narrative) *models.EvaluationResult {
	result := e.Evaluate(n.Text)
	result.NarrativeID = n.ID
	return result
}

// Evaluate scores raw text. It always returns a complete result: detector
// failures are recorded as diagnostics, never propagated.
func (e *Engine) Evaluate(text string) *models.EvaluationResult {
	findings := make([]models.DetectorFinding, 0, len(e.detectors))
	componentScores := make(map[string]int, len(e.detectors)+1)
	var diagnostics []string

	sum := 0
	for _, d := range e.detectors {
		f := d.Detect(text)
		if f.Err != "" {
			diagnostics = append(diagnostics, fmt.Sprintf("%s: %s", f.Component, f.Err))
		}
		componentScores[d.Name()] = f.Penalty
		sum += f.Penalty
		findings = append(findings, f)
	}

	guardResult := e.guard.Inspect(text, findings)

	total := clampScore(sum + guardResult.Penalty)
	componentScores[models.TotalPenaltyKey] = total

	threshold := e.rules.Classification.QualifyingThreshold
	classification := models.NonQualifying
	if total < threshold {
		classification = models.Qualifying
	}

	confidence := e.confidence(total)

	return &models.EvaluationResult{
		RiskScore:       total,
		Classification:  classification,
		RiskCategory:    models.CategoryForScore(total),
		Confidence:      confidence,
		ComponentScores: componentScores,
		GuardPenalty:    guardResult.Penalty,
		Redline:         e.buildRedline(findings, guardResult, total),
		RulesVersion:    e.rules.Version,
		NeedsReview:     confidence < 0.5,
		Diagnostics:     diagnostics,
	}
}

// confidence grows linearly with distance from the classification
// boundary, saturating at one review margin away. Scores on the boundary
// get zero confidence and are flagged for human review.
func (e *Engine) confidence(score int) float64 {
	distance := math.Abs(float64(score - e.rules.Classification.QualifyingThreshold))
	margin := float64(e.rules.Classification.ReviewMargin)
	return math.Min(1.0, distance/margin)
}

// buildRedline derives the ordered issue list. Presence detectors
// contribute one issue per distinct flagged pattern; credit detectors
// contribute a single insufficient-evidence issue when penalized; guard
// signatures are always critical.
func (e *Engine) buildRedline(findings []models.DetectorFinding, guard adversarial.Result, total int) models.Redline {
	var issues []models.Issue

	for _, f := range findings {
		severity := severityForShare(f.Penalty, total)

		if f.Favorable {
			if f.Penalty > 0 {
				issues = append(issues, models.Issue{
					Component: f.Component,
					Rule:      "insufficient_evidence",
					Message:   fmt.Sprintf("insufficient %s: %d evidence span(s) found", f.Component, f.EvidenceCount),
					Severity:  severity,
				})
			}
			continue
		}

		if f.Penalty == 0 {
			continue
		}

		// One issue per distinct pattern, first-seen order.
		seen := map[string]bool{}
		counts := map[string]int{}
		var order []string
		for _, sp := range f.Spans {
			counts[sp.Pattern]++
			if !seen[sp.Pattern] {
				seen[sp.Pattern] = true
				order = append(order, sp.Pattern)
			}
		}
		for _, pattern := range order {
			first := firstSpan(f.Spans, pattern)
			issues = append(issues, models.Issue{
				Component: f.Component,
				Rule:      pattern,
				Message:   issueMessage(pattern, counts[pattern]),
				Severity:  severity,
				Snippet:   first.Snippet,
			})
		}
	}

	for _, flag := range guard.Flags {
		issues = append(issues, models.Issue{
			Component: GuardComponent,
			Rule:      string(flag.Signature),
			Message:   fmt.Sprintf("%s: %s", flag.Signature, flag.Detail),
			Severity:  models.SeverityCritical,
		})
	}

	return models.BuildRedline(issues)
}

func issueMessage(pattern string, count int) string {
	switch pattern {
	case detectors.MissingDiscourseRule:
		return "no analytical discourse markers found"
	case detectors.InsufficientContentRule:
		return "narrative too short to establish non-routine work"
	default:
		return fmt.Sprintf("flagged language %q (%d occurrence(s))", pattern, count)
	}
}

func firstSpan(spans []models.Span, pattern string) models.Span {
	for _, sp := range spans {
		if sp.Pattern == pattern {
			return sp
		}
	}
	return models.Span{}
}

// severityForShare tiers a component's issues by its share of the total
// penalty.
func severityForShare(penalty, total int) models.Severity {
	if total <= 0 || penalty <= 0 {
		return models.SeverityMedium
	}
	share := float64(penalty) / float64(total)
	switch {
	case share >= 0.4:
		return models.SeverityCritical
	case share >= 0.2:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
