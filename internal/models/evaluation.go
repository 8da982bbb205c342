package models

// Classification is the two-way verdict on a narrative.
type Classification string

const (
	Qualifying    Classification = "QUALIFYING"
	NonQualifying Classification = "NON_QUALIFYING"
)

// RiskCategory buckets the total risk score into fixed bands.
type RiskCategory string

const (
	RiskLow      RiskCategory = "LOW"
	RiskModerate RiskCategory = "MODERATE"
	RiskHigh     RiskCategory = "HIGH"
	RiskVeryHigh RiskCategory = "VERY_HIGH"
	RiskCritical RiskCategory = "CRITICAL"
)

// CategoryForScore maps a risk score in [0,100] to its band.
func CategoryForScore(score int) RiskCategory {
	switch {
	case score < 20:
		return RiskLow
	case score < 40:
		return RiskModerate
	case score < 60:
		return RiskHigh
	case score < 80:
		return RiskVeryHigh
	default:
		return RiskCritical
	}
}

// Span records a single pattern match inside the narrative text, kept for
// redline reporting.
type Span struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Snippet string `json:"snippet"`
	Pattern string `json:"pattern"`
}

// DetectorFinding is the per-detector output of one evaluation. Findings
// are ephemeral and recomputed on every call.
type DetectorFinding struct {
	Component     string `json:"component"`
	Penalty       int    `json:"penalty"`
	EvidenceCount int    `json:"evidence_count"`
	Spans         []Span `json:"spans,omitempty"`

	// Favorable marks credit-style findings whose spans represent
	// qualifying evidence rather than violations. The adversarial guard
	// only inspects favorable evidence.
	Favorable bool `json:"favorable,omitempty"`

	// Err carries a recovered internal failure. The detector still
	// returns a zero-penalty finding; the aggregator records Err as a
	// diagnostic instead of failing the evaluation.
	Err string `json:"error,omitempty"`
}

// TotalPenaltyKey is the synthetic component_scores entry holding the
// arithmetic sum of all component penalties plus the guard penalty.
const TotalPenaltyKey = "total_penalty"

// EvaluationResult is the complete, immutable output of scoring one
// narrative. ComponentScores holds one bounded entry per detector plus
// the TotalPenaltyKey sum; consumers rely on that sum equalling the five
// component values plus GuardPenalty.
type EvaluationResult struct {
	NarrativeID     string         `json:"narrative_id,omitempty"`
	RiskScore       int            `json:"risk_score"`
	Classification  Classification `json:"classification"`
	RiskCategory    RiskCategory   `json:"risk_category"`
	Confidence      float64        `json:"confidence"`
	ComponentScores map[string]int `json:"component_scores"`
	GuardPenalty    int            `json:"guard_penalty"`
	Redline         Redline        `json:"redline"`
	RulesVersion    string         `json:"rules_version"`

	// NeedsReview is set when the score lands inside the review margin
	// around the classification boundary.
	NeedsReview bool `json:"needs_review"`

	// Diagnostics lists detectors that failed internally during this
	// evaluation. An empty list means every component score is genuine.
	Diagnostics []string `json:"diagnostics,omitempty"`
}
