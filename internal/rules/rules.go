package rules

import (
	"fmt"
	"regexp"
)

// Canonical detector component names. A rule set must configure exactly
// these five, in any order.
const (
	ComponentExperimentation = "experimentation_evidence"
	ComponentSpecificity     = "specificity"
	ComponentVagueness       = "vagueness"
	ComponentRoutine         = "routine_engineering"
	ComponentBusinessRisk    = "business_risk"
)

// KnownComponents lists the five detector names in aggregation order.
var KnownComponents = []string{
	ComponentExperimentation,
	ComponentSpecificity,
	ComponentVagueness,
	ComponentRoutine,
	ComponentBusinessRisk,
}

// Pattern is one weighted phrase or regex entry in a detector table.
// Match is a case-insensitive literal; Regex is a case-insensitive regular
// expression. Exactly one of the two must be set.
type Pattern struct {
	Match     string `yaml:"match,omitempty" json:"match,omitempty"`
	Regex     string `yaml:"regex,omitempty" json:"regex,omitempty"`
	Points    int    `yaml:"points" json:"points"`
	Negatable bool   `yaml:"negatable,omitempty" json:"negatable,omitempty"`
}

// Label returns the identifier used for this pattern in spans and
// repetition analysis.
func (p Pattern) Label() string {
	if p.Match != "" {
		return p.Match
	}
	return p.Regex
}

// DetectorConfig configures one detector: its component weight ceiling,
// pattern table, and detector-specific params (decoded by the detector
// itself).
type DetectorConfig struct {
	Name     string         `yaml:"name" json:"name"`
	Weight   int            `yaml:"weight" json:"weight"`
	Patterns []Pattern      `yaml:"patterns" json:"patterns"`
	Params   map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// ClassificationRules holds the aggregation thresholds.
type ClassificationRules struct {
	// QualifyingThreshold: risk scores strictly below this classify
	// QUALIFYING.
	QualifyingThreshold int `yaml:"qualifying_threshold" json:"qualifying_threshold"`
	// ReviewMargin: scores within this distance of the threshold yield
	// low confidence.
	ReviewMargin int `yaml:"review_margin" json:"review_margin"`
}

// AdversarialRules tunes the gaming guard. RepetitionThreshold and
// NormalizeStems are deliberately configurable: stem normalization
// conflates varied phrasing of one root concept ("tested"/"testing"),
// which is aggressive on legitimately varied narratives and needs
// empirical calibration per rule-set version.
type AdversarialRules struct {
	RepetitionThreshold int  `yaml:"repetition_threshold" json:"repetition_threshold"`
	WindowWords         int  `yaml:"window_words" json:"window_words"`
	NormalizeStems      bool `yaml:"normalize_stems" json:"normalize_stems"`
	StuffingPenalty     int  `yaml:"stuffing_penalty" json:"stuffing_penalty"`
	TemplatePenalty     int  `yaml:"template_penalty" json:"template_penalty"`
	PaddingPenalty      int  `yaml:"padding_penalty" json:"padding_penalty"`
}

// RuleSet is one versioned, immutable rule configuration. Rule sets are
// injected into detector construction; there is no global mutable table.
type RuleSet struct {
	Version        string              `yaml:"version" json:"version"`
	Classification ClassificationRules `yaml:"classification" json:"classification"`
	Detectors      []DetectorConfig    `yaml:"detectors" json:"detectors"`
	Adversarial    AdversarialRules    `yaml:"adversarial" json:"adversarial"`
}

// Detector returns the config for a named component, or nil.
func (rs *RuleSet) Detector(name string) *DetectorConfig {
	for i := range rs.Detectors {
		if rs.Detectors[i].Name == name {
			return &rs.Detectors[i]
		}
	}
	return nil
}

// Validate checks structural invariants that the JSON schema cannot
// express. Called at construction time; evaluation never starts on an
// invalid rule set.
func (rs *RuleSet) Validate() error {
	if rs.Version == "" {
		return fmt.Errorf("rules: version is required")
	}

	c := rs.Classification
	if c.QualifyingThreshold <= 0 || c.QualifyingThreshold >= 100 {
		return fmt.Errorf("rules: qualifying_threshold must be in (0,100), got %d", c.QualifyingThreshold)
	}
	if c.ReviewMargin <= 0 || c.ReviewMargin > 50 {
		return fmt.Errorf("rules: review_margin must be in (0,50], got %d", c.ReviewMargin)
	}

	if len(rs.Detectors) != len(KnownComponents) {
		return fmt.Errorf("rules: expected %d detectors, got %d", len(KnownComponents), len(rs.Detectors))
	}

	seen := map[string]bool{}
	weightSum := 0
	for _, d := range rs.Detectors {
		if !isKnownComponent(d.Name) {
			return fmt.Errorf("rules: unknown detector %q", d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("rules: duplicate detector %q", d.Name)
		}
		seen[d.Name] = true

		if d.Weight <= 0 || d.Weight > 100 {
			return fmt.Errorf("rules: detector %q weight must be in (0,100], got %d", d.Name, d.Weight)
		}
		weightSum += d.Weight

		if len(d.Patterns) == 0 {
			return fmt.Errorf("rules: detector %q has no patterns", d.Name)
		}
		for i, p := range d.Patterns {
			if (p.Match == "") == (p.Regex == "") {
				return fmt.Errorf("rules: detector %q pattern %d must set exactly one of match/regex", d.Name, i)
			}
			if p.Points <= 0 {
				return fmt.Errorf("rules: detector %q pattern %q points must be > 0", d.Name, p.Label())
			}
			if p.Regex != "" {
				if _, err := regexp.Compile("(?i)" + p.Regex); err != nil {
					return fmt.Errorf("rules: detector %q pattern %q: %w", d.Name, p.Regex, err)
				}
			}
		}
	}
	if weightSum != 100 {
		return fmt.Errorf("rules: detector weights must sum to 100, got %d", weightSum)
	}

	a := rs.Adversarial
	if a.RepetitionThreshold < 2 {
		return fmt.Errorf("rules: adversarial repetition_threshold must be >= 2, got %d", a.RepetitionThreshold)
	}
	if a.WindowWords <= 0 {
		return fmt.Errorf("rules: adversarial window_words must be > 0, got %d", a.WindowWords)
	}
	if a.StuffingPenalty < 0 || a.TemplatePenalty < 0 || a.PaddingPenalty < 0 {
		return fmt.Errorf("rules: adversarial penalties must be >= 0")
	}

	return nil
}

func isKnownComponent(name string) bool {
	for _, k := range KnownComponents {
		if k == name {
			return true
		}
	}
	return false
}
