package detectors

import (
	"fmt"

	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// Detector is the capability interface for one rubric dimension. A
// detector maps text to a bounded penalty plus supporting evidence. It is
// stateless across calls and must never panic out of Detect; internal
// failures surface as a zero-penalty finding with Err set.
type Detector interface {
	// Name returns the component name, matching the rule-set entry.
	Name() string

	// Weight returns the component's penalty ceiling.
	Weight() int

	// Detect scores the text. The returned penalty is already clamped
	// to [0, Weight].
	Detect(text string) models.DetectorFinding
}

// Build constructs the full detector list from a validated rule set, in
// fixed aggregation order.
func Build(rs *rules.RuleSet) ([]Detector, error) {
	out := make([]Detector, 0, len(rules.KnownComponents))
	for _, name := range rules.KnownComponents {
		cfg := rs.Detector(name)
		if cfg == nil {
			return nil, fmt.Errorf("detectors: rule set missing %q", name)
		}
		d, err := Create(*cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Create constructs a single detector from its rule configuration.
func Create(cfg rules.DetectorConfig) (Detector, error) {
	switch cfg.Name {
	case rules.ComponentExperimentation:
		return NewExperimentationDetector(cfg)
	case rules.ComponentSpecificity:
		return NewSpecificityDetector(cfg)
	case rules.ComponentVagueness:
		return NewVaguenessDetector(cfg)
	case rules.ComponentRoutine:
		return NewRoutineDetector(cfg)
	case rules.ComponentBusinessRisk:
		return NewBusinessRiskDetector(cfg)
	default:
		return nil, fmt.Errorf("detectors: %q is not a valid detector name", cfg.Name)
	}
}

// safeDetect runs fn, converting any panic into a zero-penalty finding
// with the failure recorded. Malformed input must never abort an
// evaluation.
func safeDetect(name string, fn func() models.DetectorFinding) (finding models.DetectorFinding) {
	defer func() {
		if r := recover(); r != nil {
			finding = models.DetectorFinding{
				Component: name,
				Err:       fmt.Sprintf("detector panic: %v", r),
			}
		}
	}()
	return fn()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
