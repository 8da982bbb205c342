package detectors

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// experimentationParams are the rule-set params for the experimentation
// detector.
type experimentationParams struct {
	// MinDistinctPatterns: evidence from fewer distinct patterns than
	// this earns no credit, so a single repeated keyword cannot clear
	// the component on its own.
	MinDistinctPatterns int `mapstructure:"min_distinct_patterns"`
}

// experimentationDetector is a credit-style detector: the component
// starts at its full ceiling and genuine experimentation evidence
// (hypotheses, tested alternatives, documented failures) earns it back.
// An empty narrative therefore scores worst-case, not "unscored".
type experimentationDetector struct {
	weight      int
	patterns    []compiledPattern
	minDistinct int
}

// NewExperimentationDetector builds the detector from its rule config.
func NewExperimentationDetector(cfg rules.DetectorConfig) (*experimentationDetector, error) {
	var params experimentationParams
	if err := mapstructure.Decode(cfg.Params, &params); err != nil {
		return nil, err
	}
	if params.MinDistinctPatterns < 1 {
		params.MinDistinctPatterns = 1
	}

	pats, err := compilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return &experimentationDetector{
		weight:      cfg.Weight,
		patterns:    pats,
		minDistinct: params.MinDistinctPatterns,
	}, nil
}

func (d *experimentationDetector) Name() string { return rules.ComponentExperimentation }
func (d *experimentationDetector) Weight() int  { return d.weight }

func (d *experimentationDetector) Detect(text string) models.DetectorFinding {
	return safeDetect(d.Name(), func() models.DetectorFinding {
		res := scan(text, d.patterns)

		credit := res.points
		if len(res.byPattern) < d.minDistinct {
			credit = 0
		}

		return models.DetectorFinding{
			Component:     d.Name(),
			Penalty:       d.weight - clamp(credit, 0, d.weight),
			EvidenceCount: len(res.spans),
			Spans:         res.spans,
			Favorable:     true,
		}
	})
}

var _ Detector = (*experimentationDetector)(nil)
