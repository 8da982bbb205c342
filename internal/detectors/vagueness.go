package detectors

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// MissingDiscourseRule labels the synthetic span recorded when a
// narrative contains no analytical discourse markers at all.
const MissingDiscourseRule = "missing_analytical_discourse"

type vaguenessParams struct {
	// BaselinePoints is added when the text contains none of the
	// DiscourseMarkers. Text without a single causal or analytical
	// connective reads as filler regardless of its keywords.
	BaselinePoints   int      `mapstructure:"baseline_points"`
	DiscourseMarkers []string `mapstructure:"discourse_markers"`
}

// vaguenessDetector penalizes filler and marketing language, plus an
// information-density baseline for text with no analytical discourse.
type vaguenessDetector struct {
	weight   int
	patterns []compiledPattern
	params   vaguenessParams
}

func NewVaguenessDetector(cfg rules.DetectorConfig) (*vaguenessDetector, error) {
	var params vaguenessParams
	if err := mapstructure.Decode(cfg.Params, &params); err != nil {
		return nil, err
	}

	pats, err := compilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return &vaguenessDetector{weight: cfg.Weight, patterns: pats, params: params}, nil
}

func (d *vaguenessDetector) Name() string { return rules.ComponentVagueness }
func (d *vaguenessDetector) Weight() int  { return d.weight }

func (d *vaguenessDetector) Detect(text string) models.DetectorFinding {
	return safeDetect(d.Name(), func() models.DetectorFinding {
		res := scan(text, d.patterns)
		penalty := res.points

		if d.params.BaselinePoints > 0 && len(d.params.DiscourseMarkers) > 0 &&
			!containsAny(text, d.params.DiscourseMarkers) {
			penalty += d.params.BaselinePoints
			res.spans = append(res.spans, models.Span{Pattern: MissingDiscourseRule})
		}

		return models.DetectorFinding{
			Component:     d.Name(),
			Penalty:       clamp(penalty, 0, d.weight),
			EvidenceCount: len(res.spans),
			Spans:         res.spans,
		}
	})
}

var _ Detector = (*vaguenessDetector)(nil)
