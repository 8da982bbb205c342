package detectors

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// InsufficientContentRule labels the synthetic span recorded when a
// narrative is too short to establish non-routine work.
const InsufficientContentRule = "insufficient_content"

type routineParams struct {
	// MinWords: below this length the narrative cannot be distinguished
	// from routine engineering, so the component scores worst-case. This
	// is the trivial-baseline floor for empty and near-empty input.
	MinWords int `mapstructure:"min_words"`
}

// routineDetector penalizes routine-engineering language: bug fixes,
// maintenance, ports, upgrades, and similar excluded activity.
type routineDetector struct {
	weight   int
	patterns []compiledPattern
	minWords int
}

func NewRoutineDetector(cfg rules.DetectorConfig) (*routineDetector, error) {
	var params routineParams
	if err := mapstructure.Decode(cfg.Params, &params); err != nil {
		return nil, err
	}

	pats, err := compilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return &routineDetector{weight: cfg.Weight, patterns: pats, minWords: params.MinWords}, nil
}

func (d *routineDetector) Name() string { return rules.ComponentRoutine }
func (d *routineDetector) Weight() int  { return d.weight }

func (d *routineDetector) Detect(text string) models.DetectorFinding {
	return safeDetect(d.Name(), func() models.DetectorFinding {
		res := scan(text, d.patterns)

		// The length gate counts only words outside routine matches, so
		// padding a short narrative with the very language this component
		// penalizes cannot move it past min_words and into a lower
		// scanned penalty.
		if d.minWords > 0 && wordCount(text)-spanWordCount(res.spans) < d.minWords {
			spans := append(res.spans, models.Span{Pattern: InsufficientContentRule})
			return models.DetectorFinding{
				Component:     d.Name(),
				Penalty:       d.weight,
				EvidenceCount: len(spans),
				Spans:         spans,
			}
		}

		return models.DetectorFinding{
			Component:     d.Name(),
			Penalty:       clamp(res.points, 0, d.weight),
			EvidenceCount: len(res.spans),
			Spans:         res.spans,
		}
	})
}

var _ Detector = (*routineDetector)(nil)
