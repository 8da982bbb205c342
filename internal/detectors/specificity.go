package detectors

import (
	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// specificityDetector is the second credit-style detector: concrete
// numbers, units, measured deltas, and technical vocabulary earn credit
// against the ceiling. Prose with nothing concrete keeps full penalty.
type specificityDetector struct {
	weight   int
	patterns []compiledPattern
}

func NewSpecificityDetector(cfg rules.DetectorConfig) (*specificityDetector, error) {
	pats, err := compilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return &specificityDetector{weight: cfg.Weight, patterns: pats}, nil
}

func (d *specificityDetector) Name() string { return rules.ComponentSpecificity }
func (d *specificityDetector) Weight() int  { return d.weight }

func (d *specificityDetector) Detect(text string) models.DetectorFinding {
	return safeDetect(d.Name(), func() models.DetectorFinding {
		res := scan(text, d.patterns)
		return models.DetectorFinding{
			Component:     d.Name(),
			Penalty:       d.weight - clamp(res.points, 0, d.weight),
			EvidenceCount: len(res.spans),
			Spans:         res.spans,
			Favorable:     true,
		}
	})
}

var _ Detector = (*specificityDetector)(nil)
