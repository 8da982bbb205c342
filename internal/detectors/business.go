package detectors

import (
	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// businessRiskDetector penalizes commercial-uncertainty language. Market
// share, revenue, and sales talk describes business risk, not technical
// uncertainty, and counts against the narrative.
type businessRiskDetector struct {
	weight   int
	patterns []compiledPattern
}

func NewBusinessRiskDetector(cfg rules.DetectorConfig) (*businessRiskDetector, error) {
	pats, err := compilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return &businessRiskDetector{weight: cfg.Weight, patterns: pats}, nil
}

func (d *businessRiskDetector) Name() string { return rules.ComponentBusinessRisk }
func (d *businessRiskDetector) Weight() int  { return d.weight }

func (d *businessRiskDetector) Detect(text string) models.DetectorFinding {
	return safeDetect(d.Name(), func() models.DetectorFinding {
		res := scan(text, d.patterns)
		return models.DetectorFinding{
			Component:     d.Name(),
			Penalty:       clamp(res.points, 0, d.weight),
			EvidenceCount: len(res.spans),
			Spans:         res.spans,
		}
	})
}

var _ Detector = (*businessRiskDetector)(nil)
