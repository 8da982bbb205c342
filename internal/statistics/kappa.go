// Package statistics provides the batch/report-time computations used to
// validate the engine against labeled data: inter-rater agreement,
// accuracy confidence intervals, and bootstrap intervals over score
// distributions. Nothing here runs on the per-narrative scoring path.
package statistics

import (
	"errors"

	"github.com/redlinehq/redline/internal/models"
)

// ErrInsufficientData is returned when a computation has no samples to
// work with.
var ErrInsufficientData = errors.New("statistics: insufficient data")

// LabelPair is one (predicted, expected) classification pair.
type LabelPair struct {
	Predicted models.Classification `json:"predicted"`
	Expected  models.Classification `json:"expected"`
}

// KappaResult holds Cohen's kappa for a two-category label set. Defined
// is false when chance agreement is 1 (zero variance in both raters), in
// which case kappa has no value and Kappa must be ignored.
type KappaResult struct {
	Kappa    float64 `json:"kappa"`
	Observed float64 `json:"observed_agreement"`
	Chance   float64 `json:"chance_agreement"`
	N        int     `json:"n"`
	Defined  bool    `json:"defined"`
}

// CohenKappa computes chance-corrected agreement using the standard
// two-category formula: (p_o - p_e) / (1 - p_e).
func CohenKappa(pairs []LabelPair) (KappaResult, error) {
	n := len(pairs)
	if n == 0 {
		return KappaResult{}, ErrInsufficientData
	}

	agree := 0
	predQualifying := 0
	expQualifying := 0
	for _, p := range pairs {
		if p.Predicted == p.Expected {
			agree++
		}
		if p.Predicted == models.Qualifying {
			predQualifying++
		}
		if p.Expected == models.Qualifying {
			expQualifying++
		}
	}

	po := float64(agree) / float64(n)
	pPred := float64(predQualifying) / float64(n)
	pExp := float64(expQualifying) / float64(n)
	pe := pPred*pExp + (1-pPred)*(1-pExp)

	result := KappaResult{Observed: po, Chance: pe, N: n}

	// pe == 1 means both raters used a single category throughout;
	// kappa is undefined rather than zero or NaN.
	const eps = 1e-12
	if 1-pe < eps {
		return result, nil
	}

	result.Defined = true
	result.Kappa = (po - pe) / (1 - pe)
	return result, nil
}
