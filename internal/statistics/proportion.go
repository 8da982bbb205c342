package statistics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Interval methods reported on a ProportionCI.
const (
	MethodNormal = "normal"
	MethodWilson = "wilson"
)

// NormalApproxMinN is the sample size at which the normal approximation
// is considered acceptable. Smaller batches get a Wilson interval and a
// SmallSample flag.
const NormalApproxMinN = 30

// ProportionCI is a confidence interval for an accuracy proportion.
type ProportionCI struct {
	Proportion      float64 `json:"proportion"`
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	ConfidenceLevel float64 `json:"confidence_level"`
	N               int     `json:"n"`
	Method          string  `json:"method"`
	SmallSample     bool    `json:"small_sample"`
}

// AccuracyCI computes a confidence interval for successes/n. It uses the
// normal approximation for n >= NormalApproxMinN and the Wilson score
// interval below that, flagging the result as small-sample.
func AccuracyCI(successes, n int, confidenceLevel float64) (ProportionCI, error) {
	if n <= 0 {
		return ProportionCI{}, ErrInsufficientData
	}
	if successes < 0 || successes > n {
		return ProportionCI{}, fmt.Errorf("statistics: successes %d out of range for n=%d", successes, n)
	}
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return ProportionCI{}, fmt.Errorf("statistics: confidence level must be in (0,1), got %g", confidenceLevel)
	}

	p := float64(successes) / float64(n)
	z := distuv.UnitNormal.Quantile(1 - (1-confidenceLevel)/2)

	ci := ProportionCI{
		Proportion:      p,
		ConfidenceLevel: confidenceLevel,
		N:               n,
	}

	if n >= NormalApproxMinN {
		margin := z * math.Sqrt(p*(1-p)/float64(n))
		ci.Method = MethodNormal
		ci.Lower = clamp01(p - margin)
		ci.Upper = clamp01(p + margin)
		return ci, nil
	}

	// Wilson score interval behaves sensibly for small n and extreme p.
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom

	ci.Method = MethodWilson
	ci.SmallSample = true
	ci.Lower = clamp01(center - half)
	ci.Upper = clamp01(center + half)
	return ci, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
