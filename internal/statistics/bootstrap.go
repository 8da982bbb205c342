package statistics

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval
// computation over a score distribution.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// BootstrapCI computes a percentile-method bootstrap confidence interval
// over the given scores. confidenceLevel should be in (0, 1), e.g. 0.95.
// Returns a degenerate interval when fewer than 2 data points exist.
func BootstrapCI(scores []float64, confidenceLevel float64) ConfidenceInterval {
	return BootstrapCIWithSeed(scores, confidenceLevel, -1)
}

// BootstrapCIWithSeed is like BootstrapCI but accepts a seed for
// reproducibility. A negative seed uses a non-deterministic source.
func BootstrapCIWithSeed(scores []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	n := len(scores)
	if n < 2 {
		m := stat.Mean(scores, nil)
		if n == 0 {
			m = 0
		}
		return ConfidenceInterval{
			Lower:           m,
			Upper:           m,
			Mean:            m,
			ConfidenceLevel: confidenceLevel,
			NumBootstraps:   0,
		}
	}

	var rng *rand.Rand
	if seed >= 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	iters := DefaultBootstrapIterations
	bootMeans := make([]float64, iters)
	sample := make([]float64, n)
	for i := 0; i < iters; i++ {
		for j := 0; j < n; j++ {
			sample[j] = scores[rng.Intn(n)]
		}
		bootMeans[i] = stat.Mean(sample, nil)
	}

	sort.Float64s(bootMeans)

	alpha := 1.0 - confidenceLevel
	return ConfidenceInterval{
		Lower:           stat.Quantile(alpha/2, stat.Empirical, bootMeans, nil),
		Upper:           stat.Quantile(1-alpha/2, stat.Empirical, bootMeans, nil),
		Mean:            stat.Mean(scores, nil),
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

// IsSignificant returns true if the confidence interval does not contain
// zero, indicating significance at the given confidence level.
func IsSignificant(ci ConfidenceInterval) bool {
	return ci.Lower > 0 || ci.Upper < 0
}
