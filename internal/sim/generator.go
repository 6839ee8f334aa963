// internal/sim/generator.go
package sim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// thresholdSurvival returns P(X >= k) for X ~ Binomial(n, p): the probability
// that at least k of n sites are phosphorylated, i.e. that the threshold
// classifier fires. The interior case goes through gonum's binomial CDF,
// which is backed by the regularized incomplete beta function and stays
// stable for large n where naive PMF summation would not.
func thresholdSurvival(n, k int, p float64) float64 {
	switch {
	case k <= 0:
		return 1
	case k > n:
		return 0
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	b := distuv.Binomial{N: float64(n), P: p}
	return 1 - b.CDF(float64(k-1))
}

// Generator draws i.i.d. trials for one fixed configuration. The two firing
// probabilities are precomputed once; each trial then costs two uniform
// draws.
type Generator struct {
	cfg Configuration
	rng *rand.Rand

	// pSignal and pNoise are P(predicted | actual) and P(predicted | !actual).
	pSignal float64
	pNoise  float64
}

// NewGenerator builds a trial generator for a validated configuration and an
// explicit random source. Sources must not be shared across generators.
func NewGenerator(cfg Configuration, rng *rand.Rand) *Generator {
	return &Generator{
		cfg:     cfg,
		rng:     rng,
		pSignal: thresholdSurvival(cfg.N, cfg.K, cfg.PPP()),
		pNoise:  thresholdSurvival(cfg.N, cfg.K, cfg.PNP),
	}
}

// Next draws one trial: the environment presents a signal with probability
// alpha, the classifier then fires with the conditional threshold-crossing
// probability, and the payoff is looked up from the configured table.
func (g *Generator) Next() Trial {
	actual := g.rng.Float64() <= g.cfg.Alpha

	pDetect := g.pNoise
	if actual {
		pDetect = g.pSignal
	}
	predicted := g.rng.Float64() <= pDetect

	return Trial{
		Actual:    actual,
		Predicted: predicted,
		Payoff:    g.cfg.Payoffs.For(actual, predicted),
	}
}
