// internal/sweep/sweep.go
package sweep

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/phosim/internal/sim"
)

// Key identifies one (n, k) classifier configuration in a grid.
type Key struct {
	N int `json:"n"`
	K int `json:"k"`
}

func (k Key) String() string {
	return fmt.Sprintf("n=%d,k=%d", k.N, k.K)
}

// Grid enumerates every (n, k) with 1 <= k <= n and n up to nMax, in
// deterministic order.
func Grid(nMax int) []Key {
	keys := make([]Key, 0, nMax*(nMax+1)/2)
	for n := 1; n <= nMax; n++ {
		for k := 1; k <= n; k++ {
			keys = append(keys, Key{N: n, K: k})
		}
	}
	return keys
}

// NoiseLevels builds the ordered noise-probability sequence [start, stop]
// with the given step. The default grid is 0.00 to 1.00 step 0.01.
func NoiseLevels(start, stop, step float64) []float64 {
	if step <= 0 || stop < start {
		return nil
	}
	n := int((stop-start)/step+0.5) + 1
	levels := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		levels = append(levels, start+float64(i)*step)
	}
	return levels
}

// Rate is a TPR or FPR observation that may be undefined when its
// denominator was zero. Undefined rates are carried explicitly rather than
// encoded as NaN so they can never leak into an integration.
type Rate struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// DefinedRate wraps a known-good rate value.
func DefinedRate(v float64) Rate {
	return Rate{Value: v, Defined: true}
}

// ScenarioPoint is the outcome of one simulated run at one noise level for a
// fixed (n, k).
type ScenarioPoint struct {
	PNP float64 `json:"pnp"`
	PPP float64 `json:"ppp"`
	FPR Rate    `json:"fpr"`
	TPR Rate    `json:"tpr"`
}

// Curve is the ordered ScenarioPoint sequence for one (n, k), in the same
// order as the noise levels that produced it.
type Curve []ScenarioPoint

// Params carries the run-level settings shared by every sweep in a grid.
type Params struct {
	Alpha     float64
	TimeUnits int
	Payoffs   sim.PayoffTable
	Response  sim.ResponseFunc
	BaseSeed  uint64
}

// Sweep runs the simulator once per noise level for a single (n, k) and
// derives one ScenarioPoint per level. A zero denominator at some level is
// recorded as an undefined Rate, never skipped, so the curve always has one
// point per noise level. The context is consulted between levels; a
// cancelled sweep returns the context error and no partial curve.
func Sweep(ctx context.Context, key Key, noiseLevels []float64, p Params) (Curve, error) {
	curve := make(Curve, 0, len(noiseLevels))
	for i, pnp := range noiseLevels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cfg := sim.Configuration{
			N:         key.N,
			K:         key.K,
			PNP:       pnp,
			Alpha:     p.Alpha,
			TimeUnits: p.TimeUnits,
			Payoffs:   p.Payoffs,
			Response:  p.Response,
		}
		res, err := sim.Simulate(cfg, DeriveSeed(p.BaseSeed, key, i))
		if err != nil {
			return nil, fmt.Errorf("sweep %s at pnp=%g: %w", key, pnp, err)
		}

		point := ScenarioPoint{PNP: pnp, PPP: cfg.PPP()}
		if tpr, err := res.Matrix.TPR(); err == nil {
			point.TPR = DefinedRate(tpr)
		}
		if fpr, err := res.Matrix.FPR(); err == nil {
			point.FPR = DefinedRate(fpr)
		}
		curve = append(curve, point)
	}
	return curve, nil
}
