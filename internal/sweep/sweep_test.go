// internal/sweep/sweep_test.go
package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/phosim/internal/sim"
)

func testParams() Params {
	return Params{
		Alpha:     0.5,
		TimeUnits: 2000,
		Payoffs:   sim.DefaultPayoffs(),
		Response:  sim.Amplified,
		BaseSeed:  1,
	}
}

func TestGrid(t *testing.T) {
	keys := Grid(3)
	want := []Key{{1, 1}, {2, 1}, {2, 2}, {3, 1}, {3, 2}, {3, 3}}
	assert.Equal(t, want, keys)

	// Triangular count for the reference grid bound.
	assert.Len(t, Grid(10), 55)
}

func TestNoiseLevels(t *testing.T) {
	levels := NoiseLevels(0, 1, 0.01)
	require.Len(t, levels, 101)
	assert.InDelta(t, 0.0, levels[0], 1e-12)
	assert.InDelta(t, 0.5, levels[50], 1e-9)
	assert.InDelta(t, 1.0, levels[100], 1e-9)

	assert.Nil(t, NoiseLevels(0, 1, 0))
	assert.Nil(t, NoiseLevels(0.5, 0.2, 0.01))

	coarse := NoiseLevels(0.1, 0.9, 0.2)
	require.Len(t, coarse, 5)
	assert.InDelta(t, 0.9, coarse[4], 1e-9)
}

func TestDeriveSeed(t *testing.T) {
	a := DeriveSeed(1, Key{N: 3, K: 2}, 7)
	b := DeriveSeed(1, Key{N: 3, K: 2}, 7)
	assert.Equal(t, a, b)

	// Any coordinate change lands on a different stream.
	assert.NotEqual(t, a, DeriveSeed(2, Key{N: 3, K: 2}, 7))
	assert.NotEqual(t, a, DeriveSeed(1, Key{N: 4, K: 2}, 7))
	assert.NotEqual(t, a, DeriveSeed(1, Key{N: 3, K: 3}, 7))
	assert.NotEqual(t, a, DeriveSeed(1, Key{N: 3, K: 2}, 8))
}

func TestSweepProducesOnePointPerNoiseLevel(t *testing.T) {
	levels := NoiseLevels(0, 1, 0.1)
	curve, err := Sweep(context.Background(), Key{N: 2, K: 1}, levels, testParams())
	require.NoError(t, err)
	require.Len(t, curve, len(levels))

	for i, p := range curve {
		assert.InDelta(t, levels[i], p.PNP, 1e-12, "points keep the noise-level order")
		assert.InDelta(t, sim.Amplified(levels[i]), p.PPP, 1e-12)
		assert.True(t, p.TPR.Defined)
		assert.True(t, p.FPR.Defined)
	}
}

func TestSweepIsReproducible(t *testing.T) {
	levels := NoiseLevels(0, 1, 0.25)
	key := Key{N: 3, K: 2}

	a, err := Sweep(context.Background(), key, levels, testParams())
	require.NoError(t, err)
	b, err := Sweep(context.Background(), key, levels, testParams())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSweepRecordsUndefinedRates(t *testing.T) {
	// With alpha=1 every trial carries a signal, so FPR never has a
	// denominator. The point must survive with an explicit undefined marker.
	p := testParams()
	p.Alpha = 1
	p.TimeUnits = 50

	curve, err := Sweep(context.Background(), Key{N: 1, K: 1}, []float64{0.2, 0.8}, p)
	require.NoError(t, err)
	require.Len(t, curve, 2)

	for _, point := range curve {
		assert.True(t, point.TPR.Defined)
		assert.False(t, point.FPR.Defined, "FPR must be flagged undefined, not zero")
		assert.Zero(t, point.FPR.Value)
	}
}

func TestSweepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, Key{N: 1, K: 1}, NoiseLevels(0, 1, 0.01), testParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepPropagatesInvalidConfiguration(t *testing.T) {
	p := testParams()
	p.Alpha = 1.5

	_, err := Sweep(context.Background(), Key{N: 1, K: 1}, []float64{0.5}, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, sim.ErrInvalidConfiguration)
}

// Liberal (k=1) versus conservative (k=n) thresholds on the same noise
// level: the liberal model fires more readily on both signal and noise.
func TestLiberalDominatesConservative(t *testing.T) {
	p := testParams()
	p.TimeUnits = 50_000
	levels := []float64{0.4}

	liberal, err := Sweep(context.Background(), Key{N: 2, K: 1}, levels, p)
	require.NoError(t, err)
	conservative, err := Sweep(context.Background(), Key{N: 2, K: 2}, levels, p)
	require.NoError(t, err)

	require.True(t, liberal[0].FPR.Defined)
	require.True(t, conservative[0].FPR.Defined)
	assert.Greater(t, liberal[0].FPR.Value, conservative[0].FPR.Value)
	assert.Greater(t, liberal[0].TPR.Value, conservative[0].TPR.Value)
}
