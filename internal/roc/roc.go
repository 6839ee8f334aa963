// internal/roc/roc.go
package roc

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"

	"github.com/xkilldash9x/phosim/internal/sweep"
)

// ErrInsufficientData is returned when a curve has fewer than two fully
// defined points, which is not enough to span any area. The caller gets no
// AUC value in that case; we never substitute a default.
var ErrInsufficientData = errors.New("insufficient data for integration")

// AUC integrates a ROC curve with the composite trapezoidal rule and returns
// the area as a scalar in [0,1].
//
// Points with an undefined TPR or FPR are excluded before integration; the
// surviving points are connected directly, preserving curve continuity
// around the gaps. The input is not assumed monotonic in FPR (small-sample
// curves are not): points are stable-sorted by FPR first, with ties left in
// their original noise-level order. The input curve is never mutated.
func AUC(curve sweep.Curve) (float64, error) {
	pts := defined(curve)
	if len(pts) < 2 {
		return 0, fmt.Errorf("%w: %d defined points, need at least 2", ErrInsufficientData, len(pts))
	}

	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].FPR.Value < pts[j].FPR.Value
	})

	// Coincident FPR values are collapsed to the last point in tie order
	// before integration; a vertical ROC segment spans no area.
	xs := make([]float64, 0, len(pts))
	ys := make([]float64, 0, len(pts))
	for _, p := range pts {
		if n := len(xs); n > 0 && p.FPR.Value == xs[n-1] {
			ys[n-1] = p.TPR.Value
			continue
		}
		xs = append(xs, p.FPR.Value)
		ys = append(ys, p.TPR.Value)
	}
	if len(xs) < 2 {
		return 0, fmt.Errorf("%w: curve is a single vertical segment", ErrInsufficientData)
	}

	return integrate.Trapezoidal(xs, ys), nil
}

// defined filters a curve down to the points whose rates both exist, copying
// so the caller's curve stays untouched.
func defined(curve sweep.Curve) []sweep.ScenarioPoint {
	pts := make([]sweep.ScenarioPoint, 0, len(curve))
	for _, p := range curve {
		if p.FPR.Defined && p.TPR.Defined {
			pts = append(pts, p)
		}
	}
	return pts
}
