// internal/results/report.go
package results

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/phosim/internal/sweep"
)

// AUCEntry is one row of the report's AUC listing.
type AUCEntry struct {
	N   int     `json:"n"`
	K   int     `json:"k"`
	AUC float64 `json:"auc"`
}

// CurveEntry is one configuration's ROC curve in the report.
type CurveEntry struct {
	N     int         `json:"n"`
	K     int         `json:"k"`
	Curve sweep.Curve `json:"curve"`
}

// Report is the final aggregated output of a grid run: every completed
// configuration's curve and AUC, plus the configurations that failed.
type Report struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	AUCs        []AUCEntry      `json:"aucs"`
	Curves      []CurveEntry    `json:"curves,omitempty"`
	Failures    []ConfigFailure `json:"failures,omitempty"`
}

// ToJSON serializes the report to an indented JSON byte slice.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// BuildReport assembles a Report from a finished result set. Curves are
// included only when withCurves is set; the AUC listing is always present
// and ordered by (n, k).
func BuildReport(rs *ResultSet, withCurves bool, logger *zap.Logger) *Report {
	aucs := rs.AUCs()
	scenarios := rs.Scenarios()

	report := &Report{
		RunID:       rs.RunID.String(),
		GeneratedAt: time.Now().UTC(),
		Failures:    rs.Failures(),
	}
	for _, key := range aucs.SortedKeys() {
		report.AUCs = append(report.AUCs, AUCEntry{N: key.N, K: key.K, AUC: aucs[key]})
	}
	if withCurves {
		for _, key := range scenarios.SortedKeys() {
			report.Curves = append(report.Curves, CurveEntry{N: key.N, K: key.K, Curve: scenarios[key]})
		}
	}

	logger.Info("Assembled run report",
		zap.String("run_id", report.RunID),
		zap.Int("configurations", len(report.AUCs)),
		zap.Int("failures", len(report.Failures)))
	return report
}
