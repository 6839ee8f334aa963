// internal/worker/worker.go
package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/phosim/internal/results"
	"github.com/xkilldash9x/phosim/internal/roc"
	"github.com/xkilldash9x/phosim/internal/sweep"
)

// SweepWorker turns one (n, k) grid key into a finished ConfigResult: it
// sweeps the noise range, derives the ROC curve, and integrates the AUC. It
// holds only read-only state and is safe to share across pool goroutines.
type SweepWorker struct {
	logger      *zap.Logger
	noiseLevels []float64
	params      sweep.Params
}

// NewSweepWorker builds a worker over a fixed noise grid and run parameters.
func NewSweepWorker(logger *zap.Logger, noiseLevels []float64, params sweep.Params) *SweepWorker {
	return &SweepWorker{
		logger:      logger.With(zap.String("component", "sweep_worker")),
		noiseLevels: noiseLevels,
		params:      params,
	}
}

// ProcessTask executes the full pipeline for one configuration.
func (w *SweepWorker) ProcessTask(ctx context.Context, key sweep.Key) (results.ConfigResult, error) {
	curve, err := sweep.Sweep(ctx, key, w.noiseLevels, w.params)
	if err != nil {
		return results.ConfigResult{}, err
	}

	auc, err := roc.AUC(curve)
	if err != nil {
		return results.ConfigResult{}, fmt.Errorf("integrate %s: %w", key, err)
	}

	w.logger.Debug("Configuration complete",
		zap.Int("n", key.N), zap.Int("k", key.K), zap.Float64("auc", auc))

	return results.ConfigResult{Key: key, Curve: curve, AUC: auc}, nil
}
