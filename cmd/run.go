// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/phosim/internal/config"
	"github.com/xkilldash9x/phosim/internal/engine"
	"github.com/xkilldash9x/phosim/internal/observability"
	"github.com/xkilldash9x/phosim/internal/results"
	"github.com/xkilldash9x/phosim/internal/sim"
	"github.com/xkilldash9x/phosim/internal/sweep"
	"github.com/xkilldash9x/phosim/internal/worker"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the configured (n,k) grid sweep and writes the result tables",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so CLI flags override the config
			// file and environment with the right precedence.
			if err := viper.BindPFlag("simulation.n_max", cmd.Flags().Lookup("n-max")); err != nil {
				return err
			}
			if err := viper.BindPFlag("simulation.time_units", cmd.Flags().Lookup("time-units")); err != nil {
				return err
			}
			if err := viper.BindPFlag("simulation.alpha", cmd.Flags().Lookup("alpha")); err != nil {
				return err
			}
			if err := viper.BindPFlag("simulation.base_seed", cmd.Flags().Lookup("seed")); err != nil {
				return err
			}
			if err := viper.BindPFlag("simulation.response", cmd.Flags().Lookup("response")); err != nil {
				return err
			}
			if err := viper.BindPFlag("engine.worker_concurrency", cmd.Flags().Lookup("concurrency")); err != nil {
				return err
			}
			if err := viper.BindPFlag("export.json_path", cmd.Flags().Lookup("out")); err != nil {
				return err
			}
			if err := viper.BindPFlag("export.csv_path", cmd.Flags().Lookup("csv")); err != nil {
				return err
			}
			if err := viper.BindPFlag("export.sqlite_path", cmd.Flags().Lookup("sqlite")); err != nil {
				return err
			}
			return viper.BindPFlag("export.with_curves", cmd.Flags().Lookup("with-curves"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// The context passed from main is signal-aware; Ctrl-C aborts the
			// sweep but keeps completed configurations.
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			return runGrid(cmd.Context(), cfg, observability.GetLogger())
		},
	}

	runCmd.Flags().Int("n-max", 10, "largest phosphosite count in the grid")
	runCmd.Flags().Int("time-units", 100, "trials per simulated run")
	runCmd.Flags().Float64("alpha", 0.5, "prior probability of a true signal")
	runCmd.Flags().Uint64("seed", 1, "base random seed for the whole grid")
	runCmd.Flags().String("response", "amplified", "noise-to-signal response function")
	runCmd.Flags().Int("concurrency", 8, "sweep worker pool size")
	runCmd.Flags().String("out", "phosim-report.json", "JSON report path (empty disables)")
	runCmd.Flags().String("csv", "", "wide scenario CSV path (empty disables)")
	runCmd.Flags().String("sqlite", "", "SQLite database path (empty disables)")
	runCmd.Flags().Bool("with-curves", false, "include full ROC curves in the JSON report")

	return runCmd
}

// runGrid executes the complete pipeline: grid enumeration, parallel sweeps,
// AUC integration, and the configured exports.
func runGrid(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	response, err := sim.ResponseByName(cfg.Simulation.Response)
	if err != nil {
		return err
	}

	keys := sweep.Grid(cfg.Simulation.NMax)
	noiseLevels := sweep.NoiseLevels(cfg.Simulation.NoiseStart, cfg.Simulation.NoiseStop, cfg.Simulation.NoiseStep)
	params := sweep.Params{
		Alpha:     cfg.Simulation.Alpha,
		TimeUnits: cfg.Simulation.TimeUnits,
		Payoffs:   cfg.Simulation.Payoffs,
		Response:  response,
		BaseSeed:  cfg.Simulation.BaseSeed,
	}

	logger.Info("Starting grid sweep",
		zap.Int("configurations", len(keys)),
		zap.Int("noise_levels", len(noiseLevels)),
		zap.Int("time_units", cfg.Simulation.TimeUnits),
		zap.Uint64("base_seed", cfg.Simulation.BaseSeed))

	resultSet := results.NewResultSet()
	sweepWorker := worker.NewSweepWorker(logger, noiseLevels, params)
	eng, err := engine.New(cfg.Engine.WorkerConcurrency, logger, sweepWorker, resultSet)
	if err != nil {
		return err
	}

	eng.RunGrid(ctx, keys)

	if failures := resultSet.Failures(); len(failures) > 0 {
		for _, f := range failures {
			logger.Warn("Configuration produced no result",
				zap.Int("n", f.Key.N), zap.Int("k", f.Key.K), zap.String("reason", f.Reason))
		}
	}

	return export(ctx, cfg.Export, resultSet, logger)
}

// export writes the enabled sinks concurrently; each sink only reads the
// finished tables.
func export(ctx context.Context, cfg config.ExportConfig, rs *results.ResultSet, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	if cfg.JSONPath != "" {
		g.Go(func() error {
			report := results.BuildReport(rs, cfg.WithCurves, logger)
			data, err := report.ToJSON()
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			if err := os.WriteFile(cfg.JSONPath, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			logger.Info("Wrote JSON report", zap.String("path", cfg.JSONPath))
			return nil
		})
	}

	if cfg.CSVPath != "" {
		g.Go(func() error {
			f, err := os.Create(cfg.CSVPath)
			if err != nil {
				return fmt.Errorf("create csv: %w", err)
			}
			defer f.Close()
			if err := results.WriteWideCSV(f, rs.Scenarios()); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			logger.Info("Wrote scenario CSV", zap.String("path", cfg.CSVPath))
			return nil
		})
	}

	if cfg.SQLitePath != "" {
		g.Go(func() error {
			store := results.NewStore(cfg.SQLitePath)
			if err := store.Init(ctx); err != nil {
				return fmt.Errorf("open sqlite store: %w", err)
			}
			defer store.Close()
			if err := store.SaveRun(ctx, rs.RunID.String(), rs.Scenarios(), rs.AUCs()); err != nil {
				return fmt.Errorf("persist run: %w", err)
			}
			logger.Info("Persisted run to SQLite",
				zap.String("path", cfg.SQLitePath), zap.String("run_id", rs.RunID.String()))
			return nil
		})
	}

	return g.Wait()
}
