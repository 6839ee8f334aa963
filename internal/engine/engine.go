// internal/engine/engine.go
package engine

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/phosim/internal/results"
	"github.com/xkilldash9x/phosim/internal/sweep"
)

// -- Interfaces for Dependency Inversion --

// Worker processes one grid configuration into a ConfigResult. Implementations
// must be safe for concurrent use; the engine calls ProcessTask from every
// pool goroutine.
type Worker interface {
	ProcessTask(ctx context.Context, key sweep.Key) (results.ConfigResult, error)
}

// Collector receives completed results and failures from the pool. The
// engine never inspects results itself; assembly policy lives with the
// collector.
type Collector interface {
	Collect(res results.ConfigResult)
	Fail(key sweep.Key, err error)
}

// Engine distributes grid configurations to a pool of workers. Failures are
// isolated per configuration: a bad (n, k) is reported to the collector and
// the rest of the grid proceeds.
type Engine struct {
	concurrency int
	logger      *zap.Logger
	worker      Worker
	collector   Collector
	wg          sync.WaitGroup

	// stateLock protects the running state of the engine.
	stateLock sync.Mutex
	isRunning bool
}

// New creates an Engine. Dependencies arrive as interfaces so tests can
// substitute mock workers and collectors.
func New(concurrency int, logger *zap.Logger, worker Worker, collector Collector) (*Engine, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if worker == nil {
		return nil, errors.New("worker cannot be nil")
	}
	if collector == nil {
		return nil, errors.New("collector cannot be nil")
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Engine{
		concurrency: concurrency,
		logger:      logger.With(zap.String("component", "engine")),
		worker:      worker,
		collector:   collector,
	}, nil
}

// Start launches the worker pool consuming keys from the provided channel.
// It returns immediately; call Stop to wait for completion.
func (e *Engine) Start(ctx context.Context, keys <-chan sweep.Key) {
	e.stateLock.Lock()
	if e.isRunning {
		e.stateLock.Unlock()
		e.logger.Warn("Engine.Start called, but engine is already running.")
		return
	}
	e.isRunning = true
	e.stateLock.Unlock()

	e.logger.Info("Starting sweep worker pool", zap.Int("concurrency", e.concurrency))

	for i := 0; i < e.concurrency; i++ {
		e.wg.Add(1)
		go e.runWorker(ctx, i+1, keys)
	}
}

// Stop waits for all workers to drain. Workers exit when the key channel is
// closed or the context is cancelled; either way, results already collected
// stay intact.
func (e *Engine) Stop() {
	e.logger.Info("Stopping engine... waiting for workers to finish.")
	e.wg.Wait()

	e.stateLock.Lock()
	e.isRunning = false
	e.stateLock.Unlock()

	e.logger.Info("Engine stopped gracefully.")
}

// runWorker is the main loop for a single pool goroutine.
func (e *Engine) runWorker(ctx context.Context, workerID int, keys <-chan sweep.Key) {
	defer e.wg.Done()
	logger := e.logger.With(zap.Int("worker_id", workerID))
	logger.Debug("Worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Context cancelled, worker shutting down.", zap.Error(ctx.Err()))
			return
		case key, ok := <-keys:
			if !ok {
				logger.Debug("Key queue closed and drained, worker shutting down.")
				return
			}
			e.process(ctx, key, logger)
		}
	}
}

// process runs one configuration and hands the outcome to the collector.
func (e *Engine) process(ctx context.Context, key sweep.Key, logger *zap.Logger) {
	logger.Debug("Processing configuration", zap.Int("n", key.N), zap.Int("k", key.K))

	res, err := e.worker.ProcessTask(ctx, key)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// An aborted sweep is not a configuration failure; the entry is
			// simply absent from the partial result set.
			logger.Warn("Configuration aborted", zap.Int("n", key.N), zap.Int("k", key.K), zap.Error(err))
			return
		}
		logger.Error("Configuration failed", zap.Int("n", key.N), zap.Int("k", key.K), zap.Error(err))
		e.collector.Fail(key, err)
		return
	}

	e.collector.Collect(res)
}
