package diff

import "go.uber.org/zap"

// Engine runs comparisons. It is an explicit context object: tuning and
// logging travel with the engine instead of living in package globals, so
// independent engines with different settings can coexist in one process.
// An engine is safe for concurrent use; each comparison keeps its state on
// the stack.
type Engine struct {
	logger           *zap.Logger
	workers          int
	batchSize        int
	contentBatchSize int
}

// NewEngine creates an engine from config. Out-of-range settings are not
// errors: workers degrade to the sequential path with a logged warning and
// batch sizes fall back to their defaults, so a comparison always runs.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:           logger,
		workers:          cfg.Workers,
		batchSize:        cfg.BatchSize,
		contentBatchSize: cfg.ContentBatchSize,
	}
	if e.workers < 1 {
		logger.Warn("Concurrent map build unavailable, falling back to sequential batches",
			zap.Int("workers", cfg.Workers))
		e.workers = 1
	}
	if e.workers > DefaultWorkers {
		logger.Debug("Capping map build concurrency", zap.Int("workers", cfg.Workers))
		e.workers = DefaultWorkers
	}
	if e.batchSize < 1 {
		e.batchSize = DefaultBatchSize
	}
	if e.contentBatchSize < 1 {
		e.contentBatchSize = DefaultContentBatchSize
	}
	return e
}
