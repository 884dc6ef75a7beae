package diff

import (
	"context"
	"errors"
	"fmt"

	"tablediff/core/dataset"

	"go.uber.org/zap"
)

// Store persists per-chunk partial results during a chunked run. Put is
// called once per chunk index in ascending order; GetAll returns the
// partials in that same order.
type Store interface {
	Put(ctx context.Context, diffID string, index int, part *Result) error
	GetAll(ctx context.Context, diffID string) ([]*Result, error)
	DeleteAll(ctx context.Context, diffID string) error
}

// ErrContentChunking is returned when a chunked run is requested without
// key columns. Content matching needs the whole candidate pool visible at
// once, which contradicts per-chunk execution.
var ErrContentChunking = errors.New("chunked execution requires key columns")

// Coordinator drives a primary-key comparison chunk by chunk: the target
// dataset is partitioned into contiguous ranges, each range is compared and
// persisted before the next begins, and removed rows are computed exactly
// once, on the final chunk. Both key maps are built once up front and
// reused across every chunk.
type Coordinator struct {
	engine    *Engine
	store     Store
	chunkSize int
	logger    *zap.Logger
}

// NewCoordinator creates a coordinator. A chunk size below one falls back
// to the default.
func NewCoordinator(engine *Engine, store Store, chunkSize int, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &Coordinator{engine: engine, store: store, chunkSize: chunkSize, logger: logger}
}

// Run executes the chunked comparison under diffID and returns the number
// of chunks written. Key validation and duplicate detection happen before
// the first chunk is persisted, so a failed run leaves nothing behind.
// Progress is per chunk completed.
func (c *Coordinator) Run(ctx context.Context, diffID string, source, target *dataset.Dataset, opts Options, onProgress ProgressFunc) (int, error) {
	if len(opts.KeyColumns) == 0 {
		return 0, ErrContentChunking
	}

	p, err := c.engine.preparePrimaryKey(ctx, source, target, opts, nil)
	if err != nil {
		return 0, err
	}

	prog := newProgressReporter(onProgress)
	total := target.Len()
	chunks := (total + c.chunkSize - 1) / c.chunkSize
	if chunks == 0 {
		// An empty target still writes one chunk so the removed rows and
		// the run's summary have somewhere to live.
		chunks = 1
	}

	for idx := 0; idx < chunks; idx++ {
		if err := ctx.Err(); err != nil {
			return idx, err
		}
		lo := idx * c.chunkSize
		hi := min(lo+c.chunkSize, total)

		part := newResult(ModePrimaryKey, source, target, opts)
		if err := c.engine.comparePass(ctx, p, lo, hi, part, nil); err != nil {
			return idx, err
		}
		if idx == chunks-1 {
			p.appendRemoved(part)
		}
		if err := c.store.Put(ctx, diffID, idx, part); err != nil {
			return idx, fmt.Errorf("persist chunk %d: %w", idx, err)
		}

		c.logger.Debug("Chunk persisted",
			zap.String("diff_id", diffID),
			zap.Int("chunk", idx),
			zap.Int("rows", hi-lo))
		prog.report(float64(idx+1)/float64(chunks)*100, fmt.Sprintf("Processed chunk %d of %d", idx+1, chunks))
	}

	return chunks, nil
}

// Merge reassembles the full result of a finished run from its persisted
// partials.
func (c *Coordinator) Merge(ctx context.Context, diffID string) (*Result, error) {
	parts, err := c.store.GetAll(ctx, diffID)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no chunks stored for diff %q", diffID)
	}
	return MergeResults(parts), nil
}

// MergeResults concatenates partial results category by category in the
// given order, which preserves global row order when the partials came from
// ascending chunks. Metadata is taken from the first partial that carries
// it; partials restored from the wire format carry none, so callers
// re-attach run metadata afterwards.
func MergeResults(parts []*Result) *Result {
	merged := &Result{
		Added:           []AddedEntry{},
		Removed:         []RemovedEntry{},
		Modified:        []ModifiedEntry{},
		Unchanged:       []UnchangedEntry{},
		KeyColumns:      []string{},
		ExcludedColumns: []string{},
	}
	for _, part := range parts {
		if part == nil {
			continue
		}
		merged.Added = append(merged.Added, part.Added...)
		merged.Removed = append(merged.Removed, part.Removed...)
		merged.Modified = append(merged.Modified, part.Modified...)
		merged.Unchanged = append(merged.Unchanged, part.Unchanged...)
		if merged.Mode == "" && part.Mode != "" {
			merged.Mode = part.Mode
			merged.Source = Meta{Headers: part.Source.Headers}
			merged.Target = Meta{Headers: part.Target.Headers}
			merged.KeyColumns = append(merged.KeyColumns, part.KeyColumns...)
			merged.ExcludedColumns = append(merged.ExcludedColumns, part.ExcludedColumns...)
		}
	}
	return merged
}
