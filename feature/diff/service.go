package diff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"tablediff/core/binary"
	"tablediff/core/database"
	"tablediff/core/dataset"
	"tablediff/core/diff"
	"tablediff/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by operations that need the run store when the
// service was started without a database connection.
var ErrNoDatabase = errors.New("no database configured")

// ErrRunNotCompleted is returned when a result is requested for a run that
// has not finished successfully.
var ErrRunNotCompleted = errors.New("diff run is not completed")

// ErrInvalidReference marks dataset reference validation failures.
var ErrInvalidReference = errors.New("invalid dataset reference")

// Service orchestrates dataset resolution, comparisons and chunked runs.
type Service struct {
	client    storage.Client
	bucket    string
	logger    *zap.Logger
	db        *gorm.DB
	engine    *diff.Engine
	codec     *binary.Codec
	store     *Store
	cache     *datasetCache
	chunkSize int
}

// NewService creates a new diff service. The database connection may be
// nil; run persistence and table-backed datasets then report ErrNoDatabase.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, engine *diff.Engine, codec *binary.Codec, chunkSize int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize < 1 {
		chunkSize = diff.DefaultChunkSize
	}
	s := &Service{
		client:    client,
		bucket:    bucket,
		logger:    logger,
		db:        db,
		engine:    engine,
		codec:     codec,
		cache:     newDatasetCache(datasetCacheTTL),
		chunkSize: chunkSize,
	}
	if db != nil {
		s.store = NewStore(db, codec)
	}
	return s
}

// ResolveDataset materializes a dataset reference from its inline payload,
// bucket object or database table.
func (s *Service) ResolveDataset(ctx context.Context, ref DatasetRef) (*dataset.Dataset, error) {
	kinds := 0
	if len(ref.Headers) > 0 || len(ref.Rows) > 0 {
		kinds++
	}
	if ref.Object != "" {
		kinds++
	}
	if ref.Table != "" {
		kinds++
	}
	switch {
	case kinds == 0:
		return nil, fmt.Errorf("%w: provide headers and rows, an object name, or a table name", ErrInvalidReference)
	case kinds > 1:
		return nil, fmt.Errorf("%w: specify exactly one of inline data, object or table", ErrInvalidReference)
	}

	switch {
	case ref.Object != "":
		return s.cache.getOrLoad(ref.Object, func() (*dataset.Dataset, error) {
			return s.loadObjectDataset(ctx, ref.Object)
		})
	case ref.Table != "":
		if s.db == nil {
			return nil, ErrNoDatabase
		}
		return loadTableDataset(ctx, s.db, ref.Table)
	default:
		schema, err := dataset.NewSchema(ref.Headers)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		ds, err := dataset.New(schema, ref.Rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
		return ds, nil
	}
}

// loadObjectDataset fetches a CSV object from the bucket and parses it.
func (s *Service) loadObjectDataset(ctx context.Context, object string) (*dataset.Dataset, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch object %s: %w", object, err)
	}
	defer func() { _ = obj.Close() }()

	ds, err := dataset.ReadCSV(obj)
	if err != nil {
		return nil, fmt.Errorf("parse object %s: %w", object, err)
	}
	return ds, nil
}

// ComparePrimaryKey resolves both references and runs a primary-key
// comparison.
func (s *Service) ComparePrimaryKey(ctx context.Context, req CompareRequest) (*diff.Result, error) {
	source, target, err := s.resolvePair(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.engine.ComparePrimaryKey(ctx, source, target, req.Options, nil)
}

// CompareByContent resolves both references and runs a content-match
// comparison.
func (s *Service) CompareByContent(ctx context.Context, req CompareRequest) (*diff.Result, error) {
	source, target, err := s.resolvePair(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.engine.CompareByContent(ctx, source, target, req.Options, nil)
}

func (s *Service) resolvePair(ctx context.Context, req CompareRequest) (*dataset.Dataset, *dataset.Dataset, error) {
	source, err := s.ResolveDataset(ctx, req.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("source: %w", err)
	}
	target, err := s.ResolveDataset(ctx, req.Target)
	if err != nil {
		return nil, nil, fmt.Errorf("target: %w", err)
	}
	return source, target, nil
}

// EncodeResult serializes a result into the binary wire format.
func (s *Service) EncodeResult(r *diff.Result) ([]byte, error) {
	return s.codec.Encode(r)
}

// StartRun resolves the datasets, persists a pending run record and starts
// the chunked comparison in the background. Key column validation happens
// before the record is created so obvious mistakes fail the request, not
// the run.
func (s *Service) StartRun(ctx context.Context, req ChunkedRequest) (*DiffRun, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}

	source, target, err := s.resolvePair(ctx, req.CompareRequest)
	if err != nil {
		return nil, err
	}
	if len(req.Options.KeyColumns) == 0 {
		return nil, diff.ErrContentChunking
	}
	for _, col := range req.Options.KeyColumns {
		if !source.Schema().Has(col) {
			return nil, &diff.MissingKeyColumnError{Column: col, Side: diff.SideSource}
		}
		if !target.Schema().Has(col) {
			return nil, &diff.MissingKeyColumnError{Column: col, Side: diff.SideTarget}
		}
	}

	chunkSize := req.ChunkSize
	if chunkSize < 1 {
		chunkSize = s.chunkSize
	}

	run := &DiffRun{
		ID:         uuid.NewString(),
		Status:     RunStatusPending,
		Mode:       string(diff.ModePrimaryKey),
		SourceName: req.Source.Name(),
		TargetName: req.Target.Name(),
		ChunkSize:  chunkSize,
	}
	run.encodeContext(source.Headers(), target.Headers(), req.Options)

	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	// Snapshot before the goroutine starts mutating the record.
	created := *run
	go s.executeRun(run, source, target, req.Options, chunkSize)

	return &created, nil
}

// executeRun drives the chunk coordinator to completion and records the
// outcome on the run. It runs detached from the request context.
func (s *Service) executeRun(run *DiffRun, source, target *dataset.Dataset, opts diff.Options, chunkSize int) {
	ctx := context.Background()
	l := s.logger.With(zap.String("diff_id", run.ID))

	run.Status = RunStatusRunning
	if err := s.store.UpdateRun(ctx, run); err != nil {
		l.Error("Failed to mark run as running", zap.Error(err))
	}

	coord := diff.NewCoordinator(s.engine, s.store, chunkSize, l)
	count, err := coord.Run(ctx, run.ID, source, target, opts, func(percent float64, message string) {
		_ = s.store.UpdateRunProgress(ctx, run.ID, percent)
	})
	if err != nil {
		run.Status = RunStatusFailed
		run.Error = err.Error()
		if uerr := s.store.UpdateRun(ctx, run); uerr != nil {
			l.Error("Failed to mark run as failed", zap.Error(uerr))
		}
		l.Error("Chunked diff failed", zap.Error(err))
		return
	}

	merged, err := coord.Merge(ctx, run.ID)
	if err != nil {
		run.Status = RunStatusFailed
		run.Error = err.Error()
		_ = s.store.UpdateRun(ctx, run)
		l.Error("Failed to merge chunked diff", zap.Error(err))
		return
	}

	sum := merged.Summary()
	run.Status = RunStatusCompleted
	run.ChunkCount = count
	run.Progress = 100
	run.Total = sum.Total
	run.Added = sum.Added
	run.Removed = sum.Removed
	run.Modified = sum.Modified
	run.Unchanged = sum.Unchanged
	if err := s.store.UpdateRun(ctx, run); err != nil {
		l.Error("Failed to mark run as completed", zap.Error(err))
		return
	}

	s.uploadResult(ctx, l, run, merged)

	l.Info("Chunked diff completed",
		zap.Int("chunks", count),
		zap.Int("total", sum.Total),
		zap.Int("modified", sum.Modified),
	)
}

// uploadResult exports the encoded result to the bucket for download.
// Failures are logged but do not fail the run; the database copy remains
// authoritative.
func (s *Service) uploadResult(ctx context.Context, l *zap.Logger, run *DiffRun, merged *diff.Result) {
	s.reattachMetadata(merged, run)
	payload, err := s.codec.Encode(merged)
	if err != nil {
		l.Warn("Failed to encode result artifact", zap.Error(err))
		return
	}
	name := resultObjectName(run.ID)
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		l.Warn("Failed to upload result artifact", zap.String("object", name), zap.Error(err))
	}
}

// GetRun returns the stored record for a run.
func (s *Service) GetRun(ctx context.Context, id string) (*DiffRun, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}
	return s.store.GetRun(ctx, id)
}

// ListRuns returns stored runs, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]DiffRun, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}
	return s.store.ListRuns(ctx, limit)
}

// MergedResult loads, decodes and merges the chunks of a completed run,
// reattaching the metadata the binary payloads omit. When withWordDiffs is
// set, word-level spans are recomputed for every modified cell.
func (s *Service) MergedResult(ctx context.Context, id string, withWordDiffs bool) (*diff.Result, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != RunStatusCompleted {
		return nil, fmt.Errorf("%w: status is %s", ErrRunNotCompleted, run.Status)
	}

	parts, err := s.store.GetAll(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := diff.MergeResults(parts)
	s.reattachMetadata(merged, run)

	if withWordDiffs {
		opts, err := run.DiffOptions()
		if err != nil {
			return nil, err
		}
		merged.RecomputeWordDiffs(opts)
	}
	return merged, nil
}

// reattachMetadata restores the result fields the binary chunk format does
// not carry, from the run record.
func (s *Service) reattachMetadata(res *diff.Result, run *DiffRun) {
	res.Mode = diff.Mode(run.Mode)
	srcHeaders, tgtHeaders, err := run.Headers()
	if err == nil {
		res.Source = diff.Meta{Headers: srcHeaders}
		res.Target = diff.Meta{Headers: tgtHeaders}
	}
	opts, err := run.DiffOptions()
	if err != nil {
		return
	}
	res.KeyColumns = append([]string{}, opts.KeyColumns...)
	res.ExcludedColumns = append([]string{}, opts.ExcludedColumns...)
}

// EncodedResult returns the merged result of a completed run in the binary
// wire format.
func (s *Service) EncodedResult(ctx context.Context, id string) ([]byte, error) {
	merged, err := s.MergedResult(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return s.codec.Encode(merged)
}

// DeleteRun removes a run's chunks, its record and its exported artifact.
func (s *Service) DeleteRun(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoDatabase
	}
	if _, err := s.store.GetRun(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteAll(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteRun(ctx, id); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, resultObjectName(id), minio.RemoveObjectOptions{}); err != nil {
		// The artifact may never have been uploaded.
		s.logger.Debug("Failed to remove result artifact", zap.String("diff_id", id), zap.Error(err))
	}
	return nil
}

// ListDatasets returns the CSV objects stored in the bucket.
func (s *Service) ListDatasets(ctx context.Context) ([]DatasetObject, error) {
	objects := []DatasetObject{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		if !strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			continue
		}
		objects = append(objects, DatasetObject{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

// ListTables returns the tables of the configured database.
func (s *Service) ListTables(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return database.ListTables(s.db.WithContext(ctx))
}

func resultObjectName(id string) string {
	return "results/" + id + ".bin"
}
