package diff

import (
	"context"
	"errors"
	"fmt"

	"tablediff/core/binary"
	"tablediff/core/diff"

	"gorm.io/gorm"
)

// ErrRunNotFound is returned when a run id matches no stored record.
var ErrRunNotFound = errors.New("diff run not found")

// Store persists runs and their binary-encoded chunk payloads in the
// relational database. It implements diff.Store for the chunk side.
type Store struct {
	db    *gorm.DB
	codec *binary.Codec
}

// NewStore creates a store on top of an open database connection.
func NewStore(db *gorm.DB, codec *binary.Codec) *Store {
	return &Store{db: db, codec: codec}
}

// Migrate creates or updates the run and chunk tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&DiffRun{}, &DiffChunk{})
}

// Put encodes a partial result and stores it as one chunk row.
func (s *Store) Put(ctx context.Context, diffID string, index int, part *diff.Result) error {
	payload, err := s.codec.Encode(part)
	if err != nil {
		return fmt.Errorf("encode chunk %d: %w", index, err)
	}
	chunk := DiffChunk{DiffID: diffID, ChunkIndex: index, Payload: payload}
	if err := s.db.WithContext(ctx).Create(&chunk).Error; err != nil {
		return fmt.Errorf("store chunk %d: %w", index, err)
	}
	return nil
}

// GetAll returns the decoded partial results of a run in chunk order.
func (s *Store) GetAll(ctx context.Context, diffID string) ([]*diff.Result, error) {
	var chunks []DiffChunk
	err := s.db.WithContext(ctx).
		Where("diff_id = ?", diffID).
		Order("chunk_index").
		Find(&chunks).Error
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	parts := make([]*diff.Result, 0, len(chunks))
	for _, chunk := range chunks {
		part, err := s.codec.Decode(chunk.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode chunk %d: %w", chunk.ChunkIndex, err)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// DeleteAll removes every stored chunk of a run.
func (s *Store) DeleteAll(ctx context.Context, diffID string) error {
	err := s.db.WithContext(ctx).
		Where("diff_id = ?", diffID).
		Delete(&DiffChunk{}).Error
	if err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// CreateRun inserts a new run record.
func (s *Store) CreateRun(ctx context.Context, run *DiffRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

// GetRun fetches a run record by id.
func (s *Store) GetRun(ctx context.Context, id string) (*DiffRun, error) {
	var run DiffRun
	err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// UpdateRun writes back the full run record.
func (s *Store) UpdateRun(ctx context.Context, run *DiffRun) error {
	return s.db.WithContext(ctx).Save(run).Error
}

// UpdateRunProgress writes only the progress column, for frequent updates
// from a running comparison.
func (s *Store) UpdateRunProgress(ctx context.Context, id string, progress float64) error {
	return s.db.WithContext(ctx).
		Model(&DiffRun{}).
		Where("id = ?", id).
		Update("progress", progress).Error
}

// ListRuns returns run records, newest first. A limit of zero or less
// returns all of them.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]DiffRun, error) {
	var runs []DiffRun
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// DeleteRun removes the run record itself. Chunks are deleted separately
// via DeleteAll.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&DiffRun{}, "id = ?", id).Error
}
