package diff_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"tablediff/core/diff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryStore keeps chunk partials in a map, mirroring what the persistent
// store does without the database.
type memoryStore struct {
	mu    sync.Mutex
	parts map[string]map[int]*diff.Result
}

func newMemoryStore() *memoryStore {
	return &memoryStore{parts: make(map[string]map[int]*diff.Result)}
}

func (s *memoryStore) Put(_ context.Context, diffID string, index int, part *diff.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parts[diffID] == nil {
		s.parts[diffID] = make(map[int]*diff.Result)
	}
	s.parts[diffID][index] = part
	return nil
}

func (s *memoryStore) GetAll(_ context.Context, diffID string) ([]*diff.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byIndex := s.parts[diffID]
	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	out := make([]*diff.Result, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, byIndex[i])
	}
	return out, nil
}

func (s *memoryStore) DeleteAll(_ context.Context, diffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parts, diffID)
	return nil
}

func (s *memoryStore) count(diffID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parts[diffID])
}

func TestCoordinator_RunMatchesOneShot(t *testing.T) {
	source := mustDataset(t, []string{"id", "name", "qty"}, [][]string{
		{"1", "Widget", "5"},
		{"2", "Gadget", "3"},
		{"3", "Doodad", "9"},
		{"7", "Orphan", "1"},
	})
	target := mustDataset(t, []string{"id", "name", "qty"}, [][]string{
		{"1", "Widget", "5"},
		{"2", "Gadget", "4"},
		{"3", "Doodad", "9"},
		{"4", "Gizmo", "1"},
		{"5", "Sprocket", "2"},
	})
	opts := diff.Options{KeyColumns: []string{"id"}, CaseSensitive: true}

	engine := newTestEngine()
	store := newMemoryStore()
	coord := diff.NewCoordinator(engine, store, 2, zap.NewNop())

	chunks, err := coord.Run(context.Background(), "run-1", source, target, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, chunks)
	assert.Equal(t, 3, store.count("run-1"))

	// Removed rows live only on the final chunk.
	parts, err := store.GetAll(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Empty(t, parts[0].Removed)
	assert.Empty(t, parts[1].Removed)
	require.Len(t, parts[2].Removed, 1)
	assert.Equal(t, "7", parts[2].Removed[0].Key)

	merged, err := coord.Merge(context.Background(), "run-1")
	require.NoError(t, err)

	oneShot, err := engine.ComparePrimaryKey(context.Background(), source, target, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, oneShot, merged)
}

func TestCoordinator_FailsBeforeFirstChunk(t *testing.T) {
	store := newMemoryStore()
	coord := diff.NewCoordinator(newTestEngine(), store, 2, nil)

	t.Run("DuplicateKey", func(t *testing.T) {
		source := mustDataset(t, []string{"id"}, [][]string{{"1"}, {"1"}})
		target := mustDataset(t, []string{"id"}, [][]string{{"1"}})

		_, err := coord.Run(context.Background(), "dup", source, target, diff.Options{KeyColumns: []string{"id"}}, nil)
		var dup *diff.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Zero(t, store.count("dup"))
	})

	t.Run("MissingKeyColumn", func(t *testing.T) {
		source := mustDataset(t, []string{"id"}, [][]string{{"1"}})
		target := mustDataset(t, []string{"other"}, [][]string{{"1"}})

		_, err := coord.Run(context.Background(), "missing", source, target, diff.Options{KeyColumns: []string{"id"}}, nil)
		var missing *diff.MissingKeyColumnError
		require.ErrorAs(t, err, &missing)
		assert.Zero(t, store.count("missing"))
	})

	t.Run("NoKeyColumns", func(t *testing.T) {
		d := mustDataset(t, []string{"id"}, [][]string{{"1"}})
		_, err := coord.Run(context.Background(), "content", d, d, diff.Options{}, nil)
		require.ErrorIs(t, err, diff.ErrContentChunking)
		assert.Zero(t, store.count("content"))
	})
}

func TestCoordinator_EmptyTargetStillWritesOneChunk(t *testing.T) {
	source := mustDataset(t, []string{"id"}, [][]string{{"1"}, {"2"}})
	target := mustDataset(t, []string{"id"}, nil)

	store := newMemoryStore()
	coord := diff.NewCoordinator(newTestEngine(), store, 10, nil)

	chunks, err := coord.Run(context.Background(), "empty", source, target, diff.Options{KeyColumns: []string{"id"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, chunks)

	merged, err := coord.Merge(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, diff.Summary{Total: 2, Removed: 2}, merged.Summary())
}

func TestCoordinator_Progress(t *testing.T) {
	rows := make([][]string, 9)
	for i := range rows {
		rows[i] = []string{string(rune('a' + i))}
	}
	source := mustDataset(t, []string{"id"}, rows)
	target := mustDataset(t, []string{"id"}, rows)

	var percents []float64
	coord := diff.NewCoordinator(newTestEngine(), newMemoryStore(), 3, nil)
	_, err := coord.Run(context.Background(), "prog", source, target, diff.Options{KeyColumns: []string{"id"}},
		func(percent float64, message string) {
			percents = append(percents, percent)
		})
	require.NoError(t, err)

	require.NotEmpty(t, percents)
	assert.Equal(t, 100.0, percents[len(percents)-1])
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
}

func TestMergeResults(t *testing.T) {
	t.Run("MetadataFromFirstCarrier", func(t *testing.T) {
		// Decoded partials carry no metadata; the first one that does
		// donates it.
		bare := &diff.Result{
			Added: []diff.AddedEntry{{Key: "4", TargetRow: map[string]string{"id": "4"}}},
		}
		carrier := &diff.Result{
			Unchanged:  []diff.UnchangedEntry{{Key: "1", Row: map[string]string{"id": "1"}}},
			Source:     diff.Meta{Headers: []string{"id"}},
			Target:     diff.Meta{Headers: []string{"id"}},
			KeyColumns: []string{"id"},
			Mode:       diff.ModePrimaryKey,
		}

		merged := diff.MergeResults([]*diff.Result{bare, carrier})
		assert.Equal(t, diff.Summary{Total: 2, Added: 1, Unchanged: 1}, merged.Summary())
		assert.Equal(t, diff.ModePrimaryKey, merged.Mode)
		assert.Equal(t, []string{"id"}, merged.KeyColumns)
		assert.Equal(t, []string{"id"}, merged.Source.Headers)

		// Entry order follows part order regardless of metadata.
		assert.Equal(t, "4", merged.Added[0].Key)
		assert.Equal(t, "1", merged.Unchanged[0].Key)
	})

	t.Run("EmptyAndNilParts", func(t *testing.T) {
		merged := diff.MergeResults([]*diff.Result{nil})
		assert.Equal(t, diff.Summary{}, merged.Summary())
		assert.NotNil(t, merged.Added)

		merged = diff.MergeResults(nil)
		assert.Equal(t, diff.Summary{}, merged.Summary())
	})
}
