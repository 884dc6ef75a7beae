package diff

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tablediff/core/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	schema, err := dataset.NewSchema([]string{"id"})
	require.NoError(t, err)
	ds, err := dataset.New(schema, [][]string{{"1"}})
	require.NoError(t, err)
	return ds
}

func TestDatasetCache(t *testing.T) {
	t.Run("CachesLoads", func(t *testing.T) {
		cache := newDatasetCache(time.Minute)
		ds := cacheDataset(t)
		loads := 0

		for i := 0; i < 3; i++ {
			got, err := cache.getOrLoad("a.csv", func() (*dataset.Dataset, error) {
				loads++
				return ds, nil
			})
			require.NoError(t, err)
			assert.Same(t, ds, got)
		}
		assert.Equal(t, 1, loads)
	})

	t.Run("ZeroTTLDisablesCaching", func(t *testing.T) {
		cache := newDatasetCache(0)
		ds := cacheDataset(t)
		loads := 0

		for i := 0; i < 3; i++ {
			_, err := cache.getOrLoad("a.csv", func() (*dataset.Dataset, error) {
				loads++
				return ds, nil
			})
			require.NoError(t, err)
		}
		assert.Equal(t, 3, loads)
	})

	t.Run("ErrorsAreNotCached", func(t *testing.T) {
		cache := newDatasetCache(time.Minute)
		ds := cacheDataset(t)
		boom := errors.New("fetch failed")

		_, err := cache.getOrLoad("a.csv", func() (*dataset.Dataset, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := cache.getOrLoad("a.csv", func() (*dataset.Dataset, error) {
			return ds, nil
		})
		require.NoError(t, err)
		assert.Same(t, ds, got)
	})

	t.Run("InvalidateForcesReload", func(t *testing.T) {
		cache := newDatasetCache(time.Minute)
		ds := cacheDataset(t)
		loads := 0
		load := func() (*dataset.Dataset, error) {
			loads++
			return ds, nil
		}

		_, err := cache.getOrLoad("a.csv", load)
		require.NoError(t, err)
		cache.invalidate("a.csv")
		_, err = cache.getOrLoad("a.csv", load)
		require.NoError(t, err)
		assert.Equal(t, 2, loads)
	})

	t.Run("ConcurrentLoadsAreCollapsed", func(t *testing.T) {
		cache := newDatasetCache(time.Minute)
		ds := cacheDataset(t)
		var loads atomic.Int32

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := cache.getOrLoad("a.csv", func() (*dataset.Dataset, error) {
					loads.Add(1)
					time.Sleep(10 * time.Millisecond)
					return ds, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), loads.Load())
	})
}
