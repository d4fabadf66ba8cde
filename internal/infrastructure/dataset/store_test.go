package dataset

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Ingredients Name,Natural/Artificial,Processed/Unprocessed\n"

func TestStoreReload(t *testing.T) {
	path := writeFile(t, "ingredients.csv", header+"sugar,0,1\n")
	m := metrics.New()
	store := NewStore(path, StoreConfig{Metrics: m})

	assert.Nil(t, store.Current())

	ds, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, ds, store.Current())
	assert.Equal(t, 1, store.Current().Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatasetReloads.WithLabelValues("ok")))

	require.NoError(t, os.WriteFile(path, []byte(header+"sugar,0,1\nsalt,0,0\n"), 0o644))
	_, err = store.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.Current().Len())
}

func TestStoreReloadFailureKeepsPrevious(t *testing.T) {
	path := writeFile(t, "ingredients.csv", header+"sugar,0,1\n")
	store := NewStore(path, StoreConfig{})

	first, err := store.Reload(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("broken\n"), 0o644))
	_, err = store.Reload(context.Background())
	assert.True(t, errors.Is(err, domain.ErrSchema))
	assert.Same(t, first, store.Current())
}

func TestStoreReloadCancelled(t *testing.T) {
	calls := 0
	store := NewStore("unused.csv", StoreConfig{Loader: func(string) (*domain.Dataset, error) {
		calls++
		return domain.NewDataset("unused.csv", nil), nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Reload(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestStoreConcurrentReads(t *testing.T) {
	store := NewStore("mem.csv", StoreConfig{Loader: func(path string) (*domain.Dataset, error) {
		return domain.NewDataset(path, []domain.IngredientRecord{{Name: "sugar"}}), nil
	}})
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if ds := store.Current(); ds != nil {
					_, _ = ds.Lookup("sugar")
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := store.Reload(context.Background())
		require.NoError(t, err)
	}
	wg.Wait()
}
