package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/logger"
	"github.com/labellens/backend/internal/metrics"
)

// LoaderFunc builds a dataset from a path
type LoaderFunc func(path string) (*domain.Dataset, error)

// StoreConfig holds optional Store collaborators
type StoreConfig struct {
	Loader  LoaderFunc
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// Store holds the current dataset. Readers never block; reloads are serialized
// and a failed reload leaves the previous dataset in place.
type Store struct {
	path    string
	loader  LoaderFunc
	current atomic.Pointer[domain.Dataset]
	mu      sync.Mutex
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewStore creates an empty store for path. Call Reload to populate it.
func NewStore(path string, config StoreConfig) *Store {
	loader := config.Loader
	if loader == nil {
		loader = Load
	}
	log := config.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		path:    path,
		loader:  loader,
		logger:  log,
		metrics: config.Metrics,
	}
}

// Current returns the loaded dataset, or nil before the first successful load
func (s *Store) Current() *domain.Dataset {
	return s.current.Load()
}

// Path returns the dataset location the store loads from
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the dataset from its source and swaps it in
func (s *Store) Reload(ctx context.Context) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	ds, err := s.loader(s.path)
	s.metrics.ObserveReload(ds.Len(), err)
	if err != nil {
		s.logger.Error("Dataset reload failed", logger.String("path", s.path), logger.Error(err))
		return nil, err
	}

	s.current.Store(ds)
	s.logger.Info("Dataset loaded",
		logger.String("path", s.path),
		logger.Int("ingredients", ds.Len()),
		logger.Duration("took", time.Since(start)),
	)
	return ds, nil
}
