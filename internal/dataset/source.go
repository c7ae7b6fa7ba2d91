package dataset

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/couchcryptid/road-accident-dashboard/internal/observability"
)

// Source loads the dataset on first use and hands out the same read-only
// handle afterwards. A failed load is not cached; the next Get tries again.
type Source struct {
	loader  Loader
	logger  *slog.Logger
	metrics *observability.Metrics

	mu sync.Mutex
	ds *domain.Dataset
}

// NewSource wraps a loader.
func NewSource(loader Loader, logger *slog.Logger, metrics *observability.Metrics) *Source {
	return &Source{loader: loader, logger: logger, metrics: metrics}
}

// Get returns the dataset, loading it if this is the first successful call.
func (s *Source) Get(ctx context.Context) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ds != nil {
		return s.ds, nil
	}

	start := time.Now()
	ds, err := s.loader.Load(ctx)
	if err != nil {
		s.metrics.DatasetLoadErrors.Inc()
		s.logger.Error("dataset load failed", "error", err)
		return nil, err
	}
	s.metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	s.metrics.DatasetRows.Set(float64(ds.Len()))
	s.logger.Info("dataset loaded", "rows", ds.Len(), "columns", ds.Columns())

	s.ds = ds
	return ds, nil
}

// CheckReadiness returns nil once the dataset has been loaded.
func (s *Source) CheckReadiness(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ds == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}
