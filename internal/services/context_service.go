package services

import (
	"context"
	"em27-metadata/internal/metadata"
	"em27-metadata/internal/models"
	"fmt"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"time"
)

type CatalogProvider interface {
	Current() (*metadata.Catalog, error)
}

// ContextService answers context queries against the current catalog with bounded concurrency.
type ContextService struct {
	catalogs CatalogProvider
	sem      *semaphore.Weighted
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewContextService(catalogs CatalogProvider, maxConcurrent int, timeout time.Duration, logger zerolog.Logger) *ContextService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &ContextService{
		catalogs: catalogs,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		timeout:  timeout,
		logger:   logger,
	}
}

func (s *ContextService) acquire(ctx context.Context) (*metadata.Catalog, func(), error) {
	cancel := func() {}
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	}
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrQueryCapacity, err)
	}

	catalog, err := s.catalogs.Current()
	if err != nil {
		s.sem.Release(1)
		return nil, nil, err
	}
	return catalog, func() { s.sem.Release(1) }, nil
}

func (s *ContextService) Query(ctx context.Context, sensorID string, from, to time.Time) ([]models.SensorDataContext, error) {
	catalog, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	contexts, err := catalog.Get(sensorID, from, to)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("sensor_id", sensorID).
		Time("from", from).
		Time("to", to).
		Int("contexts", len(contexts)).
		Msg("Resolved contexts")

	return contexts, nil
}

func (s *ContextService) Explode(ctx context.Context, sensorID string, timestamps []time.Time) ([]*models.SensorDataContext, error) {
	catalog, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return catalog.Explode(sensorID, timestamps)
}
