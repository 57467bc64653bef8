package services

import (
	"context"
	"em27-metadata/internal/loader"
	"em27-metadata/internal/metadata"
	"fmt"
	"github.com/rs/zerolog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultReloadDebounce = 2 * time.Second
	reloadTimeout         = time.Minute
)

// CatalogService owns the current catalog. A reload builds a new catalog and swaps it in only when the
// integrity checks pass, so readers never observe a partially loaded state.
type CatalogService struct {
	source   loader.Source
	options  []metadata.Option
	logger   zerolog.Logger
	debounce time.Duration

	current atomic.Pointer[metadata.Catalog]

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

func NewCatalogService(source loader.Source, options []metadata.Option, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		source:   source,
		options:  append(append([]metadata.Option{}, options...), metadata.WithLogger(logger)),
		logger:   logger,
		debounce: DefaultReloadDebounce,
	}
}

func (s *CatalogService) SetDebounce(debounce time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounce = debounce
}

func (s *CatalogService) Reload(ctx context.Context) error {
	start := time.Now()

	catalog, err := loader.BuildCatalog(ctx, s.source, s.options...)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}
	s.current.Store(catalog)

	s.logger.Info().
		Int("locations", len(catalog.Locations())).
		Int("sensors", len(catalog.Sensors())).
		Int("campaigns", len(catalog.Campaigns())).
		Dur("duration", time.Since(start)).
		Msg("Metadata catalog loaded")

	return nil
}

func (s *CatalogService) Current() (*metadata.Catalog, error) {
	catalog := s.current.Load()
	if catalog == nil {
		return nil, ErrCatalogNotLoaded
	}
	return catalog, nil
}

// RequestReload schedules a reload after the debounce delay. Further requests within the delay restart it.
func (s *CatalogService) RequestReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Reset(s.debounce)
		return
	}
	s.timer = time.AfterFunc(s.debounce, s.scheduledReload)
}

func (s *CatalogService) scheduledReload() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	if err := s.Reload(ctx); err != nil {
		s.logger.Error().Err(err).
			Msg("Catalog reload failed, keeping the previous catalog")
	}
}

func (s *CatalogService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}
