package services

import (
	"context"
	"em27-metadata/internal/loader"
	"em27-metadata/internal/metadata"
	"fmt"
	"github.com/rs/zerolog"
)

type MetadataStore interface {
	ReplaceAll(ctx context.Context, data *loader.Metadata) error
}

// ImportService copies the metadata of a source into a store after it passed the integrity checks.
type ImportService struct {
	source  loader.Source
	store   MetadataStore
	options []metadata.Option
	logger  zerolog.Logger
}

func NewImportService(source loader.Source, store MetadataStore, options []metadata.Option, logger zerolog.Logger) *ImportService {
	return &ImportService{
		source:  source,
		store:   store,
		options: options,
		logger:  logger,
	}
}

func (s *ImportService) Import(ctx context.Context) (*loader.Metadata, error) {
	data, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}

	if _, err := metadata.NewCatalog(data.Locations, data.Sensors, data.Campaigns, s.options...); err != nil {
		return nil, fmt.Errorf("refusing to import invalid metadata: %w", err)
	}

	if err := s.store.ReplaceAll(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to store metadata: %w", err)
	}

	s.logger.Info().
		Int("locations", len(data.Locations)).
		Int("sensors", len(data.Sensors)).
		Int("campaigns", len(data.Campaigns)).
		Msg("Imported metadata")

	return data, nil
}
