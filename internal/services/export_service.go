package services

import (
	"context"
	"em27-metadata/internal/models"
	"fmt"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"time"
)

type ContextsWriter interface {
	WriteContexts(ctx context.Context, contexts []models.SensorDataContext) error
}

// ExportService resolves the contexts of one or more sensors and writes them to a time-series store.
type ExportService struct {
	catalogs CatalogProvider
	writer   ContextsWriter
	logger   zerolog.Logger
}

func NewExportService(catalogs CatalogProvider, writer ContextsWriter, logger zerolog.Logger) *ExportService {
	return &ExportService{
		catalogs: catalogs,
		writer:   writer,
		logger:   logger,
	}
}

// Export writes the contexts in [from, to] of the given sensors, or of every sensor when none are given.
// Nothing is written when any sensor fails to resolve.
func (s *ExportService) Export(ctx context.Context, sensorIDs []string, from, to time.Time) (int, error) {
	catalog, err := s.catalogs.Current()
	if err != nil {
		return 0, err
	}

	if len(sensorIDs) == 0 {
		for _, sensor := range catalog.Sensors() {
			sensorIDs = append(sensorIDs, sensor.SensorID)
		}
	}

	resolved := make([][]models.SensorDataContext, len(sensorIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for idx, sensorID := range sensorIDs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			contexts, err := catalog.Get(sensorID, from, to)
			if err != nil {
				return fmt.Errorf("sensor %s: %w", sensorID, err)
			}
			resolved[idx] = contexts
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for idx, contexts := range resolved {
		if err := s.writer.WriteContexts(ctx, contexts); err != nil {
			return total, fmt.Errorf("failed to export sensor %s: %w", sensorIDs[idx], err)
		}
		total += len(contexts)

		s.logger.Info().
			Str("sensor_id", sensorIDs[idx]).
			Int("contexts", len(contexts)).
			Msg("Exported sensor contexts")
	}

	return total, nil
}
