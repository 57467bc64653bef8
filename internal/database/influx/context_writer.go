package influx

import (
	"context"
	"em27-metadata/internal/models"
	"fmt"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

const ContextMeasurement = "sensor_context"

// PointWriter is satisfied by api.WriteAPIBlocking.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type ContextWriter struct {
	writeAPI  PointWriter
	batchSize int
	logger    zerolog.Logger
}

func NewContextWriter(writeAPI PointWriter, batchSize int, logger zerolog.Logger) *ContextWriter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ContextWriter{
		writeAPI:  writeAPI,
		batchSize: batchSize,
		logger:    logger,
	}
}

// ContextPoint stores a context at its start time; the end is kept as a unix timestamp field.
func ContextPoint(c *models.SensorDataContext) *write.Point {
	tags := map[string]string{
		"sensor_id":            c.SensorID,
		"location_id":          c.Location.LocationID,
		"pressure_data_source": c.PressureDataSource,
	}
	if c.AtmosphericProfileLocation != nil {
		tags["atmospheric_profile_location_id"] = c.AtmosphericProfileLocation.LocationID
	}

	fields := map[string]interface{}{
		"serial_number":             c.SerialNumber,
		"to_datetime":               c.ToDateTime.Unix(),
		"utc_offset":                c.UTCOffset,
		"lat":                       c.Location.Lat,
		"lon":                       c.Location.Lon,
		"alt":                       c.Location.Alt,
		"multiple_ctx_on_this_date": c.MultipleContextsOnThisDate,
	}
	if c.CalibrationFactors != nil {
		fields["pressure_calibration_factor"] = c.CalibrationFactors.Pressure
	}

	return influxdb2.NewPoint(ContextMeasurement, tags, fields, c.FromDateTime)
}

func (w *ContextWriter) WriteContexts(ctx context.Context, contexts []models.SensorDataContext) error {
	for start := 0; start < len(contexts); start += w.batchSize {
		end := min(start+w.batchSize, len(contexts))

		points := make([]*write.Point, 0, end-start)
		for i := start; i < end; i++ {
			points = append(points, ContextPoint(&contexts[i]))
		}

		if err := w.writeAPI.WritePoint(ctx, points...); err != nil {
			return fmt.Errorf("failed to write contexts %d to %d: %w", start, end-1, err)
		}
	}

	w.logger.Debug().
		Int("contexts", len(contexts)).
		Msg("Wrote sensor contexts to InfluxDB")

	return nil
}
