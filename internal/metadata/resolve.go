package metadata

import (
	"em27-metadata/internal/models"
	"em27-metadata/internal/timeseries"
	"errors"
	"fmt"
	"time"
)

// Get returns the contexts of a sensor within [from, to]: the ordered, adjacent periods in which the
// location, UTC offset, pressure data source, calibration factors and atmospheric profile location stay
// constant. Periods without a setup are left out, so a window without any setup yields an empty slice.
func (c *Catalog) Get(sensorID string, from, to time.Time) ([]models.SensorDataContext, error) {
	sensor, ok := c.sensor(sensorID)
	if !ok {
		return nil, fmt.Errorf("%w: no metadata for sensor_id %q", ErrUnknownSensor, sensorID)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from_datetime (%s) > to_datetime (%s)",
			ErrInvalidRange, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	contexts, err := c.resolve(sensor, timeseries.NewInterval(from, to))
	if err != nil {
		if errors.Is(err, ErrInternalInvariant) {
			c.options.logger.Error().Err(err).
				Str("sensor_id", sensorID).
				Time("from", from).
				Time("to", to).
				Msg("Resolving sensor metadata hit a bug")
		}
		return nil, err
	}
	return contexts, nil
}

func (c *Catalog) resolve(sensor *models.Sensor, window timeseries.Interval) ([]models.SensorDataContext, error) {
	contexts := []models.SensorDataContext{}

	setups := sensor.SetupSeries().Crop(window)
	if len(setups) == 0 {
		return contexts, nil
	}

	utcOffsets, err := utcOffsetProperty.prepare(sensor, window, c.options.auxiliary[KindUTCOffset])
	if err != nil {
		return nil, err
	}
	pressureSources, err := pressureDataSourceProperty.prepare(sensor, window, c.options.auxiliary[KindPressureDataSource])
	if err != nil {
		return nil, err
	}
	calibrations, err := calibrationProperty.prepare(sensor, window, c.options.auxiliary[KindCalibrationFactors])
	if err != nil {
		return nil, err
	}

	segments := timeseries.Segments(window,
		setups.Intervals(),
		utcOffsets.Intervals(),
		pressureSources.Intervals(),
		calibrations.Intervals(),
	)

	for _, segment := range segments {
		setup, found, err := covering(sensor.SensorID, KindSetup, setups, segment)
		if err != nil {
			return nil, err
		}
		utcOffset, utcFound, err := covering(sensor.SensorID, KindUTCOffset, utcOffsets, segment)
		if err != nil {
			return nil, err
		}
		pressureSource, pressureFound, err := covering(sensor.SensorID, KindPressureDataSource, pressureSources, segment)
		if err != nil {
			return nil, err
		}
		calibration, calibrationFound, err := covering(sensor.SensorID, KindCalibrationFactors, calibrations, segment)
		if err != nil {
			return nil, err
		}
		if !found || !utcFound || !pressureFound || !calibrationFound {
			continue
		}

		ctx, err := c.buildContext(sensor, segment, setup, utcOffset, pressureSource, calibration)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, ctx)
	}

	markMultipleContexts(contexts)
	return contexts, nil
}

func (c *Catalog) buildContext(
	sensor *models.Sensor,
	segment timeseries.Interval,
	setup timeseries.Record[models.Setup],
	utcOffset timeseries.Record[float64],
	pressureSource timeseries.Record[string],
	calibration timeseries.Record[models.CalibrationFactors],
) (models.SensorDataContext, error) {
	location, ok := c.Location(setup.Value.LocationID)
	if !ok {
		return models.SensorDataContext{}, &InvariantError{
			SensorID: sensor.SensorID,
			Segment:  segment,
			Reason:   fmt.Sprintf("location %q is not in the catalog", setup.Value.LocationID),
		}
	}

	ctx := models.SensorDataContext{
		SensorID:           sensor.SensorID,
		SerialNumber:       sensor.SerialNumber,
		FromDateTime:       segment.From,
		ToDateTime:         segment.To,
		Location:           location,
		UTCOffset:          setup.Value.UTCOffset,
		PressureDataSource: setup.Value.PressureSource(sensor.SensorID),
	}

	if !utcOffset.Synthetic {
		ctx.UTCOffset = utcOffset.Value
	}
	if !pressureSource.Synthetic {
		ctx.PressureDataSource = pressureSource.Value
	}
	if c.options.auxiliary[KindCalibrationFactors] {
		factors := calibration.Value.Clone()
		ctx.CalibrationFactors = &factors
	}

	if profileID, ok := setup.Value.ProfileLocationID(c.options.profileFallback); ok {
		profile, found := c.Location(profileID)
		if !found {
			return models.SensorDataContext{}, &InvariantError{
				SensorID: sensor.SensorID,
				Segment:  segment,
				Reason:   fmt.Sprintf("atmospheric profile location %q is not in the catalog", profileID),
			}
		}
		ctx.AtmosphericProfileLocation = &profile
	}

	return ctx, nil
}

// markMultipleContexts flags every context that shares a UTC date with its predecessor or successor.
func markMultipleContexts(contexts []models.SensorDataContext) {
	for idx := range contexts {
		ctx := &contexts[idx]
		ctx.MultipleContextsOnThisDate = false
		if idx > 0 && sameDate(contexts[idx-1].ToDateTime, ctx.FromDateTime) {
			ctx.MultipleContextsOnThisDate = true
			continue
		}
		if idx < len(contexts)-1 && sameDate(contexts[idx+1].FromDateTime, ctx.ToDateTime) {
			ctx.MultipleContextsOnThisDate = true
		}
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
