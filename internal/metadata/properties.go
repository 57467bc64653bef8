package metadata

import (
	"em27-metadata/internal/models"
	"em27-metadata/internal/timeseries"
	"fmt"
	"strings"
)

// PropertyKind enumerates the per-sensor series the engine merges.
type PropertyKind int

const (
	KindSetup PropertyKind = iota
	KindUTCOffset
	KindPressureDataSource
	KindCalibrationFactors
)

func (k PropertyKind) String() string {
	switch k {
	case KindSetup:
		return "setups"
	case KindUTCOffset:
		return "utc_offsets"
	case KindPressureDataSource:
		return "pressure_data_sources"
	case KindCalibrationFactors:
		return "calibration_factors"
	default:
		return fmt.Sprintf("PropertyKind(%d)", int(k))
	}
}

// AuxiliaryKinds returns every kind besides the primary setups series.
func AuxiliaryKinds() []PropertyKind {
	return []PropertyKind{KindUTCOffset, KindPressureDataSource, KindCalibrationFactors}
}

func ParsePropertyKind(value string) (PropertyKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, kind := range append([]PropertyKind{KindSetup}, AuxiliaryKinds()...) {
		if kind.String() == normalized {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown property kind %q", value)
}

// property describes one auxiliary series: where a sensor keeps it and which constant fills its gaps.
type property[V any] struct {
	kind     PropertyKind
	series   func(*models.Sensor) timeseries.Series[V]
	fallback func(*models.Sensor) V
}

var (
	utcOffsetProperty = property[float64]{
		kind:     KindUTCOffset,
		series:   (*models.Sensor).UTCOffsetSeries,
		fallback: func(*models.Sensor) float64 { return 0 },
	}
	pressureDataSourceProperty = property[string]{
		kind:     KindPressureDataSource,
		series:   (*models.Sensor).PressureDataSourceSeries,
		fallback: func(s *models.Sensor) string { return s.SensorID },
	}
	calibrationProperty = property[models.CalibrationFactors]{
		kind:     KindCalibrationFactors,
		series:   (*models.Sensor).CalibrationSeries,
		fallback: func(*models.Sensor) models.CalibrationFactors { return models.UnityCalibration() },
	}
)

// prepare crops the sensor's series to the window and fills every gap with the fallback value. An inactive
// kind yields one synthetic record spanning the whole window.
func (p property[V]) prepare(sensor *models.Sensor, window timeseries.Interval, active bool) (timeseries.Series[V], error) {
	var cropped timeseries.Series[V]
	if active {
		cropped = p.series(sensor).Crop(window)
	}

	filled, err := cropped.FillGaps(window, p.fallback(sensor))
	if err != nil {
		return nil, &InvariantError{
			SensorID: sensor.SensorID,
			Segment:  window,
			Reason:   fmt.Sprintf("gap filling %s", p.kind),
			Err:      err,
		}
	}
	return filled, nil
}

// covering finds the single record of a series that spans the segment.
func covering[V any](sensorID string, kind PropertyKind, series timeseries.Series[V], segment timeseries.Interval) (timeseries.Record[V], bool, error) {
	candidates := series.Covering(segment)
	switch len(candidates) {
	case 0:
		return timeseries.Record[V]{}, false, nil
	case 1:
		return candidates[0], true, nil
	default:
		return timeseries.Record[V]{}, false, &InvariantError{
			SensorID: sensorID,
			Segment:  segment,
			Reason:   fmt.Sprintf("%d %s records cover the segment", len(candidates), kind),
		}
	}
}
