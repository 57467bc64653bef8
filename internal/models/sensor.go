package models

import (
	"em27-metadata/internal/timeseries"
	"fmt"
)

// Sensor is one EM27/SUN system together with the history of its configuration.
type Sensor struct {
	SensorID     string        `gorm:"primaryKey;size:128" json:"sensor_id"`
	SerialNumber int           `gorm:"not null" json:"serial_number"`
	Setups       []SetupRecord `gorm:"foreignKey:SensorID;references:SensorID;constraint:OnDelete:CASCADE" json:"setups"`

	UTCOffsets          []UTCOffsetRecord          `gorm:"foreignKey:SensorID;references:SensorID;constraint:OnDelete:CASCADE" json:"different_utc_offsets,omitempty"`
	PressureDataSources []PressureDataSourceRecord `gorm:"foreignKey:SensorID;references:SensorID;constraint:OnDelete:CASCADE" json:"different_pressure_data_sources,omitempty"`
	CalibrationFactors  []CalibrationRecord        `gorm:"foreignKey:SensorID;references:SensorID;constraint:OnDelete:CASCADE" json:"calibration_factors,omitempty"`
}

func (s *Sensor) Validate() error {
	if err := ValidateID("sensor_id", s.SensorID); err != nil {
		return err
	}
	if s.SerialNumber < 1 {
		return fmt.Errorf("serial_number must be at least 1, got %d", s.SerialNumber)
	}
	for idx := range s.Setups {
		if err := s.Setups[idx].Value.Validate(); err != nil {
			return fmt.Errorf("setups[%d]: %w", idx, err)
		}
	}
	for idx, r := range s.UTCOffsets {
		if r.UTCOffset <= -12 || r.UTCOffset >= 12 {
			return fmt.Errorf("different_utc_offsets[%d]: utc_offset must be within (-12, 12), got %v", idx, r.UTCOffset)
		}
	}
	for idx, r := range s.PressureDataSources {
		if r.Source == "" {
			return fmt.Errorf("different_pressure_data_sources[%d]: source is required", idx)
		}
	}
	for idx := range s.CalibrationFactors {
		if err := s.CalibrationFactors[idx].Value.Validate(); err != nil {
			return fmt.Errorf("calibration_factors[%d]: %w", idx, err)
		}
	}
	return nil
}

func (s *Sensor) SetupSeries() timeseries.Series[Setup] {
	out := make(timeseries.Series[Setup], len(s.Setups))
	for idx, r := range s.Setups {
		out[idx] = timeseries.NewRecord(r.Interval(), r.Value)
	}
	return out
}

func (s *Sensor) UTCOffsetSeries() timeseries.Series[float64] {
	out := make(timeseries.Series[float64], len(s.UTCOffsets))
	for idx, r := range s.UTCOffsets {
		out[idx] = timeseries.NewRecord(r.Interval(), r.UTCOffset)
	}
	return out
}

func (s *Sensor) PressureDataSourceSeries() timeseries.Series[string] {
	out := make(timeseries.Series[string], len(s.PressureDataSources))
	for idx, r := range s.PressureDataSources {
		out[idx] = timeseries.NewRecord(r.Interval(), r.Source)
	}
	return out
}

func (s *Sensor) CalibrationSeries() timeseries.Series[CalibrationFactors] {
	out := make(timeseries.Series[CalibrationFactors], len(s.CalibrationFactors))
	for idx, r := range s.CalibrationFactors {
		out[idx] = timeseries.NewRecord(r.Interval(), r.Value)
	}
	return out
}
