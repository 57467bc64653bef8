package models

import (
	"em27-metadata/internal/timeseries"
	"fmt"
	"time"
)

// Setup describes where and how a sensor was operated during one period.
type Setup struct {
	LocationID string `gorm:"size:128;not null" json:"location_id"`

	// PressureDataSource falls back to the sensor's own id when unset.
	PressureDataSource *string `gorm:"size:128" json:"pressure_data_source,omitempty"`
	UTCOffset          float64 `json:"utc_offset"`

	// AtmosphericProfileLocationID names the location whose coordinates are used for the atmospheric
	// profiles. It falls back to LocationID when unset.
	AtmosphericProfileLocationID *string `gorm:"size:128" json:"atmospheric_profile_location_id,omitempty"`
}

func (s Setup) PressureSource(sensorID string) string {
	if s.PressureDataSource != nil {
		return *s.PressureDataSource
	}
	return sensorID
}

// ProfileLocationID returns the atmospheric profile location id. Without fallback an unset id stays empty.
func (s Setup) ProfileLocationID(fallback bool) (string, bool) {
	if s.AtmosphericProfileLocationID != nil {
		return *s.AtmosphericProfileLocationID, true
	}
	if fallback {
		return s.LocationID, true
	}
	return "", false
}

func (s *Setup) Validate() error {
	if s.LocationID == "" {
		return fmt.Errorf("location_id is required")
	}
	if s.PressureDataSource != nil && *s.PressureDataSource == "" {
		return fmt.Errorf("pressure_data_source must not be empty")
	}
	if s.UTCOffset <= -12 || s.UTCOffset >= 12 {
		return fmt.Errorf("utc_offset must be within (-12, 12), got %v", s.UTCOffset)
	}
	if s.AtmosphericProfileLocationID != nil && *s.AtmosphericProfileLocationID == "" {
		return fmt.Errorf("atmospheric_profile_location_id must not be empty")
	}
	return nil
}

// SetupRecord is one element of a sensor's setups series.
type SetupRecord struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SensorID     string    `gorm:"size:128;index;not null" json:"-"`
	FromDateTime time.Time `gorm:"column:from_datetime;not null" json:"from_datetime"`
	ToDateTime   time.Time `gorm:"column:to_datetime;not null" json:"to_datetime"`
	Value        Setup     `gorm:"embedded;embeddedPrefix:setup_" json:"value"`
}

func (r SetupRecord) Interval() timeseries.Interval {
	return timeseries.NewInterval(r.FromDateTime, r.ToDateTime)
}
