package models

import "time"

// SensorDataContext is the resolved metadata of a sensor for a period in which no property changes.
type SensorDataContext struct {
	SensorID     string    `json:"sensor_id"`
	SerialNumber int       `json:"serial_number"`
	FromDateTime time.Time `json:"from_datetime"`
	ToDateTime   time.Time `json:"to_datetime"`
	Location     Location  `json:"location"`

	UTCOffset                  float64             `json:"utc_offset"`
	PressureDataSource         string              `json:"pressure_data_source"`
	CalibrationFactors         *CalibrationFactors `json:"calibration_factors,omitempty"`
	AtmosphericProfileLocation *Location           `json:"atmospheric_profile_location,omitempty"`

	// MultipleContextsOnThisDate is set when a neighbouring context shares a UTC date with this one.
	MultipleContextsOnThisDate bool `json:"multiple_ctx_on_this_date"`
}

func (c *SensorDataContext) Covers(t time.Time) bool {
	return !t.Before(c.FromDateTime) && !t.After(c.ToDateTime)
}
