package models

import (
	"database/sql/driver"
	"em27-metadata/internal/timeseries"
	"encoding/json"
	"fmt"
	"time"
)

// GasCalibration holds the calibration of one retrieved gas species.
type GasCalibration struct {
	Factors []float64 `json:"factors"`
	Scheme  *string   `json:"scheme,omitempty"`
	Note    *string   `json:"note,omitempty"`
}

// CalibrationFactors are applied multiplicatively: expected true value = measured value * factor.
type CalibrationFactors struct {
	Pressure float64         `json:"pressure"`
	XCO2     *GasCalibration `json:"xco2,omitempty"`
	XCH4     *GasCalibration `json:"xch4,omitempty"`
	XCO      *GasCalibration `json:"xco,omitempty"`
}

// UnityCalibration leaves pressure untouched and applies no gas calibration.
func UnityCalibration() CalibrationFactors {
	return CalibrationFactors{Pressure: 1.0}
}

func (c CalibrationFactors) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *CalibrationFactors) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var fieldBytes []byte
	switch v := value.(type) {
	case []byte:
		fieldBytes = v
	case string:
		fieldBytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CalibrationFactors", value)
	}

	return json.Unmarshal(fieldBytes, c)
}

func (c *CalibrationFactors) Validate() error {
	if c.Pressure <= 0 {
		return fmt.Errorf("pressure calibration factor must be positive, got %v", c.Pressure)
	}
	gases := []struct {
		name string
		gas  *GasCalibration
	}{{"xco2", c.XCO2}, {"xch4", c.XCH4}, {"xco", c.XCO}}
	for _, g := range gases {
		if g.gas != nil && len(g.gas.Factors) == 0 {
			return fmt.Errorf("%s calibration needs at least one factor", g.name)
		}
	}
	return nil
}

// CalibrationRecord is one element of a sensor's calibration factors series.
type CalibrationRecord struct {
	ID           uint               `gorm:"primaryKey" json:"-"`
	SensorID     string             `gorm:"size:128;index;not null" json:"-"`
	FromDateTime time.Time          `gorm:"column:from_datetime;not null" json:"from_datetime"`
	ToDateTime   time.Time          `gorm:"column:to_datetime;not null" json:"to_datetime"`
	Value        CalibrationFactors `gorm:"type:jsonb" json:"value"`
}

func (r CalibrationRecord) Interval() timeseries.Interval {
	return timeseries.NewInterval(r.FromDateTime, r.ToDateTime)
}
