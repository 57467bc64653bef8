package models

import (
	"em27-metadata/internal/timeseries"
	"time"
)

// UTCOffsetRecord overrides the UTC offset of a sensor's setups for one period.
type UTCOffsetRecord struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SensorID     string    `gorm:"size:128;index;not null" json:"-"`
	FromDateTime time.Time `gorm:"column:from_datetime;not null" json:"from_datetime"`
	ToDateTime   time.Time `gorm:"column:to_datetime;not null" json:"to_datetime"`
	UTCOffset    float64   `json:"utc_offset"`
}

func (r UTCOffsetRecord) Interval() timeseries.Interval {
	return timeseries.NewInterval(r.FromDateTime, r.ToDateTime)
}

// PressureDataSourceRecord overrides the pressure data source of a sensor's setups for one period.
type PressureDataSourceRecord struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SensorID     string    `gorm:"size:128;index;not null" json:"-"`
	FromDateTime time.Time `gorm:"column:from_datetime;not null" json:"from_datetime"`
	ToDateTime   time.Time `gorm:"column:to_datetime;not null" json:"to_datetime"`
	Source       string    `gorm:"size:128;not null" json:"source"`
}

func (r PressureDataSourceRecord) Interval() timeseries.Interval {
	return timeseries.NewInterval(r.FromDateTime, r.ToDateTime)
}
