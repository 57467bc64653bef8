package models

import (
	"database/sql/driver"
	"em27-metadata/internal/timeseries"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is stored as a jsonb array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var fieldBytes []byte
	switch v := value.(type) {
	case []byte:
		fieldBytes = v
	case string:
		fieldBytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	return json.Unmarshal(fieldBytes, l)
}

// Campaign groups sensors and locations of a measurement campaign.
type Campaign struct {
	CampaignID   string     `gorm:"primaryKey;size:128" json:"campaign_id"`
	FromDateTime time.Time  `gorm:"column:from_datetime;not null" json:"from_datetime"`
	ToDateTime   time.Time  `gorm:"column:to_datetime;not null" json:"to_datetime"`
	SensorIDs    StringList `gorm:"type:jsonb" json:"sensor_ids"`
	LocationIDs  StringList `gorm:"type:jsonb" json:"location_ids"`
}

func (c Campaign) Interval() timeseries.Interval {
	return timeseries.NewInterval(c.FromDateTime, c.ToDateTime)
}

func (c *Campaign) Validate() error {
	if err := ValidateID("campaign_id", c.CampaignID); err != nil {
		return err
	}
	if !c.FromDateTime.Before(c.ToDateTime) {
		return fmt.Errorf("from_datetime must be before to_datetime")
	}
	return nil
}

func (c *Campaign) HasSensor(sensorID string) bool {
	for _, id := range c.SensorIDs {
		if id == sensorID {
			return true
		}
	}
	return false
}
