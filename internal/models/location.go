package models

import (
	"fmt"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const maxIDLength = 128

// Location is a place a sensor can be set up at.
type Location struct {
	LocationID string  `gorm:"primaryKey;size:128" json:"location_id"`
	Details    string  `gorm:"type:text" json:"details"`
	Lon        float64 `gorm:"not null" json:"lon"`
	Lat        float64 `gorm:"not null" json:"lat"`
	Alt        float64 `gorm:"not null" json:"alt"`
}

func (l *Location) Validate() error {
	if err := ValidateID("location_id", l.LocationID); err != nil {
		return err
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("lon must be within [-180, 180], got %v", l.Lon)
	}
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("lat must be within [-90, 90], got %v", l.Lat)
	}
	if l.Alt < -20 || l.Alt > 10000 {
		return fmt.Errorf("alt must be within [-20, 10000], got %v", l.Alt)
	}
	return nil
}

// ValidateID checks the format shared by location, sensor and campaign ids.
func ValidateID(field, id string) error {
	if id == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%s must not be longer than %d characters", field, maxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%s %q may only contain letters, numbers, dashes and underscores", field, id)
	}
	return nil
}
