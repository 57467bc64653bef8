package services

import (
	"context"
	"em27-metadata/internal/loader"
	"em27-metadata/internal/models"
	"sync/atomic"
	"time"
)

var day = time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

type fakeSource struct {
	data  *loader.Metadata
	err   error
	loads atomic.Int32
}

func (s *fakeSource) Load(context.Context) (*loader.Metadata, error) {
	s.loads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func testMetadata() *loader.Metadata {
	setup := func(from, to time.Time, locationID string) models.SetupRecord {
		return models.SetupRecord{
			FromDateTime: from,
			ToDateTime:   to,
			Value:        models.Setup{LocationID: locationID},
		}
	}

	return &loader.Metadata{
		Locations: []models.Location{
			{LocationID: "TUM_I", Lon: 11.569, Lat: 48.151, Alt: 539},
			{LocationID: "FEL", Lon: 11.4, Lat: 48.15, Alt: 540},
		},
		Sensors: []models.Sensor{
			{
				SensorID:     "ma",
				SerialNumber: 61,
				Setups: []models.SetupRecord{
					setup(day, day.Add(12*time.Hour-time.Second), "TUM_I"),
					setup(day.Add(12*time.Hour), day.Add(24*time.Hour-time.Second), "FEL"),
				},
			},
			{
				SensorID:     "mb",
				SerialNumber: 86,
				Setups: []models.SetupRecord{
					setup(day, day.Add(24*time.Hour-time.Second), "FEL"),
				},
			},
		},
		Campaigns: []models.Campaign{},
	}
}

func invalidMetadata() *loader.Metadata {
	data := testMetadata()
	data.Locations = data.Locations[:1]
	return data
}
