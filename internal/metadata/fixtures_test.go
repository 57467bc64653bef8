package metadata

import (
	"em27-metadata/internal/models"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func strPtr(s string) *string {
	return &s
}

func testLocations() []models.Location {
	return []models.Location{
		{LocationID: "lid1", Details: "description of location 1", Lon: 10.5, Lat: 48.1, Alt: 500},
		{LocationID: "lid2", Details: "description of location 2", Lon: 11.3, Lat: 48.0, Alt: 600},
	}
}

func setupRecord(t *testing.T, from, to string, setup models.Setup) models.SetupRecord {
	return models.SetupRecord{FromDateTime: mustTime(t, from), ToDateTime: mustTime(t, to), Value: setup}
}

func gas(factor float64) *models.GasCalibration {
	return &models.GasCalibration{Factors: []float64{factor, 0}, Scheme: strPtr("Ohyama2021")}
}

// legacySensor mirrors a sensor described with one location series plus independent auxiliary series.
func legacySensor(t *testing.T) models.Sensor {
	return models.Sensor{
		SensorID:     "sid1",
		SerialNumber: 51,
		Setups: []models.SetupRecord{
			setupRecord(t, "2020-02-01T01:00:00Z", "2020-02-01T09:59:59Z", models.Setup{LocationID: "lid1"}),
			setupRecord(t, "2020-02-01T12:00:00Z", "2020-02-01T22:59:59Z", models.Setup{LocationID: "lid2"}),
		},
		UTCOffsets: []models.UTCOffsetRecord{
			{FromDateTime: mustTime(t, "2020-02-01T02:00:00Z"), ToDateTime: mustTime(t, "2020-02-01T15:59:59Z"), UTCOffset: 1},
			{FromDateTime: mustTime(t, "2020-02-01T16:00:00Z"), ToDateTime: mustTime(t, "2020-02-01T21:59:59Z"), UTCOffset: 2},
		},
		PressureDataSources: []models.PressureDataSourceRecord{
			{FromDateTime: mustTime(t, "2020-02-01T02:00:00Z"), ToDateTime: mustTime(t, "2020-02-01T14:59:59Z"), Source: "src1"},
			{FromDateTime: mustTime(t, "2020-02-01T15:00:00Z"), ToDateTime: mustTime(t, "2020-02-01T21:59:59Z"), Source: "src2"},
		},
		CalibrationFactors: []models.CalibrationRecord{
			{
				FromDateTime: mustTime(t, "2020-02-01T02:00:00Z"),
				ToDateTime:   mustTime(t, "2020-02-01T12:59:59Z"),
				Value:        models.CalibrationFactors{Pressure: 1.001, XCO2: gas(1.001), XCH4: gas(1.002), XCO: gas(1.003)},
			},
			{
				FromDateTime: mustTime(t, "2020-02-01T13:00:00Z"),
				ToDateTime:   mustTime(t, "2020-02-01T13:59:59Z"),
				Value:        models.CalibrationFactors{Pressure: 1.001, XCO2: gas(1.004), XCH4: gas(1.005), XCO: gas(1.006)},
			},
			{
				FromDateTime: mustTime(t, "2020-02-01T14:00:00Z"),
				ToDateTime:   mustTime(t, "2020-02-01T21:59:59Z"),
				Value:        models.CalibrationFactors{Pressure: 1.002, XCO2: gas(1.004), XCH4: gas(1.005), XCO: gas(1.006)},
			},
		},
	}
}

// setupSensor carries every property on its setups, with gaps between them.
func setupSensor(t *testing.T) models.Sensor {
	return models.Sensor{
		SensorID:     "sid1",
		SerialNumber: 51,
		Setups: []models.SetupRecord{
			setupRecord(t, "2020-02-01T01:00:00Z", "2020-02-01T09:59:59Z",
				models.Setup{LocationID: "lid1", PressureDataSource: strPtr("A"), UTCOffset: 3.7, AtmosphericProfileLocationID: strPtr("lid2")}),
			setupRecord(t, "2020-02-01T12:00:00Z", "2020-02-01T21:59:59Z",
				models.Setup{LocationID: "lid1", PressureDataSource: strPtr("B")}),
			setupRecord(t, "2020-02-01T22:00:00Z", "2020-02-03T22:59:59Z",
				models.Setup{LocationID: "lid1", PressureDataSource: strPtr("C")}),
			setupRecord(t, "2020-02-04T00:00:00Z", "2020-02-04T20:59:59Z",
				models.Setup{LocationID: "lid1", PressureDataSource: strPtr("D")}),
			setupRecord(t, "2020-02-04T22:00:00Z", "2020-02-04T23:59:59Z",
				models.Setup{LocationID: "lid1", PressureDataSource: strPtr("E")}),
		},
	}
}

func mustCatalog(t *testing.T, sensors []models.Sensor, opts ...Option) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(testLocations(), sensors, nil, opts...)
	require.NoError(t, err)
	return catalog
}
