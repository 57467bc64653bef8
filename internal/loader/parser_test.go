package loader

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestParseLocations(t *testing.T) {
	locations, err := Parser{}.ParseLocations(readTestdata(t, "locations.json"))
	require.NoError(t, err)
	require.Len(t, locations, 3)

	assert.Equal(t, "TUM_I", locations[0].LocationID)
	assert.Equal(t, "TUM Innenstadt, rooftop", locations[0].Details)
	assert.Equal(t, 11.569, locations[0].Lon)
	assert.Equal(t, 539.0, locations[0].Alt)
}

func TestParseLocationsRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing lat", `[{"location_id": "a", "lon": 1, "alt": 1}]`},
		{"latitude out of range", `[{"location_id": "a", "lon": 1, "lat": 91, "alt": 1}]`},
		{"invalid id", `[{"location_id": "a b", "lon": 1, "lat": 1, "alt": 1}]`},
		{"wrong type", `[{"location_id": 1, "lon": 1, "lat": 1, "alt": 1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parser{}.ParseLocations([]byte(tt.input))
			require.ErrorIs(t, err, ErrInvalidRecord)
			assert.Contains(t, err.Error(), "locations[0]")
		})
	}
}

func TestParseSensors(t *testing.T) {
	sensors, err := Parser{MinuteAligned: true}.ParseSensors(readTestdata(t, "sensors.json"))
	require.NoError(t, err)
	require.Len(t, sensors, 2)

	ma := sensors[0]
	assert.Equal(t, "ma", ma.SensorID)
	assert.Equal(t, 61, ma.SerialNumber)
	require.Len(t, ma.Setups, 2)

	first := ma.Setups[0]
	assert.Equal(t, time.Date(2020, 8, 23, 0, 0, 0, 0, time.UTC), first.FromDateTime)
	assert.Equal(t, "TUM_I", first.Value.LocationID)
	assert.Equal(t, 1.0, first.Value.UTCOffset)
	assert.Nil(t, first.Value.PressureDataSource)
	require.NotNil(t, first.Value.AtmosphericProfileLocationID)
	assert.Equal(t, "FEL", *first.Value.AtmosphericProfileLocationID)

	aliased := ma.Setups[1]
	assert.Equal(t, time.Date(2020, 8, 26, 23, 59, 59, 0, time.UTC), aliased.ToDateTime)
	assert.Equal(t, "FEL", aliased.Value.LocationID)
	require.NotNil(t, aliased.Value.PressureDataSource)
	assert.Equal(t, "ma-roof", *aliased.Value.PressureDataSource)
	require.NotNil(t, aliased.Value.AtmosphericProfileLocationID)
	assert.Equal(t, "TUM_I", *aliased.Value.AtmosphericProfileLocationID)
	assert.Equal(t, 0.0, aliased.Value.UTCOffset)

	require.Len(t, ma.CalibrationFactors, 1)
	calibration := ma.CalibrationFactors[0].Value
	assert.Equal(t, 1.002, calibration.Pressure)
	require.NotNil(t, calibration.XCO2)
	assert.Equal(t, []float64{1.001, 0.0}, calibration.XCO2.Factors)
	assert.Nil(t, calibration.XCH4)
}

func TestParseLegacySensor(t *testing.T) {
	sensors, err := Parser{MinuteAligned: true}.ParseSensors(readTestdata(t, "sensors.json"))
	require.NoError(t, err)

	mb := sensors[1]
	require.Len(t, mb.Setups, 1)
	assert.Equal(t, "GRAE", mb.Setups[0].Value.LocationID)
	assert.Equal(t, time.Date(2020, 8, 22, 22, 0, 0, 0, time.UTC), mb.Setups[0].FromDateTime)

	require.Len(t, mb.UTCOffsets, 1)
	assert.Equal(t, 2.0, mb.UTCOffsets[0].UTCOffset)
	require.Len(t, mb.PressureDataSources, 1)
	assert.Equal(t, "mc", mb.PressureDataSources[0].Source)
	require.Len(t, mb.CalibrationFactors, 1)
	assert.Equal(t, 0.999, mb.CalibrationFactors[0].Value.Pressure)
	assert.Nil(t, mb.CalibrationFactors[0].Value.XCO2)
}

func TestParseSensorsRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "missing serial number",
			input:   `[{"sensor_id": "a", "setups": []}]`,
			message: "serial_number is required",
		},
		{
			name:    "serial number below one",
			input:   `[{"sensor_id": "a", "serial_number": 0, "setups": []}]`,
			message: "serial_number",
		},
		{
			name: "malformed timestamp",
			input: `[{"sensor_id": "a", "serial_number": 1, "setups": [
				{"from_datetime": "2020-01-01T00:00:00", "to_datetime": "2020-01-01T23:59:59+00:00", "value": {"location_id": "x"}}
			]}]`,
			message: "setups[0]: from_datetime",
		},
		{
			name: "missing setup value",
			input: `[{"sensor_id": "a", "serial_number": 1, "setups": [
				{"from_datetime": "2020-01-01T00:00:00+00:00", "to_datetime": "2020-01-01T23:59:59+00:00"}
			]}]`,
			message: "value is required",
		},
		{
			name: "utc offset out of range",
			input: `[{"sensor_id": "a", "serial_number": 1, "setups": [
				{"from_datetime": "2020-01-01T00:00:00+00:00", "to_datetime": "2020-01-01T23:59:59+00:00", "value": {"location_id": "x", "utc_offset": 12}}
			]}]`,
			message: "utc_offset",
		},
		{
			name: "not minute aligned",
			input: `[{"sensor_id": "a", "serial_number": 1, "setups": [
				{"from_datetime": "2020-01-01T00:00:00+00:00", "to_datetime": "2020-01-01T23:59:00+00:00", "value": {"location_id": "x"}}
			]}]`,
			message: "end of a minute",
		},
		{
			name: "setups mixed with legacy locations",
			input: `[{"sensor_id": "a", "serial_number": 1,
				"setups": [{"from_datetime": "2020-01-01T00:00:00+00:00", "to_datetime": "2020-01-01T23:59:59+00:00", "value": {"location_id": "x"}}],
				"locations": [{"from_datetime": "2020-01-02T00:00:00+00:00", "to_datetime": "2020-01-02T23:59:59+00:00", "location_id": "x"}]
			}]`,
			message: "cannot be used together",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parser{MinuteAligned: true}.ParseSensors([]byte(tt.input))
			require.ErrorIs(t, err, ErrInvalidRecord)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseCampaigns(t *testing.T) {
	campaigns, err := Parser{}.ParseCampaigns(readTestdata(t, "campaigns.json"))
	require.NoError(t, err)
	require.Len(t, campaigns, 1)

	assert.Equal(t, "muccnet", campaigns[0].CampaignID)
	assert.Equal(t, []string{"ma", "mb"}, []string(campaigns[0].SensorIDs))
	assert.Len(t, campaigns[0].LocationIDs, 3)
}

func TestParseRejectsNonListDocuments(t *testing.T) {
	tests := []struct {
		input string
		err   error
	}{
		{`{"location_id": "a"}`, ErrNotAList},
		{`[1, 2]`, ErrNotAList},
		{`null`, ErrNotAList},
		{`[{"location_id": "a"`, ErrInvalidJSON},
		{``, ErrInvalidJSON},
	}

	for _, tt := range tests {
		_, err := Parser{}.ParseLocations([]byte(tt.input))
		assert.ErrorIs(t, err, tt.err, "input %q", tt.input)
	}

	campaigns, err := Parser{}.ParseCampaigns([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, campaigns)
}
