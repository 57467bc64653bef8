package loader

import (
	"context"
	"em27-metadata/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testdataSource() *LocalSource {
	return &LocalSource{
		LocationsPath: filepath.Join("testdata", "locations.json"),
		SensorsPath:   filepath.Join("testdata", "sensors.json"),
		CampaignsPath: filepath.Join("testdata", "campaigns.json"),
		Parser:        Parser{MinuteAligned: true},
	}
}

func TestLocalSourceLoad(t *testing.T) {
	data, err := testdataSource().Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, data.Locations, 3)
	assert.Len(t, data.Sensors, 2)
	assert.Len(t, data.Campaigns, 1)
}

func TestLocalSourceWithoutCampaigns(t *testing.T) {
	source := testdataSource()
	source.CampaignsPath = ""

	data, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, data.Campaigns)
	assert.Empty(t, data.Campaigns)
}

func TestLocalSourceErrors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`[{"location_id":`), 0o600))
	object := filepath.Join(dir, "object.json")
	require.NoError(t, os.WriteFile(object, []byte(`{"location_id": "a"}`), 0o600))

	t.Run("missing file", func(t *testing.T) {
		source := testdataSource()
		source.SensorsPath = filepath.Join(dir, "missing.json")

		_, err := source.Load(context.Background())
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "sensors file")
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("invalid json", func(t *testing.T) {
		source := testdataSource()
		source.LocationsPath = invalid

		_, err := source.Load(context.Background())
		require.ErrorIs(t, err, ErrInvalidJSON)
		assert.Contains(t, err.Error(), invalid)
	})

	t.Run("not a list", func(t *testing.T) {
		source := testdataSource()
		source.CampaignsPath = object

		_, err := source.Load(context.Background())
		require.ErrorIs(t, err, ErrNotAList)
		assert.Contains(t, err.Error(), "campaigns file")
	})
}

func TestBuildCatalog(t *testing.T) {
	catalog, err := BuildCatalog(context.Background(), testdataSource())
	require.NoError(t, err)

	contexts, err := catalog.Get("ma",
		time.Date(2020, 8, 24, 12, 0, 0, 0, time.UTC),
		time.Date(2020, 8, 25, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, contexts, 2)

	assert.Equal(t, "TUM_I", contexts[0].Location.LocationID)
	assert.Equal(t, "FEL", contexts[0].AtmosphericProfileLocation.LocationID)
	assert.Equal(t, "ma", contexts[0].PressureDataSource)
	assert.Equal(t, "FEL", contexts[1].Location.LocationID)
	assert.Equal(t, "ma-roof", contexts[1].PressureDataSource)
	assert.Equal(t, 1.002, contexts[1].CalibrationFactors.Pressure)
	assert.False(t, contexts[0].MultipleContextsOnThisDate)

	legacy, err := catalog.Get("mb",
		time.Date(2020, 8, 22, 22, 0, 0, 0, time.UTC),
		time.Date(2020, 8, 24, 21, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, legacy, 2)
	assert.Equal(t, 2.0, legacy[0].UTCOffset)
	assert.Equal(t, "mb", legacy[0].PressureDataSource)
	assert.Equal(t, 0.0, legacy[1].UTCOffset)
	assert.Equal(t, "mc", legacy[1].PressureDataSource)
	assert.Equal(t, 0.999, legacy[1].CalibrationFactors.Pressure)
}

func TestBuildCatalogReportsIntegrityErrors(t *testing.T) {
	source := testdataSource()
	source.LocationsPath = filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(source.LocationsPath,
		[]byte(`[{"location_id": "TUM_I", "lon": 11.5, "lat": 48.1, "alt": 500}]`), 0o600))

	_, err := BuildCatalog(context.Background(), source)
	require.ErrorIs(t, err, metadata.ErrValidation)
	assert.Contains(t, err.Error(), "FEL")
}
