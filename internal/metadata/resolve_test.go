package metadata

import (
	"em27-metadata/internal/models"
	"em27-metadata/internal/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestGetMergesAllSeries(t *testing.T) {
	catalog := mustCatalog(t, []models.Sensor{legacySensor(t)})

	contexts, err := catalog.Get("sid1", mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T23:59:59Z"))
	require.NoError(t, err)
	require.Len(t, contexts, 8)

	wantFrom := []string{"01:00:00", "02:00:00", "12:00:00", "13:00:00", "14:00:00", "15:00:00", "16:00:00", "22:00:00"}
	wantTo := []string{"01:59:59", "09:59:59", "12:59:59", "13:59:59", "14:59:59", "15:59:59", "21:59:59", "22:59:59"}
	for idx, ctx := range contexts {
		assert.Equal(t, mustTime(t, "2020-02-01T"+wantFrom[idx]+"Z"), ctx.FromDateTime, "from of context %d", idx)
		assert.Equal(t, mustTime(t, "2020-02-01T"+wantTo[idx]+"Z"), ctx.ToDateTime, "to of context %d", idx)
	}

	var (
		utcOffsets      []float64
		pressureSources []string
		pressureFactors []float64
		xco2Factors     []float64
		locationIDs     []string
	)
	for _, ctx := range contexts {
		utcOffsets = append(utcOffsets, ctx.UTCOffset)
		pressureSources = append(pressureSources, ctx.PressureDataSource)
		require.NotNil(t, ctx.CalibrationFactors)
		pressureFactors = append(pressureFactors, ctx.CalibrationFactors.Pressure)
		if ctx.CalibrationFactors.XCO2 == nil {
			xco2Factors = append(xco2Factors, 1)
		} else {
			xco2Factors = append(xco2Factors, ctx.CalibrationFactors.XCO2.Factors[0])
		}
		locationIDs = append(locationIDs, ctx.Location.LocationID)
		assert.Equal(t, 51, ctx.SerialNumber)
		assert.True(t, ctx.MultipleContextsOnThisDate)
	}

	assert.Equal(t, []float64{0, 1, 1, 1, 1, 1, 2, 0}, utcOffsets)
	assert.Equal(t, []string{"sid1", "src1", "src1", "src1", "src1", "src2", "src2", "sid1"}, pressureSources)
	assert.Equal(t, []float64{1.0, 1.001, 1.001, 1.001, 1.002, 1.002, 1.002, 1.0}, pressureFactors)
	assert.Equal(t, []float64{1, 1.001, 1.001, 1.004, 1.004, 1.004, 1.004, 1}, xco2Factors)
	assert.Equal(t, []string{"lid1", "lid1", "lid2", "lid2", "lid2", "lid2", "lid2", "lid2"}, locationIDs)
}

func TestGetSplitsAtSetupBoundaries(t *testing.T) {
	sensor := models.Sensor{
		SensorID:     "sid1",
		SerialNumber: 51,
		Setups: []models.SetupRecord{
			setupRecord(t, "2020-02-01T01:00:00Z", "2020-02-01T09:59:59Z", models.Setup{LocationID: "lid1"}),
			setupRecord(t, "2020-02-01T12:00:00Z", "2020-02-01T21:59:59Z", models.Setup{LocationID: "lid2"}),
		},
	}
	window := timeseries.NewInterval(mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T23:59:59Z"))

	// the window splits into five segments, only the two covered by a setup become contexts
	segments := timeseries.Segments(window, sensor.SetupSeries().Crop(window).Intervals())
	require.Len(t, segments, 5)

	catalog := mustCatalog(t, []models.Sensor{sensor})
	contexts, err := catalog.Get("sid1", window.From, window.To)
	require.NoError(t, err)
	require.Len(t, contexts, 2)

	assert.Equal(t, "lid1", contexts[0].Location.LocationID)
	assert.Equal(t, segments[1].From, contexts[0].FromDateTime)
	assert.Equal(t, segments[1].To, contexts[0].ToDateTime)
	assert.Equal(t, "lid2", contexts[1].Location.LocationID)
	assert.Equal(t, segments[3].From, contexts[1].FromDateTime)
	assert.Equal(t, segments[3].To, contexts[1].ToDateTime)

	t.Run("an auxiliary series adds its own breakpoints", func(t *testing.T) {
		sensor := sensor
		sensor.UTCOffsets = []models.UTCOffsetRecord{
			{FromDateTime: mustTime(t, "2020-02-01T05:00:00Z"), ToDateTime: mustTime(t, "2020-02-01T14:59:59Z"), UTCOffset: 2},
		}
		catalog := mustCatalog(t, []models.Sensor{sensor})

		contexts, err := catalog.Get("sid1", window.From, window.To)
		require.NoError(t, err)
		require.Len(t, contexts, 4)

		assert.Equal(t, []float64{0, 2, 2, 0}, []float64{
			contexts[0].UTCOffset, contexts[1].UTCOffset, contexts[2].UTCOffset, contexts[3].UTCOffset,
		})
		assert.Equal(t, mustTime(t, "2020-02-01T04:59:59Z"), contexts[0].ToDateTime)
		assert.Equal(t, mustTime(t, "2020-02-01T15:00:00Z"), contexts[3].FromDateTime)
	})
}

func TestGetCoversWindowWithoutGaps(t *testing.T) {
	sensor := legacySensor(t)
	sensor.Setups = []models.SetupRecord{
		setupRecord(t, "2020-01-01T00:00:00Z", "2020-02-01T09:59:59Z", models.Setup{LocationID: "lid1"}),
		setupRecord(t, "2020-02-01T10:00:00Z", "2020-03-01T00:00:00Z", models.Setup{LocationID: "lid2"}),
	}
	catalog := mustCatalog(t, []models.Sensor{sensor})

	windows := [][2]string{
		{"2020-02-01T00:00:00Z", "2020-02-01T23:59:59Z"},
		{"2020-02-01T09:59:59Z", "2020-02-01T10:00:00Z"},
		{"2020-02-01T13:30:15Z", "2020-02-01T13:30:15Z"},
		{"2020-01-31T12:00:00Z", "2020-02-02T12:00:00Z"},
		{"2020-02-01T01:59:59Z", "2020-02-01T16:00:01Z"},
	}
	for _, w := range windows {
		from, to := mustTime(t, w[0]), mustTime(t, w[1])
		contexts, err := catalog.Get("sid1", from, to)
		require.NoError(t, err)
		require.NotEmpty(t, contexts)

		assert.Equal(t, from, contexts[0].FromDateTime, "window %v", w)
		assert.Equal(t, to, contexts[len(contexts)-1].ToDateTime, "window %v", w)
		for idx := 1; idx < len(contexts); idx++ {
			assert.Equal(t, contexts[idx-1].ToDateTime.Add(time.Second), contexts[idx].FromDateTime, "window %v", w)
		}
	}
}

func TestGetIsIdempotent(t *testing.T) {
	catalog := mustCatalog(t, []models.Sensor{legacySensor(t)})
	from, to := mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T23:59:59Z")

	first, err := catalog.Get("sid1", from, to)
	require.NoError(t, err)
	second, err := catalog.Get("sid1", from, to)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetFallsBackToDefaults(t *testing.T) {
	sensor := models.Sensor{
		SensorID:     "sid1",
		SerialNumber: 51,
		Setups: []models.SetupRecord{
			setupRecord(t, "2020-02-01T00:00:00Z", "2020-02-01T23:59:59Z", models.Setup{LocationID: "lid1"}),
		},
	}
	catalog := mustCatalog(t, []models.Sensor{sensor})

	contexts, err := catalog.Get("sid1", mustTime(t, "2020-02-01T06:00:00Z"), mustTime(t, "2020-02-01T18:00:00Z"))
	require.NoError(t, err)
	require.Len(t, contexts, 1)

	ctx := contexts[0]
	assert.Equal(t, 0.0, ctx.UTCOffset)
	assert.Equal(t, "sid1", ctx.PressureDataSource)
	require.NotNil(t, ctx.CalibrationFactors)
	assert.Equal(t, models.UnityCalibration(), *ctx.CalibrationFactors)
	require.NotNil(t, ctx.AtmosphericProfileLocation)
	assert.Equal(t, "lid1", ctx.AtmosphericProfileLocation.LocationID)
	assert.False(t, ctx.MultipleContextsOnThisDate)
}

func TestGetPrefersSetupValuesOverFilledGaps(t *testing.T) {
	sensor := models.Sensor{
		SensorID:     "sid1",
		SerialNumber: 51,
		Setups: []models.SetupRecord{
			setupRecord(t, "2020-02-01T00:00:00Z", "2020-02-01T23:59:59Z",
				models.Setup{LocationID: "lid1", UTCOffset: 3.5, PressureDataSource: strPtr("ground")}),
		},
		UTCOffsets: []models.UTCOffsetRecord{
			{FromDateTime: mustTime(t, "2020-02-01T10:00:00Z"), ToDateTime: mustTime(t, "2020-02-01T11:59:59Z"), UTCOffset: -1},
		},
		PressureDataSources: []models.PressureDataSourceRecord{
			{FromDateTime: mustTime(t, "2020-02-01T10:00:00Z"), ToDateTime: mustTime(t, "2020-02-01T11:59:59Z"), Source: "roof"},
		},
	}
	catalog := mustCatalog(t, []models.Sensor{sensor})

	contexts, err := catalog.Get("sid1", mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T23:59:59Z"))
	require.NoError(t, err)
	require.Len(t, contexts, 3)

	assert.Equal(t, []float64{3.5, -1, 3.5}, []float64{contexts[0].UTCOffset, contexts[1].UTCOffset, contexts[2].UTCOffset})
	assert.Equal(t, []string{"ground", "roof", "ground"}, []string{
		contexts[0].PressureDataSource, contexts[1].PressureDataSource, contexts[2].PressureDataSource,
	})
}

func TestGetWithInactiveAuxiliaryKinds(t *testing.T) {
	catalog := mustCatalog(t, []models.Sensor{legacySensor(t)}, WithAuxiliaryKinds())

	contexts, err := catalog.Get("sid1", mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T23:59:59Z"))
	require.NoError(t, err)
	require.Len(t, contexts, 2)

	for _, ctx := range contexts {
		assert.Nil(t, ctx.CalibrationFactors)
		assert.Equal(t, 0.0, ctx.UTCOffset)
		assert.Equal(t, "sid1", ctx.PressureDataSource)
	}

	onlyOffsets := mustCatalog(t, []models.Sensor{legacySensor(t)}, WithAuxiliaryKinds(KindUTCOffset))
	contexts, err = onlyOffsets.Get("sid1", mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T23:59:59Z"))
	require.NoError(t, err)
	require.Len(t, contexts, 5)
	assert.Equal(t, mustTime(t, "2020-02-01T16:00:00Z"), contexts[3].FromDateTime)
	assert.Equal(t, 2.0, contexts[3].UTCOffset)
}

func TestGetProfileLocation(t *testing.T) {
	from, to := mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T23:59:59Z")

	catalog := mustCatalog(t, []models.Sensor{setupSensor(t)})
	contexts, err := catalog.Get("sid1", from, to)
	require.NoError(t, err)
	require.Len(t, contexts, 3)

	require.NotNil(t, contexts[0].AtmosphericProfileLocation)
	assert.Equal(t, "lid2", contexts[0].AtmosphericProfileLocation.LocationID)
	assert.Equal(t, 3.7, contexts[0].UTCOffset)
	assert.Equal(t, "A", contexts[0].PressureDataSource)
	require.NotNil(t, contexts[1].AtmosphericProfileLocation)
	assert.Equal(t, "lid1", contexts[1].AtmosphericProfileLocation.LocationID)

	withoutFallback := mustCatalog(t, []models.Sensor{setupSensor(t)}, WithProfileFallback(false))
	contexts, err = withoutFallback.Get("sid1", from, to)
	require.NoError(t, err)
	require.Len(t, contexts, 3)
	require.NotNil(t, contexts[0].AtmosphericProfileLocation)
	assert.Nil(t, contexts[1].AtmosphericProfileLocation)
}

func TestGetMarksMultipleContextsPerDate(t *testing.T) {
	catalog := mustCatalog(t, []models.Sensor{setupSensor(t)})

	contexts, err := catalog.Get("sid1", mustTime(t, "2020-02-02T00:00:00Z"), mustTime(t, "2020-02-04T23:59:59Z"))
	require.NoError(t, err)
	require.Len(t, contexts, 3)

	// C spans into the window from the previous days, D and E share the 4th
	assert.Equal(t, "C", contexts[0].PressureDataSource)
	assert.False(t, contexts[0].MultipleContextsOnThisDate)
	assert.True(t, contexts[1].MultipleContextsOnThisDate)
	assert.True(t, contexts[2].MultipleContextsOnThisDate)
}

func TestGetErrors(t *testing.T) {
	catalog := mustCatalog(t, []models.Sensor{legacySensor(t)})
	t0, t1 := mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T23:59:59Z")

	_, err := catalog.Get("nonexistent", t0, t1)
	require.ErrorIs(t, err, ErrUnknownSensor)
	assert.Contains(t, err.Error(), "nonexistent")

	_, err = catalog.Get("sid1", t1, t0)
	require.ErrorIs(t, err, ErrInvalidRange)
	assert.NotErrorIs(t, err, ErrInternalInvariant)
}

func TestGetWithoutSetupData(t *testing.T) {
	catalog := mustCatalog(t, []models.Sensor{legacySensor(t)})

	contexts, err := catalog.Get("sid1", mustTime(t, "2021-01-01T00:00:00Z"), mustTime(t, "2021-01-01T23:59:59Z"))
	require.NoError(t, err)
	assert.NotNil(t, contexts)
	assert.Empty(t, contexts)
}

func TestCoveringDetectsCorruptSeries(t *testing.T) {
	segment := timeseries.NewInterval(mustTime(t, "2020-02-01T01:00:00Z"), mustTime(t, "2020-02-01T01:59:59Z"))
	corrupt := timeseries.Series[float64]{
		timeseries.NewRecord[float64](timeseries.NewInterval(mustTime(t, "2020-02-01T00:00:00Z"), mustTime(t, "2020-02-01T02:00:00Z")), 1),
		timeseries.NewRecord[float64](timeseries.NewInterval(mustTime(t, "2020-02-01T01:00:00Z"), mustTime(t, "2020-02-01T03:00:00Z")), 2),
	}

	_, _, err := covering("sid1", KindUTCOffset, corrupt, segment)
	require.ErrorIs(t, err, ErrInternalInvariant)

	var invariantErr *InvariantError
	require.ErrorAs(t, err, &invariantErr)
	assert.Equal(t, "sid1", invariantErr.SensorID)
}

func TestBuildContextDetectsMissingLocation(t *testing.T) {
	catalog := mustCatalog(t, []models.Sensor{legacySensor(t)})
	segment := timeseries.NewInterval(mustTime(t, "2020-02-01T01:00:00Z"), mustTime(t, "2020-02-01T01:59:59Z"))

	_, err := catalog.buildContext(
		&catalog.sensors[0],
		segment,
		timeseries.NewRecord(segment, models.Setup{LocationID: "vanished"}),
		timeseries.Record[float64]{Interval: segment, Synthetic: true},
		timeseries.Record[string]{Interval: segment, Synthetic: true},
		timeseries.Record[models.CalibrationFactors]{Interval: segment, Value: models.UnityCalibration(), Synthetic: true},
	)
	assert.ErrorIs(t, err, ErrInternalInvariant)
}
