package loader

import (
	"em27-metadata/internal/models"
	"fmt"
)

// The documents mirror the JSON files. Timestamps stay strings until parsed, and every alias the files
// have used over time gets its own field.

type locationDocument struct {
	LocationID string   `json:"location_id"`
	Details    string   `json:"details"`
	Lon        *float64 `json:"lon"`
	Lat        *float64 `json:"lat"`
	Alt        *float64 `json:"alt"`
}

type spanDocument struct {
	FromDateTime string `json:"from_datetime"`
	ToDateTime   string `json:"to_datetime"`
	FromDT       string `json:"from_dt"`
	ToDT         string `json:"to_dt"`
}

func (d spanDocument) from() string {
	if d.FromDateTime != "" {
		return d.FromDateTime
	}
	return d.FromDT
}

func (d spanDocument) to() string {
	if d.ToDateTime != "" {
		return d.ToDateTime
	}
	return d.ToDT
}

type setupDocument struct {
	LocationID         *string  `json:"location_id"`
	LID                *string  `json:"lid"`
	PressureDataSource *string  `json:"pressure_data_source"`
	PDS                *string  `json:"pds"`
	UTCOffset          *float64 `json:"utc_offset"`
	ProfileLocationID  *string  `json:"atmospheric_profile_location_id"`
	ProfileLID         *string  `json:"profile_lid"`
}

type setupItemDocument struct {
	spanDocument
	Value *setupDocument `json:"value"`
	V     *setupDocument `json:"v"`
}

// legacyLocationDocument is an element of the "locations" series older sensor files carry instead of setups.
type legacyLocationDocument struct {
	spanDocument
	LocationID string `json:"location_id"`
}

type utcOffsetDocument struct {
	spanDocument
	UTCOffset *float64 `json:"utc_offset"`
}

type pressureDataSourceDocument struct {
	spanDocument
	Source string `json:"source"`
}

type gasCalibrationDocument struct {
	Factors []float64 `json:"factors"`
	Scheme  *string   `json:"scheme"`
	Note    *string   `json:"note"`
}

type calibrationDocument struct {
	Pressure *float64               `json:"pressure"`
	XCO2     *gasCalibrationDocument `json:"xco2"`
	XCH4     *gasCalibrationDocument `json:"xch4"`
	XCO      *gasCalibrationDocument `json:"xco"`
}

// calibrationItemDocument accepts the structured value as well as the single pressure factor of older files.
type calibrationItemDocument struct {
	spanDocument
	Value  *calibrationDocument `json:"value"`
	Factor *float64             `json:"factor"`
}

type sensorDocument struct {
	SensorID     string `json:"sensor_id"`
	SerialNumber *int   `json:"serial_number"`

	Setups    []setupItemDocument      `json:"setups"`
	Locations []legacyLocationDocument `json:"locations"`

	UTCOffsets                  []utcOffsetDocument          `json:"different_utc_offsets"`
	PressureDataSources         []pressureDataSourceDocument `json:"different_pressure_data_sources"`
	CalibrationFactors          []calibrationItemDocument    `json:"calibration_factors"`
	DifferentCalibrationFactors []calibrationItemDocument    `json:"different_calibration_factors"`
}

type campaignDocument struct {
	spanDocument
	CampaignID  string   `json:"campaign_id"`
	SensorIDs   []string `json:"sensor_ids"`
	LocationIDs []string `json:"location_ids"`
}

func firstOf[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func (d locationDocument) toModel() (models.Location, error) {
	switch {
	case d.Lon == nil:
		return models.Location{}, fmt.Errorf("lon is required")
	case d.Lat == nil:
		return models.Location{}, fmt.Errorf("lat is required")
	case d.Alt == nil:
		return models.Location{}, fmt.Errorf("alt is required")
	}

	location := models.Location{
		LocationID: d.LocationID,
		Details:    d.Details,
		Lon:        *d.Lon,
		Lat:        *d.Lat,
		Alt:        *d.Alt,
	}
	if err := location.Validate(); err != nil {
		return models.Location{}, err
	}
	return location, nil
}

func (d *setupDocument) toModel() (models.Setup, error) {
	if d == nil {
		return models.Setup{}, fmt.Errorf("value is required")
	}

	locationID := firstOf(d.LocationID, d.LID)
	if locationID == nil {
		return models.Setup{}, fmt.Errorf("location_id is required")
	}

	setup := models.Setup{
		LocationID:                   *locationID,
		PressureDataSource:           firstOf(d.PressureDataSource, d.PDS),
		AtmosphericProfileLocationID: firstOf(d.ProfileLocationID, d.ProfileLID),
	}
	if d.UTCOffset != nil {
		setup.UTCOffset = *d.UTCOffset
	}
	if err := setup.Validate(); err != nil {
		return models.Setup{}, err
	}
	return setup, nil
}

func (d *calibrationDocument) toModel() models.CalibrationFactors {
	factors := models.UnityCalibration()
	if d.Pressure != nil {
		factors.Pressure = *d.Pressure
	}
	factors.XCO2 = d.XCO2.toModel()
	factors.XCH4 = d.XCH4.toModel()
	factors.XCO = d.XCO.toModel()
	return factors
}

func (d *gasCalibrationDocument) toModel() *models.GasCalibration {
	if d == nil {
		return nil
	}
	return &models.GasCalibration{
		Factors: append([]float64(nil), d.Factors...),
		Scheme:  d.Scheme,
		Note:    d.Note,
	}
}

func (d calibrationItemDocument) toModel() (models.CalibrationFactors, error) {
	var factors models.CalibrationFactors
	switch {
	case d.Value != nil:
		factors = d.Value.toModel()
	case d.Factor != nil:
		factors = models.UnityCalibration()
		factors.Pressure = *d.Factor
	default:
		return models.CalibrationFactors{}, fmt.Errorf("value is required")
	}
	if err := factors.Validate(); err != nil {
		return models.CalibrationFactors{}, err
	}
	return factors, nil
}
