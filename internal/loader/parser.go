package loader

import (
	"bytes"
	"em27-metadata/internal/models"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidJSON   = errors.New("not a valid json file")
	ErrNotAList      = errors.New("not a list of objects")
	ErrInvalidRecord = errors.New("invalid metadata record")
)

// Parser turns the contents of the locations, sensors and campaigns files into models. Each record is
// checked on its own; references between records are left to the catalog.
type Parser struct {
	// MinuteAligned requires every from_datetime to sit on second 0 and every to_datetime on second 59.
	MinuteAligned bool
}

func (p Parser) ParseLocations(data []byte) ([]models.Location, error) {
	items, err := decodeList(data)
	if err != nil {
		return nil, err
	}

	locations := make([]models.Location, 0, len(items))
	for idx, item := range items {
		var doc locationDocument
		if err := json.Unmarshal(item, &doc); err != nil {
			return nil, fmt.Errorf("%w: locations[%d]: %v", ErrInvalidRecord, idx, err)
		}
		location, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: locations[%d]: %v", ErrInvalidRecord, idx, err)
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (p Parser) ParseSensors(data []byte) ([]models.Sensor, error) {
	items, err := decodeList(data)
	if err != nil {
		return nil, err
	}

	sensors := make([]models.Sensor, 0, len(items))
	for idx, item := range items {
		var doc sensorDocument
		if err := json.Unmarshal(item, &doc); err != nil {
			return nil, fmt.Errorf("%w: sensors[%d]: %v", ErrInvalidRecord, idx, err)
		}
		sensor, err := p.sensor(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: sensors[%d]: %v", ErrInvalidRecord, idx, err)
		}
		sensors = append(sensors, sensor)
	}
	return sensors, nil
}

func (p Parser) ParseCampaigns(data []byte) ([]models.Campaign, error) {
	items, err := decodeList(data)
	if err != nil {
		return nil, err
	}

	campaigns := make([]models.Campaign, 0, len(items))
	for idx, item := range items {
		var doc campaignDocument
		if err := json.Unmarshal(item, &doc); err != nil {
			return nil, fmt.Errorf("%w: campaigns[%d]: %v", ErrInvalidRecord, idx, err)
		}
		from, to, err := parseSpan(doc.from(), doc.to(), p.MinuteAligned)
		if err != nil {
			return nil, fmt.Errorf("%w: campaigns[%d]: %v", ErrInvalidRecord, idx, err)
		}

		campaign := models.Campaign{
			CampaignID:   doc.CampaignID,
			FromDateTime: from,
			ToDateTime:   to,
			SensorIDs:    models.StringList(append([]string{}, doc.SensorIDs...)),
			LocationIDs:  models.StringList(append([]string{}, doc.LocationIDs...)),
		}
		if err := campaign.Validate(); err != nil {
			return nil, fmt.Errorf("%w: campaigns[%d]: %v", ErrInvalidRecord, idx, err)
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

func (p Parser) sensor(doc sensorDocument) (models.Sensor, error) {
	if doc.SerialNumber == nil {
		return models.Sensor{}, fmt.Errorf("serial_number is required")
	}
	if len(doc.Setups) > 0 && len(doc.Locations) > 0 {
		return models.Sensor{}, fmt.Errorf("setups and locations cannot be used together")
	}

	sensor := models.Sensor{
		SensorID:     doc.SensorID,
		SerialNumber: *doc.SerialNumber,
		Setups:       []models.SetupRecord{},
	}

	for idx, item := range doc.Setups {
		from, to, err := parseSpan(item.from(), item.to(), p.MinuteAligned)
		if err != nil {
			return models.Sensor{}, fmt.Errorf("setups[%d]: %w", idx, err)
		}
		setup, err := firstOf(item.Value, item.V).toModel()
		if err != nil {
			return models.Sensor{}, fmt.Errorf("setups[%d]: %w", idx, err)
		}
		sensor.Setups = append(sensor.Setups, models.SetupRecord{
			SensorID:     doc.SensorID,
			FromDateTime: from,
			ToDateTime:   to,
			Value:        setup,
		})
	}

	for idx, item := range doc.Locations {
		from, to, err := parseSpan(item.from(), item.to(), p.MinuteAligned)
		if err != nil {
			return models.Sensor{}, fmt.Errorf("locations[%d]: %w", idx, err)
		}
		if item.LocationID == "" {
			return models.Sensor{}, fmt.Errorf("locations[%d]: location_id is required", idx)
		}
		sensor.Setups = append(sensor.Setups, models.SetupRecord{
			SensorID:     doc.SensorID,
			FromDateTime: from,
			ToDateTime:   to,
			Value:        models.Setup{LocationID: item.LocationID},
		})
	}

	for idx, item := range doc.UTCOffsets {
		from, to, err := parseSpan(item.from(), item.to(), p.MinuteAligned)
		if err != nil {
			return models.Sensor{}, fmt.Errorf("different_utc_offsets[%d]: %w", idx, err)
		}
		if item.UTCOffset == nil {
			return models.Sensor{}, fmt.Errorf("different_utc_offsets[%d]: utc_offset is required", idx)
		}
		sensor.UTCOffsets = append(sensor.UTCOffsets, models.UTCOffsetRecord{
			SensorID:     doc.SensorID,
			FromDateTime: from,
			ToDateTime:   to,
			UTCOffset:    *item.UTCOffset,
		})
	}

	for idx, item := range doc.PressureDataSources {
		from, to, err := parseSpan(item.from(), item.to(), p.MinuteAligned)
		if err != nil {
			return models.Sensor{}, fmt.Errorf("different_pressure_data_sources[%d]: %w", idx, err)
		}
		sensor.PressureDataSources = append(sensor.PressureDataSources, models.PressureDataSourceRecord{
			SensorID:     doc.SensorID,
			FromDateTime: from,
			ToDateTime:   to,
			Source:       item.Source,
		})
	}

	calibrations := doc.CalibrationFactors
	field := "calibration_factors"
	if len(calibrations) == 0 {
		calibrations = doc.DifferentCalibrationFactors
		field = "different_calibration_factors"
	}
	for idx, item := range calibrations {
		from, to, err := parseSpan(item.from(), item.to(), p.MinuteAligned)
		if err != nil {
			return models.Sensor{}, fmt.Errorf("%s[%d]: %w", field, idx, err)
		}
		factors, err := item.toModel()
		if err != nil {
			return models.Sensor{}, fmt.Errorf("%s[%d]: %w", field, idx, err)
		}
		sensor.CalibrationFactors = append(sensor.CalibrationFactors, models.CalibrationRecord{
			SensorID:     doc.SensorID,
			FromDateTime: from,
			ToDateTime:   to,
			Value:        factors,
		})
	}

	if err := sensor.Validate(); err != nil {
		return models.Sensor{}, err
	}
	return sensor, nil
}

func decodeList(data []byte) ([]json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, ErrNotAList
	}
	for _, item := range items {
		if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
			return nil, ErrNotAList
		}
	}
	return items, nil
}
