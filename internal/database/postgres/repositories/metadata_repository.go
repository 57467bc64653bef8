package repositories

import (
	"context"
	"em27-metadata/internal/loader"
	"em27-metadata/internal/models"
	"errors"
	"fmt"
	"gorm.io/gorm"
)

var ErrSensorNotFound = errors.New("sensor not found")

type MetadataRepository struct {
	db *gorm.DB
}

func NewMetadataRepository(db *gorm.DB) *MetadataRepository {
	return &MetadataRepository{db: db}
}

func orderedByStart(db *gorm.DB) *gorm.DB {
	return db.Order("from_datetime ASC")
}

func (r *MetadataRepository) preloadSeries(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Setups", orderedByStart).
		Preload("UTCOffsets", orderedByStart).
		Preload("PressureDataSources", orderedByStart).
		Preload("CalibrationFactors", orderedByStart)
}

// LoadAll reads every location, sensor with all of its series, and campaign.
func (r *MetadataRepository) LoadAll(ctx context.Context) (*loader.Metadata, error) {
	db := r.db.WithContext(ctx)
	out := &loader.Metadata{}

	if err := db.Order("location_id ASC").Find(&out.Locations).Error; err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	if err := r.preloadSeries(db).Order("sensor_id ASC").Find(&out.Sensors).Error; err != nil {
		return nil, fmt.Errorf("failed to load sensors: %w", err)
	}
	if err := db.Order("campaign_id ASC").Find(&out.Campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to load campaigns: %w", err)
	}

	return out, nil
}

// Load makes the repository usable as a catalog source.
func (r *MetadataRepository) Load(ctx context.Context) (*loader.Metadata, error) {
	return r.LoadAll(ctx)
}

func (r *MetadataRepository) FindSensor(ctx context.Context, sensorID string) (*models.Sensor, error) {
	var sensor models.Sensor
	err := r.preloadSeries(r.db.WithContext(ctx)).Where("sensor_id = ?", sensorID).First(&sensor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSensorNotFound, sensorID)
	}
	if err != nil {
		return nil, err
	}
	return &sensor, nil
}

// ReplaceAll swaps the stored metadata for data within one transaction.
func (r *MetadataRepository) ReplaceAll(ctx context.Context, data *loader.Metadata) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.SetupRecord{},
			&models.UTCOffsetRecord{},
			&models.PressureDataSourceRecord{},
			&models.CalibrationRecord{},
			&models.Campaign{},
			&models.Sensor{},
			&models.Location{},
		} {
			if err := global.Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", model, err)
			}
		}

		if len(data.Locations) > 0 {
			if err := tx.CreateInBatches(data.Locations, 100).Error; err != nil {
				return fmt.Errorf("failed to store locations: %w", err)
			}
		}
		for idx := range data.Sensors {
			sensor := data.Sensors[idx].Clone()
			clearRecordIDs(&sensor)
			if err := tx.Create(&sensor).Error; err != nil {
				return fmt.Errorf("failed to store sensor %s: %w", sensor.SensorID, err)
			}
		}
		if len(data.Campaigns) > 0 {
			if err := tx.CreateInBatches(data.Campaigns, 100).Error; err != nil {
				return fmt.Errorf("failed to store campaigns: %w", err)
			}
		}
		return nil
	})
}

func clearRecordIDs(sensor *models.Sensor) {
	for idx := range sensor.Setups {
		sensor.Setups[idx].ID = 0
	}
	for idx := range sensor.UTCOffsets {
		sensor.UTCOffsets[idx].ID = 0
	}
	for idx := range sensor.PressureDataSources {
		sensor.PressureDataSources[idx].ID = 0
	}
	for idx := range sensor.CalibrationFactors {
		sensor.CalibrationFactors[idx].ID = 0
	}
}

var _ loader.Source = (*MetadataRepository)(nil)
