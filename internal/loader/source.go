package loader

import (
	"context"
	"em27-metadata/internal/metadata"
	"em27-metadata/internal/models"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Metadata is the raw content of a metadata repository before integrity checks.
type Metadata struct {
	Locations []models.Location
	Sensors   []models.Sensor
	Campaigns []models.Campaign
}

type Source interface {
	Load(ctx context.Context) (*Metadata, error)
}

// BuildCatalog loads the metadata from source and validates it into a catalog.
func BuildCatalog(ctx context.Context, source Source, opts ...metadata.Option) (*metadata.Catalog, error) {
	data, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	return metadata.NewCatalog(data.Locations, data.Sensors, data.Campaigns, opts...)
}

// LocalSource reads the metadata from JSON files on disk. The campaigns file is optional.
type LocalSource struct {
	LocationsPath string
	SensorsPath   string
	CampaignsPath string
	Parser        Parser
}

func (s *LocalSource) Load(ctx context.Context) (*Metadata, error) {
	locationsData, err := readFile("locations", s.LocationsPath)
	if err != nil {
		return nil, err
	}
	sensorsData, err := readFile("sensors", s.SensorsPath)
	if err != nil {
		return nil, err
	}

	out := &Metadata{Campaigns: []models.Campaign{}}
	if out.Locations, err = s.Parser.ParseLocations(locationsData); err != nil {
		return nil, fmt.Errorf("locations file at (%s): %w", s.LocationsPath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if out.Sensors, err = s.Parser.ParseSensors(sensorsData); err != nil {
		return nil, fmt.Errorf("sensors file at (%s): %w", s.SensorsPath, err)
	}

	if s.CampaignsPath == "" {
		return out, nil
	}
	campaignsData, err := readFile("campaigns", s.CampaignsPath)
	if err != nil {
		return nil, err
	}
	if out.Campaigns, err = s.Parser.ParseCampaigns(campaignsData); err != nil {
		return nil, fmt.Errorf("campaigns file at (%s): %w", s.CampaignsPath, err)
	}
	return out, nil
}

func readFile(name, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%s file path is required", name)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s file at (%s) does not exist: %w", name, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file at (%s): %w", name, path, err)
	}
	return data, nil
}
