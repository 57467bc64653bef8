package metadata

import (
	"em27-metadata/internal/models"
)

// Catalog holds the validated locations, sensors and campaigns. It is never modified after NewCatalog
// returns and can be queried from multiple goroutines.
type Catalog struct {
	locations []models.Location
	sensors   []models.Sensor
	campaigns []models.Campaign

	locationIndex map[string]int
	sensorIndex   map[string]int
	campaignIndex map[string]int

	options options
}

// NewCatalog validates the integrity of the given collections and returns a queryable catalog. The checks
// cover id uniqueness, references to locations and sensors, and the ordering of every sensor series. On any
// violation a *ValidationError listing all of them is returned and no catalog is built.
func NewCatalog(locations []models.Location, sensors []models.Sensor, campaigns []models.Campaign, opts ...Option) (*Catalog, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if violations := validate(locations, sensors, campaigns); len(violations) > 0 {
		o.logger.Debug().
			Int("violations", len(violations)).
			Msg("Metadata integrity check failed")
		return nil, &ValidationError{Violations: violations}
	}

	c := &Catalog{
		locations:     make([]models.Location, len(locations)),
		sensors:       make([]models.Sensor, len(sensors)),
		campaigns:     make([]models.Campaign, len(campaigns)),
		locationIndex: make(map[string]int, len(locations)),
		sensorIndex:   make(map[string]int, len(sensors)),
		campaignIndex: make(map[string]int, len(campaigns)),
		options:       o,
	}

	copy(c.locations, locations)
	for idx, l := range c.locations {
		c.locationIndex[l.LocationID] = idx
	}
	for idx, s := range sensors {
		c.sensors[idx] = s.Clone()
		c.sensorIndex[s.SensorID] = idx
	}
	for idx, campaign := range campaigns {
		c.campaigns[idx] = campaign.Clone()
		c.campaignIndex[campaign.CampaignID] = idx
	}

	o.logger.Debug().
		Int("locations", len(c.locations)).
		Int("sensors", len(c.sensors)).
		Int("campaigns", len(c.campaigns)).
		Msg("Metadata catalog built")

	return c, nil
}

func (c *Catalog) Locations() []models.Location {
	return append([]models.Location(nil), c.locations...)
}

func (c *Catalog) Sensors() []models.Sensor {
	out := make([]models.Sensor, len(c.sensors))
	for idx, s := range c.sensors {
		out[idx] = s.Clone()
	}
	return out
}

func (c *Catalog) Campaigns() []models.Campaign {
	out := make([]models.Campaign, len(c.campaigns))
	for idx, campaign := range c.campaigns {
		out[idx] = campaign.Clone()
	}
	return out
}

func (c *Catalog) Location(locationID string) (models.Location, bool) {
	idx, ok := c.locationIndex[locationID]
	if !ok {
		return models.Location{}, false
	}
	return c.locations[idx], true
}

func (c *Catalog) Sensor(sensorID string) (models.Sensor, bool) {
	idx, ok := c.sensorIndex[sensorID]
	if !ok {
		return models.Sensor{}, false
	}
	return c.sensors[idx].Clone(), true
}

func (c *Catalog) Campaign(campaignID string) (models.Campaign, bool) {
	idx, ok := c.campaignIndex[campaignID]
	if !ok {
		return models.Campaign{}, false
	}
	return c.campaigns[idx].Clone(), true
}

// CampaignsForSensor returns the campaigns the sensor takes part in, in catalog order.
func (c *Catalog) CampaignsForSensor(sensorID string) []models.Campaign {
	var out []models.Campaign
	for _, campaign := range c.campaigns {
		if campaign.HasSensor(sensorID) {
			out = append(out, campaign.Clone())
		}
	}
	return out
}

func (c *Catalog) sensor(sensorID string) (*models.Sensor, bool) {
	idx, ok := c.sensorIndex[sensorID]
	if !ok {
		return nil, false
	}
	return &c.sensors[idx], true
}
