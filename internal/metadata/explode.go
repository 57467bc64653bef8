package metadata

import (
	"em27-metadata/internal/models"
	"fmt"
	"sort"
	"time"
)

// Explode looks up the context of a sensor for every given timestamp. The result has one entry per
// timestamp, in input order, which is nil where no setup covers the timestamp. All lookups share a single
// resolution over the span of the timestamps.
func (c *Catalog) Explode(sensorID string, timestamps []time.Time) ([]*models.SensorDataContext, error) {
	if _, ok := c.sensor(sensorID); !ok {
		return nil, fmt.Errorf("%w: no metadata for sensor_id %q", ErrUnknownSensor, sensorID)
	}

	out := make([]*models.SensorDataContext, len(timestamps))
	if len(timestamps) == 0 {
		return out, nil
	}

	first, last := timestamps[0], timestamps[0]
	for _, t := range timestamps[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}

	contexts, err := c.Get(sensorID, first, last)
	if err != nil {
		return nil, err
	}

	for idx, t := range timestamps {
		t = t.UTC().Truncate(time.Second)
		pos := sort.Search(len(contexts), func(i int) bool {
			return !contexts[i].ToDateTime.Before(t)
		})
		if pos < len(contexts) && contexts[pos].Covers(t) {
			ctx := contexts[pos]
			out[idx] = &ctx
		}
	}
	return out, nil
}
