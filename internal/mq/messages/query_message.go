package messages

import (
	"em27-metadata/internal/loader"
	"em27-metadata/internal/models"
	"errors"
	"fmt"
	"time"
)

var ErrMissingField = errors.New("missing field")

// QueryMessage is received on <base>/v1/queries/<sensor_id>.
type QueryMessage struct {
	Data   QueryDto `json:"data"`
	Source string   `json:"source"`
}

// QueryDto asks for the contexts in [from, to] or, when Timestamps is set, for the context covering each
// timestamp.
type QueryDto struct {
	RequestID    string   `json:"request_id,omitempty"`
	FromDateTime string   `json:"from_datetime,omitempty"`
	ToDateTime   string   `json:"to_datetime,omitempty"`
	Timestamps   []string `json:"timestamps,omitempty"`
}

type Query struct {
	RequestID  string
	From       time.Time
	To         time.Time
	Timestamps []time.Time
}

func (q *QueryDto) IsExplode() bool {
	return len(q.Timestamps) > 0
}

func (q *QueryDto) ToQuery() (Query, error) {
	query := Query{RequestID: q.RequestID}

	if q.IsExplode() {
		query.Timestamps = make([]time.Time, 0, len(q.Timestamps))
		for i, raw := range q.Timestamps {
			ts, err := loader.ParseTimestamp(raw)
			if err != nil {
				return Query{}, fmt.Errorf("timestamps[%d]: %w", i, err)
			}
			query.Timestamps = append(query.Timestamps, ts)
		}
		return query, nil
	}

	if q.FromDateTime == "" {
		return Query{}, fmt.Errorf("%w: from_datetime", ErrMissingField)
	}
	if q.ToDateTime == "" {
		return Query{}, fmt.Errorf("%w: to_datetime", ErrMissingField)
	}

	var err error
	if query.From, err = loader.ParseTimestamp(q.FromDateTime); err != nil {
		return Query{}, fmt.Errorf("from_datetime: %w", err)
	}
	if query.To, err = loader.ParseTimestamp(q.ToDateTime); err != nil {
		return Query{}, fmt.Errorf("to_datetime: %w", err)
	}

	return query, nil
}

// ContextsMessage is the reply published on <base>/v1/contexts/<sensor_id>. A resolved range query always
// carries contexts, an empty list when no setup covers the window.
type ContextsMessage struct {
	RequestID string                      `json:"request_id"`
	SensorID  string                      `json:"sensor_id"`
	Contexts  []models.SensorDataContext  `json:"contexts"`
	Exploded  []*models.SensorDataContext `json:"exploded,omitempty"`
	Error     string                      `json:"error,omitempty"`
}
