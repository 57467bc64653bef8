package timeseries

import (
	"fmt"
	"time"
)

// Resolution is the smallest distinguishable step between two instants.
const Resolution = time.Second

// Interval is a closed time interval [From, To] at one-second resolution.
type Interval struct {
	From time.Time `json:"from_datetime"`
	To   time.Time `json:"to_datetime"`
}

// NewInterval truncates both bounds to whole seconds and normalizes them to UTC.
func NewInterval(from, to time.Time) Interval {
	return Interval{
		From: from.UTC().Truncate(Resolution),
		To:   to.UTC().Truncate(Resolution),
	}
}

func (i Interval) IsValid() bool {
	return !i.From.After(i.To)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.From) && !t.After(i.To)
}

// Covers reports whether other lies completely inside i.
func (i Interval) Covers(other Interval) bool {
	return !other.From.Before(i.From) && !other.To.After(i.To)
}

func (i Interval) Overlaps(other Interval) bool {
	return !i.To.Before(other.From) && !other.To.Before(i.From)
}

func (i Interval) Intersect(other Interval) (Interval, bool) {
	if !i.Overlaps(other) {
		return Interval{}, false
	}

	out := i
	if other.From.After(out.From) {
		out.From = other.From
	}
	if other.To.Before(out.To) {
		out.To = other.To
	}
	return out, true
}

// IsImmediatelyBefore reports whether other starts exactly one second after i ends.
func (i Interval) IsImmediatelyBefore(other Interval) bool {
	return i.To.Add(Resolution).Equal(other.From)
}

// HasGapBefore reports whether at least one second lies between the end of i and the start of other.
func (i Interval) HasGapBefore(other Interval) bool {
	return i.To.Add(Resolution).Before(other.From)
}

// Duration counts both endpoints, a single-second interval lasts one second.
func (i Interval) Duration() time.Duration {
	return i.To.Sub(i.From) + Resolution
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s]", i.From.Format(time.RFC3339), i.To.Format(time.RFC3339))
}
