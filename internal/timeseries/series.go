package timeseries

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrCoverage    = errors.New("series does not cover the window continuously")
	ErrInvalidSpan = errors.New("record ends before it starts")
	ErrUnordered   = errors.New("records are overlapping or not sorted")
)

// Record is one value of a property, valid during its interval.
type Record[V any] struct {
	Interval
	Value V

	// Synthetic is set on records inserted by FillGaps.
	Synthetic bool
}

func NewRecord[V any](interval Interval, value V) Record[V] {
	return Record[V]{Interval: interval, Value: value}
}

// Series is the history of one property, sorted and free of overlaps.
type Series[V any] []Record[V]

// OrderError points at the record of a series that breaks the ordering rules.
type OrderError struct {
	Index int
	Prev  *Interval
	Curr  Interval
	Err   error
}

func (e *OrderError) Error() string {
	if e.Prev != nil {
		return fmt.Sprintf("record %d: %v: %s then %s", e.Index, e.Err, e.Prev, e.Curr)
	}
	return fmt.Sprintf("record %d: %v: %s", e.Index, e.Err, e.Curr)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// Validate checks every record individually and every consecutive pair. With strict set a record must
// last longer than a single instant.
func (s Series[V]) Validate(strict bool) error {
	for idx, r := range s {
		if (strict && !r.From.Before(r.To)) || r.From.After(r.To) {
			return &OrderError{Index: idx, Curr: r.Interval, Err: ErrInvalidSpan}
		}
		if idx > 0 {
			prev := s[idx-1].Interval
			if !prev.To.Before(r.From) {
				return &OrderError{Index: idx, Prev: &prev, Curr: r.Interval, Err: ErrUnordered}
			}
		}
	}
	return nil
}

// Crop drops every record outside the window and clips the remaining ones to it.
func (s Series[V]) Crop(window Interval) Series[V] {
	out := make(Series[V], 0, len(s))
	for _, r := range s {
		clipped, ok := r.Interval.Intersect(window)
		if !ok {
			continue
		}
		r.Interval = clipped
		out = append(out, r)
	}
	return out
}

// FillGaps inserts synthetic records holding def wherever the series leaves part of the window uncovered.
// The series must already be cropped to the window.
func (s Series[V]) FillGaps(window Interval, def V) (Series[V], error) {
	out := make(Series[V], 0, 2*len(s)+1)
	synthetic := func(from, to time.Time) Record[V] {
		return Record[V]{Interval: Interval{From: from, To: to}, Value: def, Synthetic: true}
	}

	if len(s) == 0 {
		out = append(out, synthetic(window.From, window.To))
	} else {
		if s[0].From.After(window.From) {
			out = append(out, synthetic(window.From, s[0].From.Add(-Resolution)))
		}

		for idx := 0; idx < len(s)-1; idx++ {
			out = append(out, s[idx])
			if s[idx].HasGapBefore(s[idx+1].Interval) {
				out = append(out, synthetic(s[idx].To.Add(Resolution), s[idx+1].From.Add(-Resolution)))
			}
		}

		last := s[len(s)-1]
		out = append(out, last)
		if last.To.Before(window.To) {
			out = append(out, synthetic(last.To.Add(Resolution), window.To))
		}
	}

	if err := out.checkCoverage(window); err != nil {
		return nil, err
	}
	return out, nil
}

func (s Series[V]) checkCoverage(window Interval) error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty result for %s", ErrCoverage, window)
	}
	if !s[0].From.Equal(window.From) || !s[len(s)-1].To.Equal(window.To) {
		return fmt.Errorf("%w: %s to %s for %s", ErrCoverage, s[0].Interval, s[len(s)-1].Interval, window)
	}
	for idx := 1; idx < len(s); idx++ {
		if !s[idx-1].IsImmediatelyBefore(s[idx].Interval) {
			return fmt.Errorf("%w: %s is not followed by %s", ErrCoverage, s[idx-1].Interval, s[idx].Interval)
		}
	}
	return nil
}

// Covering returns every record whose interval contains the whole segment.
func (s Series[V]) Covering(segment Interval) []Record[V] {
	var out []Record[V]
	for _, r := range s {
		if r.Covers(segment) {
			out = append(out, r)
		}
	}
	return out
}

// Intervals returns the intervals of all records in order.
func (s Series[V]) Intervals() []Interval {
	out := make([]Interval, len(s))
	for idx, r := range s {
		out[idx] = r.Interval
	}
	return out
}
