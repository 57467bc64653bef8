package timeseries

import (
	"sort"
	"time"
)

// Breakpoints collects the instants at which any of the given interval lists changes value: the start of
// every interval and the second following its end. The window contributes its own bounds. Instants outside
// the window are ignored; the result is sorted and free of duplicates.
func Breakpoints(window Interval, lists ...[]Interval) []time.Time {
	end := window.To.Add(Resolution)
	seen := map[int64]struct{}{}
	var out []time.Time

	add := func(t time.Time) {
		if t.Before(window.From) || t.After(end) {
			return
		}
		if _, ok := seen[t.Unix()]; ok {
			return
		}
		seen[t.Unix()] = struct{}{}
		out = append(out, t)
	}

	add(window.From)
	add(end)
	for _, list := range lists {
		for _, interval := range list {
			add(interval.From)
			add(interval.To.Add(Resolution))
		}
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Before(out[b]) })
	return out
}

// Segments partitions the window at the breakpoints of the given interval lists. Consecutive segments are
// immediately adjacent and their union is exactly the window.
func Segments(window Interval, lists ...[]Interval) []Interval {
	points := Breakpoints(window, lists...)
	out := make([]Interval, 0, len(points))
	for idx := 0; idx < len(points)-1; idx++ {
		out = append(out, Interval{From: points[idx], To: points[idx+1].Add(-Resolution)})
	}
	return out
}
