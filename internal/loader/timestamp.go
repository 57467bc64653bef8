package loader

import (
	"fmt"
	"regexp"
	"time"
)

const (
	TimestampLayout = "2006-01-02T15:04:05-07:00"

	compactOffsetLayout = "2006-01-02T15:04:05-0700"
	utcLayout           = "2006-01-02T15:04:05Z"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}([+-]\d{2}:\d{2}|[+-]\d{4}|Z)$`)

// ParseTimestamp reads a second precision timestamp carrying an explicit UTC offset, either as
// "2006-01-02T15:04:05+01:00", "2006-01-02T15:04:05+0100" or with a trailing "Z". The result is in UTC.
func ParseTimestamp(value string) (time.Time, error) {
	match := timestampPattern.FindStringSubmatch(value)
	if match == nil {
		return time.Time{}, fmt.Errorf("%q must match the pattern YYYY-MM-DDTHH:MM:SS+HH:MM", value)
	}

	layout := TimestampLayout
	switch {
	case match[1] == "Z":
		layout = utcLayout
	case len(match[1]) == 5:
		layout = compactOffsetLayout
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t.UTC(), nil
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// parseSpan parses both ends of a record. With minuteAligned set, from must sit on second 0 and to on
// second 59.
func parseSpan(from, to string, minuteAligned bool) (time.Time, time.Time, error) {
	if from == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from_datetime is required")
	}
	if to == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("to_datetime is required")
	}

	fromTime, err := ParseTimestamp(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from_datetime: %w", err)
	}
	toTime, err := ParseTimestamp(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to_datetime: %w", err)
	}

	if !fromTime.Before(toTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("from_datetime must be before to_datetime")
	}
	if minuteAligned {
		if fromTime.Second() != 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("from_datetime must be at the beginning of a minute")
		}
		if toTime.Second() != 59 {
			return time.Time{}, time.Time{}, fmt.Errorf("to_datetime must be at the end of a minute")
		}
	}
	return fromTime, toTime, nil
}
