package shared

import (
	"strings"
	"time"
)

// Records keep calendar dates and meeting times as plain strings.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate reads a calendar day. Full timestamps are accepted and cut to
// their date. An empty value yields the zero time without error.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if day, err := time.Parse(DateLayout, value); err == nil {
		return day, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}
