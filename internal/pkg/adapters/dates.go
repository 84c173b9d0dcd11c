package adapters

import (
	"fmt"
	"strings"
	"time"
)

// Date formats seen across tipster sites. Parsing is centralized here so
// every adapter produces the same ISO date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Jan 2 2006",
	"02.01.2006",
}

// Day-month layouts that omit the year and need inference.
var yearlessLayouts = []string{
	"02/01", // 16/02 — European day-first
	"Jan 2",
	"January 2",
}

// ParseGameDate normalizes a raw date string to YYYY-MM-DD. For yearless
// formats the year is inferred relative to now: dates more than 7 days in the
// past roll into the next year (sites list upcoming fixtures, not history).
func ParseGameDate(raw string, now time.Time) (string, error) {
	raw = CleanText(raw)
	if raw == "" {
		return "", fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}

	for _, layout := range yearlessLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		candidate := time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if candidate.Before(now.AddDate(0, 0, -7)) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate.Format("2006-01-02"), nil
	}

	return "", fmt.Errorf("unrecognized date format %q", raw)
}

// ParseGameTime extracts HH:MM from strings like "19:30", "7:30 PM ET".
func ParseGameTime(raw string) string {
	raw = CleanText(raw)
	if raw == "" {
		return ""
	}
	fields := strings.Fields(raw)
	clock := fields[0]

	for _, layout := range []string{"15:04", "3:04"} {
		if t, err := time.Parse(layout, clock); err == nil {
			if len(fields) > 1 {
				if strings.EqualFold(fields[1], "PM") && t.Hour() < 12 {
					t = t.Add(12 * time.Hour)
				}
				if strings.EqualFold(fields[1], "AM") && t.Hour() == 12 {
					t = t.Add(-12 * time.Hour)
				}
			}
			return t.Format("15:04")
		}
	}
	return ""
}
