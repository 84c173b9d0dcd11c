package adapters

import (
	"testing"
	"time"
)

func TestParseGameDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want string
	}{
		{"2026-03-15", "2026-03-15"},
		{"2026-03-15T19:30:00Z", "2026-03-15"},
		{"Mar 15, 2026", "2026-03-15"},
		{"March 15, 2026", "2026-03-15"},
		{"15.03.2026", "2026-03-15"},
		{"  2026-03-15  ", "2026-03-15"},
		// Yearless dates take the current year when upcoming.
		{"15/03", "2026-03-15"},
		{"Mar 15", "2026-03-15"},
		// More than 7 days past rolls into next year.
		{"Jan 5", "2027-01-05"},
		// Within the 7-day grace window stays in the current year.
		{"Mar 6", "2026-03-06"},
	}
	for _, tt := range tests {
		got, err := ParseGameDate(tt.raw, now)
		if err != nil {
			t.Errorf("ParseGameDate(%q) error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGameDate(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseGameDateRejectsGarbage(t *testing.T) {
	now := time.Now()
	for _, raw := range []string{"", "tomorrow", "12345", "soon"} {
		if got, err := ParseGameDate(raw, now); err == nil {
			t.Errorf("ParseGameDate(%q) = %q, want error", raw, got)
		}
	}
}

func TestParseGameTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"19:30", "19:30"},
		{"7:30 PM ET", "19:30"},
		{"7:30 AM", "07:30"},
		{"12:05 PM", "12:05"},
		{"12:30 AM", "00:30"},
		{"12:30 AM ET", "00:30"},
		{"", ""},
		{"TBD", ""},
	}
	for _, tt := range tests {
		if got := ParseGameTime(tt.raw); got != tt.want {
			t.Errorf("ParseGameTime(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
