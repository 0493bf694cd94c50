package models

import (
	"fmt"
	"strings"
	"time"
)

// SlotLabels are the fixed daily booking slots, in display order.
var SlotLabels = []string{
	"09:00 AM",
	"10:00 AM",
	"11:00 AM",
	"12:00 PM",
	"01:00 PM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
}

// IsSlotLabel reports whether label is one of SlotLabels.
func IsSlotLabel(label string) bool {
	for _, l := range SlotLabels {
		if l == label {
			return true
		}
	}
	return false
}

const calendarDateLayout = "2006-01-02"

// ParseCalendarDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp and returns
// midnight UTC of that calendar day. Time of day is discarded.
func ParseCalendarDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if t, err := time.Parse(calendarDateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return MidnightUTC(t), nil
}

// MidnightUTC truncates t to the start of its calendar day in UTC.
func MidnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatCalendarDate renders a stored booking date as "YYYY-MM-DD".
func FormatCalendarDate(t time.Time) string {
	return t.UTC().Format(calendarDateLayout)
}
