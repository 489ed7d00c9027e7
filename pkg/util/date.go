package util

import (
	"strconv"
	"strings"
	"time"
)

var brDateLayouts = []string{
	"02/01/2006 15:04",
	"02/01/06 15:04",
	"02/01/2006",
	"02/01/06",
	"2006-01-02",
}

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseBRDate parses dates as printed by Brazilian sites ("15/10/2024", "15/10/24 00:00"),
// falling back to ParseTime.
func ParseBRDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range brDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return ParseTime(s)
}

// TruncateDay drops the clock part, keeping the location.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
