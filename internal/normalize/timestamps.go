package normalize

import (
	"strings"
	"time"
)

// Timestamp formats found across the hospital and urgent-care extracts.
// Date-only values are treated as midnight.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
}

// ParseTimestamp parses a source timestamp string in any of the supported
// formats and normalizes it to civil UTC. Returns nil if the input is empty
// or unparseable; the caller decides whether an absent value is an anomaly.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			c := Civil(t)
			return &c
		}
	}
	return nil
}

// ParseDate parses a calendar date, accepting the same formats as
// ParseTimestamp but discarding any time-of-day component.
func ParseDate(s string) *time.Time {
	t := ParseTimestamp(s)
	if t == nil {
		return nil
	}
	d := DateOf(*t)
	return &d
}
