package normalize

import "time"

// Civil fixes the wall-clock reading of t and reinterprets it as UTC.
// This is not a zoned conversion: the year/month/day/hour/minute/second
// components are preserved verbatim and the zone is replaced. Linking
// decisions downstream are civil-time arithmetic, so two timestamps recorded
// by independent hospital systems compare by what the clock on the wall said,
// not by elapsed instants. Sub-second precision is dropped.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// CivilPtr is Civil with absent-propagation: nil in, nil out.
func CivilPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := Civil(*t)
	return &c
}

// DateOf truncates a civil timestamp to midnight of its calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two civil timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
