package utils

import (
	"fmt"
	"time"
)

// Clock times travel as "HH:MM" strings on schedule overrides.
const clockLayout = "15:04"

func ValidClockTime(value string) bool {
	_, err := time.Parse(clockLayout, value)
	return err == nil
}

// ClockMinutes converts an "HH:MM" string to minutes since midnight.
func ClockMinutes(value string) (int, error) {
	parsed, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", value, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// ClockRangeValid reports whether start and end are well-formed and start
// comes strictly before end.
func ClockRangeValid(start, end string) bool {
	startMins, err := ClockMinutes(start)
	if err != nil {
		return false
	}
	endMins, err := ClockMinutes(end)
	if err != nil {
		return false
	}
	return startMins < endMins
}

// DateOnly strips the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
