// Package timeofday does wall-clock arithmetic on HH:MM times that carry no date.
package timeofday

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Clock is a time of day as minutes past midnight.
type Clock int

// Parse accepts "HH:MM" or "HHMM".
func Parse(raw string) (Clock, error) {
	s := strings.TrimSpace(raw)
	var hh, mm string
	switch {
	case len(s) == 5 && s[2] == ':':
		hh, mm = s[:2], s[3:]
	case len(s) == 4:
		hh, mm = s[:2], s[2:]
	default:
		return 0, fmt.Errorf("invalid time %q, expected HH:MM or HHMM", raw)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return Clock(h*60 + m), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) Clock {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// String formats the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Elapsed returns the time from start to end on a common implicit date. An end
// before start is taken to be on the following day.
func Elapsed(start, end Clock) time.Duration {
	d := time.Duration(end-start) * time.Minute
	if d < 0 {
		d += day
	}
	return d
}

// ElapsedString is Elapsed over stored HH:MM values.
func ElapsedString(start, end string) (time.Duration, error) {
	s, err := Parse(start)
	if err != nil {
		return 0, err
	}
	e, err := Parse(end)
	if err != nil {
		return 0, err
	}
	return Elapsed(s, e), nil
}

// ParseDuration reads a recorded HH:MM sub-duration. Hours may exceed 23.
func ParseDuration(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || parts[0] == "" || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid duration %q, expected HH:MM", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid hours in %q", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", raw)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// FormatDuration renders d as HH:MM, truncating seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	mins := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
