// Package dateexpr turns the date tokens typed on the command line into
// half-open date intervals.
//
// Absolute tokens are yyyy, mm.yyyy, dd.mm.yyyy and "today". Relative start
// tokens dNNN, mNN and yNN count days, months or years back from the end day.
package dateexpr

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

// Today is the token naming the current day.
const Today = "today"

var relativePattern = regexp.MustCompile(`^([dmy])(\d+)$`)

// Resolver resolves date tokens relative to a clock.
type Resolver struct {
	Now func() time.Time
}

// NewResolver returns a Resolver on the system clock.
func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

// Today returns the current day at midnight.
func (r *Resolver) Today() time.Time {
	now := time.Now
	if r != nil && r.Now != nil {
		now = r.Now
	}
	return Midnight(now())
}

// Resolve turns a start/end token pair into [Start, End). An empty start
// token means today. A user error is returned for malformed tokens; callers
// must not touch the store in that case.
func (r *Resolver) Resolve(startToken, endToken string) (models.Interval, error) {
	startToken = strings.TrimSpace(startToken)
	endToken = strings.TrimSpace(endToken)
	today := r.Today()

	if startToken == "" {
		return models.Interval{Start: today, End: AddDays(today, 1)}, nil
	}

	if m := relativePattern.FindStringSubmatch(startToken); m != nil {
		return r.resolveRelative(m[1], m[2], endToken, today)
	}

	start, end, err := span(startToken, today)
	if err != nil {
		return models.Interval{}, appErrors.Validation(
			"start date %q must be 'today' or given as yyyy, mm.yyyy or dd.mm.yyyy", startToken)
	}
	if endToken != "" {
		_, end, err = span(endToken, today)
		if err != nil {
			return models.Interval{}, appErrors.Validation(
				"end date %q must be 'today' or given as yyyy, mm.yyyy or dd.mm.yyyy", endToken)
		}
	}
	return models.Interval{Start: start, End: end}, nil
}

func (r *Resolver) resolveRelative(unit, digits, endToken string, today time.Time) (models.Interval, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return models.Interval{}, appErrors.Validation("relative date count %q is too large", digits)
	}

	ref := today
	if endToken != "" && endToken != Today {
		ref, err = parseDay(endToken)
		if err != nil {
			return models.Interval{}, appErrors.Validation(
				"end date %q must be 'today' or given as dd.mm.yyyy when the start date is relative", endToken)
		}
	}

	var start time.Time
	switch unit {
	case "d":
		start = AddDays(ref, -n)
	case "m":
		start = AddMonths(ref, -n)
	case "y":
		start = AddYears(ref, -n)
	}
	return models.Interval{Start: start, End: AddDays(ref, 1)}, nil
}

// ParseDay reads a single-day argument: empty or "today" for the current
// day, otherwise dd.mm.yyyy.
func (r *Resolver) ParseDay(token string) (time.Time, error) {
	token = strings.TrimSpace(token)
	if token == "" || token == Today {
		return r.Today(), nil
	}
	day, err := parseDay(token)
	if err != nil {
		return time.Time{}, appErrors.Validation("date %q must be given as dd.mm.yyyy", token)
	}
	return day, nil
}

// span returns the interval covered by one absolute token.
func span(token string, today time.Time) (time.Time, time.Time, error) {
	if token == Today {
		return today, AddDays(today, 1), nil
	}
	parts := strings.Split(token, ".")
	switch len(parts) {
	case 1:
		y, err := number(parts[0], 4, 4)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, AddYears(start, 1), nil
	case 2:
		start, err := date(1, parts[0], parts[1])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, AddMonths(start, 1), nil
	case 3:
		start, err := parseDay(token)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, AddDays(start, 1), nil
	}
	return time.Time{}, time.Time{}, errPartCount
}

func parseDay(token string) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, errPartCount
	}
	d, err := number(parts[0], 1, 2)
	if err != nil {
		return time.Time{}, err
	}
	return date(d, parts[1], parts[2])
}

func date(day int, monthPart, yearPart string) (time.Time, error) {
	m, err := number(monthPart, 1, 2)
	if err != nil {
		return time.Time{}, err
	}
	y, err := number(yearPart, 4, 4)
	if err != nil {
		return time.Time{}, err
	}
	if m < 1 || m > 12 {
		return time.Time{}, errOutOfRange
	}
	t := time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Day() != day {
		return time.Time{}, errOutOfRange
	}
	return t, nil
}

func number(s string, minDigits, maxDigits int) (int, error) {
	if len(s) < minDigits || len(s) > maxDigits {
		return 0, errMalformed
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errMalformed
		}
	}
	return strconv.Atoi(s)
}
