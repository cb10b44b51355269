package models

import "time"

// Interval is the half-open date range [Start, End), both at midnight.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day lies inside the interval.
func (i Interval) Contains(day time.Time) bool {
	return !day.Before(i.Start) && day.Before(i.End)
}

// Totals is the cumulative result of aggregating flights.
type Totals struct {
	Flights       int
	Block         time.Duration
	Flight        time.Duration
	Night         time.Duration
	IFR           time.Duration
	LandingsDay   int
	LandingsNight int
}

// Landings returns day plus night landings.
func (t Totals) Landings() int {
	return t.LandingsDay + t.LandingsNight
}
