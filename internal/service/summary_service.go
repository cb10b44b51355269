package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/dateexpr"
	"github.com/noah-isme/flightlog/internal/models"
	"github.com/noah-isme/flightlog/internal/timeofday"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

type flightFinder interface {
	Find(ctx context.Context, interval models.Interval, filter models.FlightFilter) ([]models.Flight, error)
}

// Aggregate folds flights into cumulative times and landing counts. The fold
// is order independent and never mutates its input. A stored time that does
// not parse fails the whole call and names the offending flight.
func Aggregate(flights []models.Flight) (models.Totals, error) {
	var totals models.Totals
	for i := range flights {
		f := &flights[i]

		block, err := timeofday.ElapsedString(f.OffBlock, f.OnBlock)
		if err != nil {
			return models.Totals{}, corruptFlight(f, "block times", err)
		}
		airborne, err := timeofday.ElapsedString(f.StartTime, f.LandingTime)
		if err != nil {
			return models.Totals{}, corruptFlight(f, "takeoff/landing times", err)
		}
		night, err := optionalDuration(f.FlightTimeNight)
		if err != nil {
			return models.Totals{}, corruptFlight(f, "night time", err)
		}
		ifr, err := optionalDuration(f.FlightTimeIFR)
		if err != nil {
			return models.Totals{}, corruptFlight(f, "IFR time", err)
		}

		totals.Flights++
		totals.Block += block
		totals.Flight += airborne
		totals.Night += night
		totals.IFR += ifr
		totals.LandingsDay += models.IntValue(f.LandingsDay)
		totals.LandingsNight += models.IntValue(f.LandingsNight)
	}
	return totals, nil
}

func optionalDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return timeofday.ParseDuration(raw)
}

func corruptFlight(f *models.Flight, field string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrCorruptRecord.Code, appErrors.ErrCorruptRecord.ExitCode,
		fmt.Sprintf("flight %d on %s has malformed %s", f.ID, f.FlightDate.Display(), field))
}

// SummaryService computes totals over reporting windows.
type SummaryService struct {
	flights flightFinder
	logger  *zap.Logger
}

// NewSummaryService constructs a SummaryService.
func NewSummaryService(flights flightFinder, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{flights: flights, logger: logger}
}

// ComputeWindowTotals aggregates the flights of one interval and filter.
func (s *SummaryService) ComputeWindowTotals(ctx context.Context, interval models.Interval, filter models.FlightFilter) (models.Totals, error) {
	flights, err := s.flights.Find(ctx, interval, filter)
	if err != nil {
		return models.Totals{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load flights")
	}
	totals, err := Aggregate(flights)
	if err != nil {
		s.logger.Error("aggregate flights", zap.Time("from", interval.Start), zap.Time("to", interval.End), zap.Error(err))
		return models.Totals{}, err
	}
	return totals, nil
}

type statWindow struct {
	label string
	start func(today time.Time) time.Time
}

// StatWindows are the look-back periods of the statistics table.
var statWindows = []statWindow{
	{"90 days", func(today time.Time) time.Time { return dateexpr.AddDays(today, -90) }},
	{"6 months", func(today time.Time) time.Time { return dateexpr.AddMonths(today, -6) }},
	{"", func(today time.Time) time.Time { return now.With(today).BeginningOfYear() }},
	{"1 year", func(today time.Time) time.Time { return dateexpr.AddYears(today, -1) }},
}

type statLine struct {
	label  string
	filter models.FlightFilter
	long   bool
}

var statLines = []statLine{
	{"PIC (without FI)", models.FlightFilter{PilotFunction: models.PilotFunctionPIC}, false},
	{"FI", models.FlightFilter{PilotFunction: models.PilotFunctionFI}, false},
	{"PIC (incl. FI)", models.FlightFilter{PilotFunctions: []string{models.PilotFunctionPIC, models.PilotFunctionFI}}, false},
	{"Dual", models.FlightFilter{PilotFunction: models.PilotFunctionDual}, true},
	{"All", models.FlightFilter{}, true},
}

// Statistics returns per pilot function totals for the standard look-back
// windows ending with today. Dual and All rows are included when long is set.
func (s *SummaryService) Statistics(ctx context.Context, today time.Time, long bool) (*models.Statistics, error) {
	today = dateexpr.Midnight(today)
	end := dateexpr.AddDays(today, 1)

	stats := &models.Statistics{}
	for _, w := range statWindows {
		label := w.label
		if label == "" {
			label = today.Format("2006")
		}
		stats.Windows = append(stats.Windows, label)
	}

	for _, line := range statLines {
		if line.long && !long {
			continue
		}
		row := models.StatRow{Label: line.label}
		for _, w := range statWindows {
			totals, err := s.ComputeWindowTotals(ctx, models.Interval{Start: w.start(today), End: end}, line.filter)
			if err != nil {
				return nil, err
			}
			row.Windows = append(row.Windows, totals)
		}
		stats.Rows = append(stats.Rows, row)
	}
	return stats, nil
}
