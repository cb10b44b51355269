package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

// Column positions of the legacy logbook spreadsheet export.
const (
	colDate          = 0
	colRegistration  = 2
	colDeparture     = 3
	colOffBlock      = 4
	colStartTime     = 5
	colDestination   = 6
	colOnBlock       = 7
	colLandingTime   = 8
	colPIC           = 9
	colStudent       = 10
	colGuests        = 11
	colLandingsDay   = 12
	colLandingsNight = 13
	colPilotFunction = 16
	colNightTime     = 17
	colIFRTime       = 18
	colRemarks       = 19
	importColumns    = 20
)

// importDateLayout is dd.mm.yy.
const importDateLayout = "02.01.06"

// selfMarker in the PIC or student column stands for the default PIC.
const selfMarker = "*"

type flightPreparer interface {
	Prepare(ctx context.Context, req AddFlightRequest, defaults models.Defaults) (*models.Flight, error)
	AddBatch(ctx context.Context, flights []*models.Flight) error
}

// ImportService loads flights from CSV. Either every row is stored or none.
type ImportService struct {
	flights  flightPreparer
	defaults defaultsSource
	logger   *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(flights flightPreparer, defaults defaultsSource, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{flights: flights, defaults: defaults, logger: logger}
}

// Import parses every row of r and stores the flights in one transaction.
// All row errors are reported together and nothing is stored when any row
// fails.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (int, error) {
	defaults, err := s.defaults.Defaults(ctx)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var (
		flights []*models.Flight
		rowErrs error
		line    int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: %w", line, err))
			continue
		}
		if isBlank(record) {
			continue
		}
		req, err := importRequest(record, defaults)
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: %w", line, err))
			continue
		}
		flight, err := s.flights.Prepare(ctx, req, defaults)
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: %w", line, err))
			continue
		}
		flights = append(flights, flight)
	}

	if rowErrs != nil {
		errs := multierr.Errors(rowErrs)
		s.logger.Warn("import rejected", zap.Int("failed_rows", len(errs)), zap.Error(rowErrs))
		return 0, appErrors.Wrap(rowErrs, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode,
			fmt.Sprintf("import rejected, %d row(s) invalid", len(errs)))
	}
	if len(flights) == 0 {
		return 0, nil
	}
	if err := s.flights.AddBatch(ctx, flights); err != nil {
		return 0, err
	}
	s.logger.Info("flights imported", zap.Int("count", len(flights)))
	return len(flights), nil
}

func importRequest(record []string, defaults models.Defaults) (AddFlightRequest, error) {
	if len(record) < importColumns {
		return AddFlightRequest{}, fmt.Errorf("expected %d columns, got %d", importColumns, len(record))
	}
	field := func(i int) string { return strings.TrimSpace(record[i]) }

	date, err := time.ParseInLocation(importDateLayout, field(colDate), time.UTC)
	if err != nil {
		return AddFlightRequest{}, fmt.Errorf("invalid date %q, expected dd.mm.yy", field(colDate))
	}
	landingsDay, err := optionalCount(field(colLandingsDay))
	if err != nil {
		return AddFlightRequest{}, fmt.Errorf("invalid day landings: %w", err)
	}
	landingsNight, err := optionalCount(field(colLandingsNight))
	if err != nil {
		return AddFlightRequest{}, fmt.Errorf("invalid night landings: %w", err)
	}

	return AddFlightRequest{
		Date:          date,
		OffBlock:      field(colOffBlock),
		StartTime:     field(colStartTime),
		LandingTime:   field(colLandingTime),
		OnBlock:       field(colOnBlock),
		Registration:  field(colRegistration),
		Departure:     field(colDeparture),
		Destination:   field(colDestination),
		LandingsDay:   landingsDay,
		LandingsNight: landingsNight,
		PIC:           self(field(colPIC), defaults.PIC),
		PilotFunction: field(colPilotFunction),
		Student:       self(field(colStudent), defaults.PIC),
		Guests:        field(colGuests),
		Remarks:       field(colRemarks),
		NightTime:     field(colNightTime),
		IFRTime:       field(colIFRTime),
		Recorded:      true,
	}, nil
}

func optionalCount(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%q is not a landing count", raw)
	}
	return &n, nil
}

func self(value, pic string) string {
	if value == selfMarker {
		return pic
	}
	return value
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
