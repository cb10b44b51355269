package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/models"
	"github.com/noah-isme/flightlog/internal/timeofday"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

type flightRepository interface {
	Find(ctx context.Context, interval models.Interval, filter models.FlightFilter) ([]models.Flight, error)
	FindByDate(ctx context.Context, day time.Time) ([]models.Flight, error)
	Last(ctx context.Context, n int) ([]models.Flight, error)
	Create(ctx context.Context, flight *models.Flight) error
	CreateBatch(ctx context.Context, flights []*models.Flight) error
	Delete(ctx context.Context, id int64) error
}

type aircraftLookup interface {
	Get(ctx context.Context, registration string) (*models.Aircraft, error)
}

type defaultsSource interface {
	Defaults(ctx context.Context) (models.Defaults, error)
}

// AddFlightRequest carries one flight as entered. Empty optional fields are
// filled from the stored defaults.
type AddFlightRequest struct {
	Date          time.Time `validate:"required"`
	OffBlock      string    `validate:"required"`
	StartTime     string    `validate:"required"`
	LandingTime   string    `validate:"required"`
	OnBlock       string    `validate:"required"`
	Registration  string
	Departure     string `validate:"omitempty,max=8"`
	Destination   string `validate:"omitempty,max=8"`
	LandingsDay   *int   `validate:"omitempty,min=0"`
	LandingsNight *int   `validate:"omitempty,min=0"`
	PIC           string
	PilotFunction string `validate:"omitempty,oneof=PIC Dual FI"`
	// Instruction names the student of a flight instruction. It implies
	// pilot function FI and excludes PIC and PilotFunction.
	Instruction string
	Student     string
	Guests      string
	Remarks     string
	NightTime   string
	IFRTime     string
	// Night logs the whole block time as night time and counts all landings
	// as night landings.
	Night bool
	// IFR logs the whole block time as IFR time.
	IFR bool
	// Recorded marks a flight taken over from an existing logbook. Its
	// landing counts and crew are stored as given: no default landing and
	// no pilot function check for another PIC.
	Recorded bool
}

// FlightService records and retrieves flights.
type FlightService struct {
	repo      flightRepository
	aircraft  aircraftLookup
	defaults  defaultsSource
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFlightService constructs a FlightService.
func NewFlightService(repo flightRepository, aircraft aircraftLookup, defaults defaultsSource, validate *validator.Validate, logger *zap.Logger) *FlightService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlightService{
		repo:      repo,
		aircraft:  aircraft,
		defaults:  defaults,
		validator: validate,
		logger:    logger,
	}
}

// Add validates req, completes it from the defaults and stores it.
func (s *FlightService) Add(ctx context.Context, req AddFlightRequest) (*models.Flight, error) {
	defaults, err := s.defaults.Defaults(ctx)
	if err != nil {
		return nil, err
	}
	flight, err := s.Prepare(ctx, req, defaults)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to store flight")
	}
	s.logger.Info("flight added",
		zap.Int64("id", flight.ID),
		zap.String("date", flight.FlightDate.String()),
		zap.String("registration", flight.Registration),
	)
	return flight, nil
}

// AddBatch stores prepared flights in one transaction.
func (s *FlightService) AddBatch(ctx context.Context, flights []*models.Flight) error {
	if err := s.repo.CreateBatch(ctx, flights); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to store flights")
	}
	return nil
}

// Prepare turns req into a flight without storing it.
func (s *FlightService) Prepare(ctx context.Context, req AddFlightRequest, defaults models.Defaults) (*models.Flight, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode, "invalid flight")
	}

	clocks := []struct {
		name  string
		field *string
	}{
		{"off-block time", &req.OffBlock},
		{"takeoff time", &req.StartTime},
		{"landing time", &req.LandingTime},
		{"on-block time", &req.OnBlock},
		{"night time", &req.NightTime},
		{"IFR time", &req.IFRTime},
	}
	for _, c := range clocks {
		if *c.field == "" {
			continue
		}
		parsed, err := timeofday.Parse(*c.field)
		if err != nil {
			return nil, appErrors.Validation("invalid %s %q, expected HH:MM or HHMM", c.name, *c.field)
		}
		*c.field = parsed.String()
	}
	off := timeofday.MustParse(req.OffBlock)
	on := timeofday.MustParse(req.OnBlock)

	pilotFunction := req.PilotFunction
	pic := req.PIC
	student := req.Student
	if req.Instruction != "" {
		if req.PilotFunction != "" || req.PIC != "" {
			return nil, appErrors.Validation("flight instruction cannot be combined with a pilot function or another PIC")
		}
		pilotFunction = models.PilotFunctionFI
		student = req.Instruction
	}
	if !req.Recorded && pic != "" && pic != defaults.PIC && pilotFunction == "" {
		return nil, appErrors.Validation("PIC %s is not the default PIC, set the pilot function explicitly", pic)
	}
	if pic == "" {
		pic = defaults.PIC
	}
	if pilotFunction == "" && !req.Recorded {
		pilotFunction = models.PilotFunctionPIC
	}

	registration := strings.TrimSpace(req.Registration)
	if registration == "" {
		registration = defaults.Registration
	}
	if registration == "" {
		return nil, appErrors.Validation("no registration given and no default registration set")
	}
	aircraft, err := s.aircraft.Get(ctx, registration)
	if err != nil {
		return nil, aircraftLookupError(registration, err)
	}

	departure := orDefault(req.Departure, defaults.Airport)
	destination := orDefault(req.Destination, defaults.Airport)

	landingsDay := req.LandingsDay
	if landingsDay == nil && req.LandingsNight == nil && !req.Recorded {
		landingsDay = models.IntPtr(1)
	}
	landingsNight := req.LandingsNight

	nightTime := req.NightTime
	ifrTime := req.IFRTime
	block := timeofday.FormatDuration(timeofday.Elapsed(off, on))
	if req.Night {
		if landingsDay != nil {
			landingsNight = models.IntPtr(models.IntValue(landingsNight) + *landingsDay)
			landingsDay = nil
		}
		nightTime = block
	}
	if req.IFR {
		ifrTime = block
	}

	return &models.Flight{
		FlightDate:      models.NewDate(req.Date),
		Type:            aircraft.Type,
		Registration:    aircraft.Registration,
		DepartureID:     departure,
		DestinationID:   destination,
		OffBlock:        req.OffBlock,
		OnBlock:         req.OnBlock,
		StartTime:       req.StartTime,
		LandingTime:     req.LandingTime,
		LandingsDay:     landingsDay,
		LandingsNight:   landingsNight,
		PICName:         pic,
		PilotFunction:   pilotFunction,
		FlightTimeNight: nightTime,
		FlightTimeIFR:   ifrTime,
		FlightTimeClass: aircraft.Class,
		StudentName:     student,
		Guests:          req.Guests,
		Remarks:         req.Remarks,
	}, nil
}

// List returns the flights of interval matching filter, oldest first.
func (s *FlightService) List(ctx context.Context, interval models.Interval, filter models.FlightFilter) ([]models.Flight, error) {
	flights, err := s.repo.Find(ctx, interval, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to list flights")
	}
	return flights, nil
}

// ListDay returns the flights of one calendar day.
func (s *FlightService) ListDay(ctx context.Context, day time.Time) ([]models.Flight, error) {
	flights, err := s.repo.FindByDate(ctx, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load flights")
	}
	return flights, nil
}

// Last returns the n most recent flights, oldest first.
func (s *FlightService) Last(ctx context.Context, n int) ([]models.Flight, error) {
	if n <= 0 {
		return nil, appErrors.Validation("number of flights must be positive, got %d", n)
	}
	flights, err := s.repo.Last(ctx, n)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load flights")
	}
	return flights, nil
}

// Delete removes a flight by id.
func (s *FlightService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("flight %d not found", id))
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to delete flight")
	}
	s.logger.Info("flight deleted", zap.Int64("id", id))
	return nil
}

func aircraftLookupError(registration string, err error) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound,
			fmt.Sprintf("aircraft %s not found, check the registration or add the aircraft first", registration))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load aircraft")
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
