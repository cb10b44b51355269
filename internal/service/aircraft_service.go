package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

type aircraftRepository interface {
	Get(ctx context.Context, registration string) (*models.Aircraft, error)
	List(ctx context.Context) ([]models.Aircraft, error)
	Create(ctx context.Context, aircraft *models.Aircraft) error
	Delete(ctx context.Context, registration string) error
}

// CreateAircraftRequest is the input of AircraftService.Create.
type CreateAircraftRequest struct {
	Registration string `validate:"required,max=16"`
	Type         string `validate:"required,max=32"`
	Class        string `validate:"required,max=16"`
}

// AircraftService manages the aircraft register.
type AircraftService struct {
	repo      aircraftRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAircraftService constructs an AircraftService.
func NewAircraftService(repo aircraftRepository, validate *validator.Validate, logger *zap.Logger) *AircraftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AircraftService{repo: repo, validator: validate, logger: logger}
}

// List returns all aircraft ordered by registration.
func (s *AircraftService) List(ctx context.Context) ([]models.Aircraft, error) {
	aircraft, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to list aircraft")
	}
	return aircraft, nil
}

// Get looks up one aircraft.
func (s *AircraftService) Get(ctx context.Context, registration string) (*models.Aircraft, error) {
	aircraft, err := s.repo.Get(ctx, registration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound,
			fmt.Sprintf("aircraft %s not found, add it with 'aircraft add' first", registration))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load aircraft")
	}
	return aircraft, nil
}

// Create registers an aircraft.
func (s *AircraftService) Create(ctx context.Context, req CreateAircraftRequest) (*models.Aircraft, error) {
	req.Registration = strings.TrimSpace(req.Registration)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode, "invalid aircraft")
	}
	if _, err := s.repo.Get(ctx, req.Registration); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("aircraft %s already exists", req.Registration))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to check aircraft")
	}
	aircraft := &models.Aircraft{Registration: req.Registration, Type: req.Type, Class: req.Class}
	if err := s.repo.Create(ctx, aircraft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to create aircraft")
	}
	s.logger.Info("aircraft created", zap.String("registration", aircraft.Registration))
	return aircraft, nil
}

// Delete removes an aircraft from the register.
func (s *AircraftService) Delete(ctx context.Context, registration string) error {
	err := s.repo.Delete(ctx, registration)
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("aircraft %s not found", registration))
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to delete aircraft")
	}
	return nil
}
