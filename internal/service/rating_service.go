package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

type ratingRepository interface {
	List(ctx context.Context) ([]models.Rating, error)
	ListByType(ctx context.Context, ratingType models.RatingType) ([]models.Rating, error)
	Get(ctx context.Context, id int64) (*models.Rating, error)
	Create(ctx context.Context, rating *models.Rating) error
	UpdateExpiration(ctx context.Context, id int64, expiration time.Time) error
	Delete(ctx context.Context, id int64) error
}

// earliestExpiration bounds accepted expiration dates.
var earliestExpiration = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// CreateRatingRequest is the input of RatingService.Create.
type CreateRatingRequest struct {
	Title             string            `validate:"required,max=64"`
	Type              models.RatingType `validate:"required,oneof=CR OR O"`
	ExpirationDate    time.Time         `validate:"required"`
	WarningPeriod     string
	RenewalConditions string
}

// RatingService manages licences and ratings.
type RatingService struct {
	repo      ratingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRatingService constructs a RatingService.
func NewRatingService(repo ratingRepository, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{repo: repo, validator: validate, logger: logger}
}

// List returns all ratings.
func (s *RatingService) List(ctx context.Context) ([]models.Rating, error) {
	ratings, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to list ratings")
	}
	return ratings, nil
}

// Create stores a rating after checking its type, date and warning period.
func (s *RatingService) Create(ctx context.Context, req CreateRatingRequest) (*models.Rating, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode, "invalid rating")
	}
	if err := checkExpiration(req.ExpirationDate); err != nil {
		return nil, err
	}
	if !ValidWarningPeriod(req.WarningPeriod) {
		return nil, appErrors.Validation("invalid warning period %q, expected mN (months) or dN (days)", req.WarningPeriod)
	}

	rating := &models.Rating{
		Title:             req.Title,
		Type:              req.Type,
		ExpirationDate:    models.NewDate(req.ExpirationDate),
		WarningPeriod:     req.WarningPeriod,
		RenewalConditions: req.RenewalConditions,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to create rating")
	}
	s.logger.Info("rating created", zap.Int64("id", rating.ID), zap.String("title", rating.Title))
	return rating, nil
}

// SetExpiration moves the expiration date of a rating.
func (s *RatingService) SetExpiration(ctx context.Context, id int64, expiration time.Time) (*models.Rating, error) {
	if err := checkExpiration(expiration); err != nil {
		return nil, err
	}
	err := s.repo.UpdateExpiration(ctx, id, models.NewDate(expiration).Time)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ratingNotFound(id)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to update rating")
	}
	rating, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to reload rating")
	}
	return rating, nil
}

// Delete removes a rating.
func (s *RatingService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ratingNotFound(id)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to delete rating")
	}
	return nil
}

func checkExpiration(t time.Time) error {
	if t.Before(earliestExpiration) {
		return appErrors.Validation("expiration date %s is before 01.01.1900", t.Format(models.DisplayLayout))
	}
	return nil
}

func ratingNotFound(id int64) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("rating %d not found", id))
}
