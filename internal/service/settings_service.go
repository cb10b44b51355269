package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

type settingsRepository interface {
	List(ctx context.Context) ([]models.Setting, error)
	ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
	EnsureDefaults(ctx context.Context, keys []string) error
}

var settingDescriptions = map[string]string{
	models.SettingDefaultPIC:          "PIC name used when a flight names none",
	models.SettingDefaultRegistration: "aircraft used when a flight names none",
	models.SettingDefaultAirport:      "departure and destination used when a flight names none",
}

// SettingsService manages entry defaults.
type SettingsService struct {
	repo   settingsRepository
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// Describe returns the help text of a known key.
func Describe(key string) string {
	return settingDescriptions[key]
}

// EnsureDefaults seeds the known keys into a fresh logbook.
func (s *SettingsService) EnsureDefaults(ctx context.Context) error {
	if err := s.repo.EnsureDefaults(ctx, models.DefaultSettingKeys); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to seed settings")
	}
	return nil
}

// List returns every stored setting.
func (s *SettingsService) List(ctx context.Context) ([]models.Setting, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to list settings")
	}
	return settings, nil
}

// Get returns the value of key, or an empty string when it is unset.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load setting")
	}
	return setting.Value, nil
}

// Set stores value under one of the known keys.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if _, ok := settingDescriptions[key]; !ok {
		return appErrors.Validation("unknown setting %q", key)
	}
	if err := s.repo.Upsert(ctx, &models.Setting{Key: key, Value: value}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, fmt.Sprintf("failed to store setting %s", key))
	}
	s.logger.Info("setting updated", zap.String("key", key))
	return nil
}

// Defaults resolves the values used for omitted flight fields.
func (s *SettingsService) Defaults(ctx context.Context) (models.Defaults, error) {
	settings, err := s.repo.ListByKeys(ctx, models.DefaultSettingKeys)
	if err != nil {
		return models.Defaults{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load defaults")
	}
	var d models.Defaults
	for _, setting := range settings {
		switch setting.Key {
		case models.SettingDefaultPIC:
			d.PIC = setting.Value
		case models.SettingDefaultRegistration:
			d.Registration = setting.Value
		case models.SettingDefaultAirport:
			d.Airport = setting.Value
		}
	}
	return d, nil
}
