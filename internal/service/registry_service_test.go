package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

type settingsRepoStub struct {
	items map[string]string
}

func (s *settingsRepoStub) List(ctx context.Context) ([]models.Setting, error) {
	out := make([]models.Setting, 0, len(s.items))
	for _, key := range models.DefaultSettingKeys {
		if v, ok := s.items[key]; ok {
			out = append(out, models.Setting{Key: key, Value: v})
		}
	}
	return out, nil
}

func (s *settingsRepoStub) ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error) {
	var out []models.Setting
	for _, key := range keys {
		if v, ok := s.items[key]; ok {
			out = append(out, models.Setting{Key: key, Value: v})
		}
	}
	return out, nil
}

func (s *settingsRepoStub) Get(ctx context.Context, key string) (*models.Setting, error) {
	if v, ok := s.items[key]; ok {
		return &models.Setting{Key: key, Value: v}, nil
	}
	return nil, sql.ErrNoRows
}

func (s *settingsRepoStub) Upsert(ctx context.Context, setting *models.Setting) error {
	s.items[setting.Key] = setting.Value
	return nil
}

func (s *settingsRepoStub) EnsureDefaults(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if _, ok := s.items[key]; !ok {
			s.items[key] = ""
		}
	}
	return nil
}

func TestSettingsService(t *testing.T) {
	repo := &settingsRepoStub{items: map[string]string{models.SettingDefaultPIC: "Self"}}
	svc := NewSettingsService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaults(ctx))
	settings, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 3)
	assert.Equal(t, "Self", settings[0].Value)

	require.NoError(t, svc.Set(ctx, models.SettingDefaultAirport, "EDFE"))
	err = svc.Set(ctx, "favourite_colour", "blue")
	assert.True(t, appErrors.IsValidation(err))

	defaults, err := svc.Defaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Defaults{PIC: "Self", Airport: "EDFE"}, defaults)

	value, err := svc.Get(ctx, "unset")
	require.NoError(t, err)
	assert.Empty(t, value)
	assert.NotEmpty(t, Describe(models.SettingDefaultRegistration))
}

func TestAircraftService(t *testing.T) {
	svc := NewAircraftService(&aircraftRepoStub{}, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAircraftRequest{Registration: " DEABC ", Type: "PA28", Class: "SEP"})
	require.NoError(t, err)
	assert.Equal(t, "DEABC", created.Registration)

	_, err = svc.Create(ctx, CreateAircraftRequest{Registration: "DEABC", Type: "PA28", Class: "SEP"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.Create(ctx, CreateAircraftRequest{Registration: "DEXYZ"})
	assert.True(t, appErrors.IsValidation(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(ctx, "DNONE")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "DEABC"))
	assert.ErrorIs(t, svc.Delete(ctx, "DEABC"), appErrors.ErrNotFound)
}

func TestRatingService(t *testing.T) {
	repo := &ratingRepoStub{}
	svc := NewRatingService(repo, nil, nil)
	ctx := context.Background()

	rating, err := svc.Create(ctx, CreateRatingRequest{
		Title: "SEP", Type: models.RatingTypeClass, ExpirationDate: day(2025, 1, 31), WarningPeriod: "m3",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rating.ID)
	assert.Equal(t, "2025-01-31", rating.ExpirationDate.String())

	invalid := []CreateRatingRequest{
		{Title: "SEP", Type: "XX", ExpirationDate: day(2025, 1, 31)},
		{Title: "SEP", Type: models.RatingTypeClass, ExpirationDate: day(2025, 1, 31), WarningPeriod: "3 months"},
		{Title: "SEP", Type: models.RatingTypeClass, ExpirationDate: day(1899, 12, 31)},
		{Type: models.RatingTypeOther, ExpirationDate: day(2025, 1, 31)},
	}
	for _, req := range invalid {
		_, err := svc.Create(ctx, req)
		assert.True(t, appErrors.IsValidation(err), req)
	}

	updated, err := svc.SetExpiration(ctx, rating.ID, day(2027, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, "2027-01-31", updated.ExpirationDate.String())

	_, err = svc.SetExpiration(ctx, 99, day(2027, 1, 31))
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, rating.ID))
	assert.ErrorIs(t, svc.Delete(ctx, rating.ID), appErrors.ErrNotFound)
}
