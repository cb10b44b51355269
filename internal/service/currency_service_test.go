package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

func TestEvaluateFixedExpiry(t *testing.T) {
	exp := day(2024, 6, 30)
	cases := []struct {
		name   string
		d      time.Time
		period string
		want   models.Status
	}{
		{"before warning", day(2024, 5, 29), "m1", models.StatusValid},
		{"first warning day", day(2024, 5, 30), "m1", models.StatusWarning},
		{"inside warning", day(2024, 5, 31), "m1", models.StatusWarning},
		{"expiration day", day(2024, 6, 30), "m1", models.StatusWarning},
		{"after expiration", day(2024, 7, 1), "m1", models.StatusExpired},
		{"day period", day(2024, 6, 19), "d10", models.StatusValid},
		{"day period warning", day(2024, 6, 20), "d10", models.StatusWarning},
		{"no period", day(2024, 6, 29), "", models.StatusValid},
		{"no period expiration day", day(2024, 6, 30), "", models.StatusWarning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateFixedExpiry(tc.d, exp, tc.period)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateFixedExpiryMonthClamp(t *testing.T) {
	start, err := WarningStart(day(2024, 3, 31), "m1")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 2, 29), start)
}

func TestEvaluateFixedExpiryInvalidPeriod(t *testing.T) {
	for _, period := range []string{"1m", "w2", "m", "m-1", " m1"} {
		_, err := EvaluateFixedExpiry(day(2024, 1, 1), day(2024, 6, 30), period)
		assert.Error(t, err, period)
		assert.False(t, ValidWarningPeriod(period), period)
	}
	assert.True(t, ValidWarningPeriod(""))
	assert.True(t, ValidWarningPeriod("m12"))
}

func TestRollingBoundaryWalksBackward(t *testing.T) {
	days := []models.DailyLandings{{FlightDate: models.NewDate(day(2024, 1, 1)), Landings: 3}}

	boundary, ok := RollingBoundary(days, day(2024, 6, 1), 90, 3)
	require.True(t, ok)
	assert.Equal(t, day(2024, 3, 31), boundary)
}

func TestRollingBoundaryWalksForward(t *testing.T) {
	days := []models.DailyLandings{{FlightDate: models.NewDate(day(2024, 1, 1)), Landings: 3}}

	boundary, ok := RollingBoundary(days, day(2024, 1, 2), 90, 3)
	require.True(t, ok)
	assert.Equal(t, day(2024, 3, 31), boundary)
}

func TestRollingBoundaryUsesMinCountthMostRecentLanding(t *testing.T) {
	days := []models.DailyLandings{
		{FlightDate: models.NewDate(day(2024, 1, 1)), Landings: 1},
		{FlightDate: models.NewDate(day(2024, 1, 20)), Landings: 1},
		{FlightDate: models.NewDate(day(2024, 2, 10)), Landings: 2},
	}
	boundary, ok := RollingBoundary(days, day(2024, 2, 11), 90, 3)
	require.True(t, ok)
	assert.Equal(t, day(2024, 4, 19), boundary)

	boundary, ok = RollingBoundary(days, day(2024, 2, 11), 90, 2)
	require.True(t, ok)
	assert.Equal(t, day(2024, 5, 10), boundary)
}

func TestRollingBoundaryNeverSatisfied(t *testing.T) {
	_, ok := RollingBoundary(nil, day(2024, 6, 1), 90, 3)
	assert.False(t, ok)

	days := []models.DailyLandings{
		{FlightDate: models.NewDate(day(2023, 1, 1)), Landings: 1},
		{FlightDate: models.NewDate(day(2024, 1, 1)), Landings: 1},
	}
	_, ok = RollingBoundary(days, day(2024, 6, 1), 90, 3)
	assert.False(t, ok)
}

func TestRollingStatus(t *testing.T) {
	boundary := day(2024, 3, 31)
	assert.Equal(t, models.StatusValid, RollingStatus(day(2024, 3, 1), boundary, true, 10))
	assert.Equal(t, models.StatusValid, RollingStatus(boundary, boundary, true, 10))
	assert.Equal(t, models.StatusWarning, RollingStatus(day(2024, 4, 5), boundary, true, 10))
	assert.Equal(t, models.StatusWarning, RollingStatus(day(2024, 4, 10), boundary, true, 10))
	assert.Equal(t, models.StatusExpired, RollingStatus(day(2024, 4, 15), boundary, true, 10))
	assert.Equal(t, models.StatusExpired, RollingStatus(day(2024, 3, 1), time.Time{}, false, 10))
}

func TestCurrencyServiceEvaluateRollingLandings(t *testing.T) {
	history := &flightRepoStub{flights: []models.Flight{
		{FlightDate: models.NewDate(day(2024, 1, 1)), FlightTimeClass: "SEP", LandingsDay: models.IntPtr(2), LandingsNight: models.IntPtr(1)},
		{FlightDate: models.NewDate(day(2024, 2, 1)), FlightTimeClass: "TMG", LandingsDay: models.IntPtr(5)},
	}}
	svc := NewCurrencyService(history, &ratingRepoStub{}, CurrencyConfig{GraceDays: 10}, nil).
		WithClock(func() time.Time { return time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC) })

	cases := []struct {
		d    time.Time
		want models.Status
	}{
		{day(2024, 3, 31), models.StatusValid},
		{day(2024, 4, 5), models.StatusWarning},
		{day(2024, 4, 15), models.StatusExpired},
	}
	for _, tc := range cases {
		status, boundary, err := svc.EvaluateRollingLandings(context.Background(), tc.d, "SEP", RollingRule{})
		require.NoError(t, err)
		assert.Equal(t, day(2024, 3, 31), boundary)
		assert.Equal(t, tc.want, status, tc.d.String())
	}

	status, _, err := svc.EvaluateRollingLandings(context.Background(), day(2024, 3, 31), "SEP", RollingRule{MinCount: 4})
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, status)
}

func TestCurrencyServiceCheck(t *testing.T) {
	history := &flightRepoStub{flights: []models.Flight{
		{FlightDate: models.NewDate(day(2024, 5, 1)), Type: "PA28", FlightTimeClass: "SEP", LandingsDay: models.IntPtr(3)},
	}}
	ratings := &ratingRepoStub{ratings: []models.Rating{
		{ID: 1, Title: "Medical", Type: models.RatingTypeOther, ExpirationDate: models.NewDate(day(2024, 6, 10)), WarningPeriod: "m1"},
		{ID: 2, Title: "SEP", Type: models.RatingTypeClass, ExpirationDate: models.NewDate(day(2025, 1, 31)), WarningPeriod: "m3"},
		{ID: 3, Title: "Passport", Type: models.RatingTypeInfo, ExpirationDate: models.NewDate(day(2024, 5, 1))},
	}}
	svc := NewCurrencyService(history, ratings, CurrencyConfig{ExtraClasses: []string{"UL", "SEP"}}, nil).
		WithClock(func() time.Time { return day(2024, 6, 1) })

	results, err := svc.Check(context.Background(), day(2024, 6, 1))
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.Equal(t, models.CheckResult{Title: "SEP", RatingType: models.RatingTypeClass, Kind: models.CheckFixedExpiry,
		Status: models.StatusValid, Until: models.NewDate(day(2025, 1, 31))}, results[0])
	assert.Equal(t, models.CheckResult{Title: "SEP", RatingType: models.RatingTypeClass, Kind: models.CheckRollingLandings,
		Status: models.StatusValid, Until: models.NewDate(day(2024, 7, 30))}, results[1])
	assert.Equal(t, "UL", results[2].Title)
	assert.Equal(t, models.StatusExpired, results[2].Status)
	assert.True(t, results[2].Until.IsZero())
	assert.Equal(t, "Medical", results[3].Title)
	assert.Equal(t, models.StatusWarning, results[3].Status)
	assert.Equal(t, "Passport", results[4].Title)
	assert.Equal(t, models.StatusExpired, results[4].Status)
}

func TestCurrencyServiceCheckCorruptWarningPeriod(t *testing.T) {
	ratings := &ratingRepoStub{ratings: []models.Rating{
		{ID: 7, Title: "Medical", Type: models.RatingTypeOther, ExpirationDate: models.NewDate(day(2024, 6, 10)), WarningPeriod: "1 month"},
	}}
	svc := NewCurrencyService(&flightRepoStub{}, ratings, CurrencyConfig{}, nil)

	_, err := svc.Check(context.Background(), day(2024, 6, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrCorruptRecord)
	assert.Contains(t, err.Error(), "rating 7")
}
