package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/dateexpr"
	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

var warningPeriodPattern = regexp.MustCompile(`^([md])(\d+)$`)

type landingHistory interface {
	DailyLandings(ctx context.Context, class string) ([]models.DailyLandings, error)
}

type ratingLister interface {
	ListByType(ctx context.Context, ratingType models.RatingType) ([]models.Rating, error)
}

// CurrencyConfig tunes the rolling landings rule.
type CurrencyConfig struct {
	WindowDays   int
	MinLandings  int
	GraceDays    int
	ExtraClasses []string
}

// RollingRule overrides the configured window or landing count for one
// evaluation. Zero fields fall back to CurrencyConfig.
type RollingRule struct {
	WindowDays int
	MinCount   int
}

// WarningStart returns the first day of the warning period preceding
// expiration. An empty period means no warning period.
func WarningStart(expiration time.Time, period string) (time.Time, error) {
	if period == "" {
		return expiration, nil
	}
	m := warningPeriodPattern.FindStringSubmatch(period)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid warning period %q, expected mN or dN", period)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid warning period %q: %w", period, err)
	}
	if m[1] == "m" {
		return dateexpr.AddMonths(expiration, -n), nil
	}
	return dateexpr.AddDays(expiration, -n), nil
}

// ValidWarningPeriod reports whether period is empty or of the form mN or dN.
func ValidWarningPeriod(period string) bool {
	return period == "" || warningPeriodPattern.MatchString(period)
}

// EvaluateFixedExpiry classifies d against a rating's expiration date. The
// expiration day itself is still covered; the warning period includes its
// first day.
func EvaluateFixedExpiry(d, expiration time.Time, warningPeriod string) (models.Status, error) {
	warnFrom, err := WarningStart(expiration, warningPeriod)
	if err != nil {
		return "", err
	}
	switch {
	case d.After(expiration):
		return models.StatusExpired, nil
	case !d.Before(warnFrom):
		return models.StatusWarning, nil
	default:
		return models.StatusValid, nil
	}
}

// RollingBoundary finds the last day c on which at least minCount landings
// fall on or after c minus windowDays. days must be sorted by date. The
// search starts at origin, walks forward while the rule holds and backward
// otherwise. It is capped at the first and last flight dates shifted by the
// window, so it always terminates. ok is false when the rule never held.
func RollingBoundary(days []models.DailyLandings, origin time.Time, windowDays, minCount int) (boundary time.Time, ok bool) {
	if len(days) == 0 {
		return time.Time{}, false
	}

	// suffix[i] is the landing total of days[i:].
	suffix := make([]int, len(days)+1)
	for i := len(days) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + days[i].Landings
	}
	satisfied := func(c time.Time) bool {
		from := dateexpr.AddDays(c, -windowDays)
		idx := sort.Search(len(days), func(i int) bool {
			return !days[i].FlightDate.Before(from)
		})
		return suffix[idx] >= minCount
	}

	c := dateexpr.Midnight(origin)
	if satisfied(c) {
		limit := dateexpr.AddDays(days[len(days)-1].FlightDate.Time, windowDays)
		for c.Before(limit) && satisfied(dateexpr.AddDays(c, 1)) {
			c = dateexpr.AddDays(c, 1)
		}
		return c, true
	}

	floor := dateexpr.AddDays(days[0].FlightDate.Time, windowDays)
	for c.After(floor) {
		c = dateexpr.AddDays(c, -1)
		if satisfied(c) {
			return c, true
		}
	}
	return time.Time{}, false
}

// RollingStatus classifies d against a rolling boundary: valid up to the
// boundary, warning during the grace days after it, expired afterwards or
// when the rule never held.
func RollingStatus(d, boundary time.Time, ok bool, graceDays int) models.Status {
	switch {
	case !ok:
		return models.StatusExpired
	case !d.After(boundary):
		return models.StatusValid
	case !d.After(dateexpr.AddDays(boundary, graceDays)):
		return models.StatusWarning
	default:
		return models.StatusExpired
	}
}

// CurrencyService evaluates ratings and the rolling landings rule.
type CurrencyService struct {
	history landingHistory
	ratings ratingLister
	cfg     CurrencyConfig
	now     func() time.Time
	logger  *zap.Logger
}

// NewCurrencyService constructs a CurrencyService.
func NewCurrencyService(history landingHistory, ratings ratingLister, cfg CurrencyConfig, logger *zap.Logger) *CurrencyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 90
	}
	if cfg.MinLandings <= 0 {
		cfg.MinLandings = 3
	}
	if cfg.GraceDays < 0 {
		cfg.GraceDays = 0
	}
	return &CurrencyService{
		history: history,
		ratings: ratings,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the time source used to find today.
func (s *CurrencyService) WithClock(now func() time.Time) *CurrencyService {
	if now != nil {
		s.now = now
	}
	return s
}

// WindowDays is the configured look-back of the rolling rule.
func (s *CurrencyService) WindowDays() int {
	return s.cfg.WindowDays
}

// EvaluateRollingLandings applies the rolling rule to flights of class,
// searching from yesterday.
func (s *CurrencyService) EvaluateRollingLandings(ctx context.Context, d time.Time, class string, rule RollingRule) (models.Status, time.Time, error) {
	if rule.WindowDays <= 0 {
		rule.WindowDays = s.cfg.WindowDays
	}
	if rule.MinCount <= 0 {
		rule.MinCount = s.cfg.MinLandings
	}

	days, err := s.history.DailyLandings(ctx, class)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load landing history")
	}

	origin := dateexpr.AddDays(dateexpr.Midnight(s.now()), -1)
	boundary, ok := RollingBoundary(days, origin, rule.WindowDays, rule.MinCount)
	status := RollingStatus(dateexpr.Midnight(d), boundary, ok, s.cfg.GraceDays)

	s.logger.Debug("rolling landings evaluated",
		zap.String("class", class),
		zap.Int("days", len(days)),
		zap.Bool("held", ok),
		zap.Time("boundary", boundary),
		zap.String("status", string(status)),
	)
	return status, boundary, nil
}

// Check evaluates every stored rating on day d. Class ratings are checked for
// expiry and, by title, for the rolling landings rule; the configured extra
// classes get the rolling rule only.
func (s *CurrencyService) Check(ctx context.Context, d time.Time) ([]models.CheckResult, error) {
	d = dateexpr.Midnight(d)

	classRatings, err := s.listRatings(ctx, models.RatingTypeClass)
	if err != nil {
		return nil, err
	}

	results := make([]models.CheckResult, 0, len(classRatings)*2)
	for _, r := range classRatings {
		res, err := s.fixedResult(d, r)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	seen := make(map[string]struct{}, len(classRatings))
	rolling := make([]string, 0, len(classRatings)+len(s.cfg.ExtraClasses))
	for _, r := range classRatings {
		rolling = append(rolling, r.Title)
	}
	rolling = append(rolling, s.cfg.ExtraClasses...)
	for _, class := range rolling {
		if _, dup := seen[class]; dup {
			continue
		}
		seen[class] = struct{}{}
		status, boundary, err := s.EvaluateRollingLandings(ctx, d, class, RollingRule{})
		if err != nil {
			return nil, err
		}
		res := models.CheckResult{
			Title:      class,
			RatingType: models.RatingTypeClass,
			Kind:       models.CheckRollingLandings,
			Status:     status,
		}
		if !boundary.IsZero() {
			res.Until = models.NewDate(boundary)
		}
		results = append(results, res)
	}

	for _, t := range []models.RatingType{models.RatingTypeOther, models.RatingTypeInfo} {
		ratings, err := s.listRatings(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, r := range ratings {
			res, err := s.fixedResult(d, r)
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (s *CurrencyService) listRatings(ctx context.Context, t models.RatingType) ([]models.Rating, error) {
	ratings, err := s.ratings.ListByType(ctx, t)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load ratings")
	}
	return ratings, nil
}

func (s *CurrencyService) fixedResult(d time.Time, r models.Rating) (models.CheckResult, error) {
	status, err := EvaluateFixedExpiry(d, r.ExpirationDate.Time, r.WarningPeriod)
	if err != nil {
		return models.CheckResult{}, appErrors.Wrap(err, appErrors.ErrCorruptRecord.Code, appErrors.ErrCorruptRecord.ExitCode,
			fmt.Sprintf("rating %d (%s) has a malformed warning period", r.ID, r.Title))
	}
	return models.CheckResult{
		Title:      r.Title,
		RatingType: r.Type,
		Kind:       models.CheckFixedExpiry,
		Status:     status,
		Until:      r.ExpirationDate,
	}, nil
}
