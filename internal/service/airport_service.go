package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/models"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

type airportRepository interface {
	FindByICAO(ctx context.Context, icao string) (*models.Airport, error)
	Search(ctx context.Context, term string, idOnly bool) ([]models.Airport, error)
	ReplaceAll(ctx context.Context, airports []models.Airport) error
	Count(ctx context.Context) (int, error)
}

// AirportFeedConfig locates the airport reference feed.
type AirportFeedConfig struct {
	URL     string
	Timeout time.Duration
}

// Feed columns of the OurAirports airports.csv file.
const (
	feedIdent     = 1
	feedName      = 3
	feedLatitude  = 4
	feedLongitude = 5
	feedElevation = 6
)

// AirportService searches and refreshes the airport reference table.
type AirportService struct {
	repo   airportRepository
	client *http.Client
	cfg    AirportFeedConfig
	logger *zap.Logger
}

// NewAirportService constructs an AirportService.
func NewAirportService(repo airportRepository, cfg AirportFeedConfig, logger *zap.Logger) *AirportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &AirportService{
		repo:   repo,
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Search returns airports whose identifier, or unless idOnly whose name,
// contains term.
func (s *AirportService) Search(ctx context.Context, term string, idOnly bool) ([]models.Airport, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, appErrors.Validation("search term must not be empty")
	}
	airports, err := s.repo.Search(ctx, term, idOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to search airports")
	}
	return airports, nil
}

// Lookup returns the airport with the exact identifier.
func (s *AirportService) Lookup(ctx context.Context, icao string) (*models.Airport, error) {
	airport, err := s.repo.FindByICAO(ctx, strings.ToUpper(strings.TrimSpace(icao)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("airport %s not found", icao))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load airport")
	}
	return airport, nil
}

// Refresh replaces the table with the rows of an airports.csv feed. The
// first row is a header.
func (s *AirportService) Refresh(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode, "airport feed has no header")
	}

	var airports []models.Airport
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode,
				fmt.Sprintf("airport feed line %d is malformed", line))
		}
		if len(record) <= feedElevation {
			return 0, appErrors.Validation("airport feed line %d has %d columns", line, len(record))
		}
		airports = append(airports, models.Airport{
			ICAOID: record[feedIdent],
			Name:   record[feedName],
			Lat:    record[feedLatitude],
			Long:   record[feedLongitude],
			Elev:   record[feedElevation],
		})
	}

	if err := s.repo.ReplaceAll(ctx, airports); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to store airports")
	}
	s.logger.Info("airports refreshed", zap.Int("count", len(airports)))
	return len(airports), nil
}

// Download fetches the configured feed and refreshes the table from it.
func (s *AirportService) Download(ctx context.Context) (int, error) {
	if s.cfg.URL == "" {
		return 0, appErrors.Validation("no airport feed URL configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode, "invalid airport feed URL")
	}
	s.logger.Info("downloading airports", zap.String("url", s.cfg.URL))
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to download airports")
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return 0, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("airport feed returned %s", resp.Status))
	}
	return s.Refresh(ctx, resp.Body)
}

// Count returns the number of stored airports.
func (s *AirportService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to count airports")
	}
	return n, nil
}
