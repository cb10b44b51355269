package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/noah-isme/flightlog/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type flightRepoStub struct {
	flights []models.Flight
	nextID  int64
	err     error
}

func (s *flightRepoStub) Find(ctx context.Context, interval models.Interval, filter models.FlightFilter) ([]models.Flight, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Flight
	for _, f := range s.flights {
		if !interval.Contains(f.FlightDate.Time) {
			continue
		}
		if filter.PilotFunction != "" && f.PilotFunction != filter.PilotFunction {
			continue
		}
		if len(filter.PilotFunctions) > 0 && !contains(filter.PilotFunctions, f.PilotFunction) {
			continue
		}
		if filter.Registration != "" && f.Registration != filter.Registration {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *flightRepoStub) FindByDate(ctx context.Context, d time.Time) ([]models.Flight, error) {
	return s.Find(ctx, models.Interval{Start: d, End: d.AddDate(0, 0, 1)}, models.FlightFilter{})
}

func (s *flightRepoStub) Last(ctx context.Context, n int) ([]models.Flight, error) {
	if n > len(s.flights) {
		n = len(s.flights)
	}
	return s.flights[len(s.flights)-n:], nil
}

func (s *flightRepoStub) Create(ctx context.Context, flight *models.Flight) error {
	if s.err != nil {
		return s.err
	}
	s.nextID++
	flight.ID = s.nextID
	s.flights = append(s.flights, *flight)
	return nil
}

func (s *flightRepoStub) CreateBatch(ctx context.Context, flights []*models.Flight) error {
	for _, f := range flights {
		if err := s.Create(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *flightRepoStub) Delete(ctx context.Context, id int64) error {
	for i, f := range s.flights {
		if f.ID == id {
			s.flights = append(s.flights[:i], s.flights[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *flightRepoStub) DailyLandings(ctx context.Context, class string) ([]models.DailyLandings, error) {
	byDay := map[time.Time]int{}
	for _, f := range s.flights {
		if f.FlightTimeClass == class {
			byDay[f.FlightDate.Time] += f.Landings()
		}
	}
	out := make([]models.DailyLandings, 0, len(byDay))
	for d, n := range byDay {
		out = append(out, models.DailyLandings{FlightDate: models.NewDate(d), Landings: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlightDate.Before(out[j].FlightDate.Time) })
	return out, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

type aircraftRepoStub struct {
	items map[string]models.Aircraft
}

func (s *aircraftRepoStub) Get(ctx context.Context, registration string) (*models.Aircraft, error) {
	if a, ok := s.items[registration]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (s *aircraftRepoStub) List(ctx context.Context) ([]models.Aircraft, error) {
	out := make([]models.Aircraft, 0, len(s.items))
	for _, a := range s.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Registration < out[j].Registration })
	return out, nil
}

func (s *aircraftRepoStub) Create(ctx context.Context, aircraft *models.Aircraft) error {
	if s.items == nil {
		s.items = map[string]models.Aircraft{}
	}
	s.items[aircraft.Registration] = *aircraft
	return nil
}

func (s *aircraftRepoStub) Delete(ctx context.Context, registration string) error {
	if _, ok := s.items[registration]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, registration)
	return nil
}

type defaultsStub struct {
	defaults models.Defaults
	err      error
}

func (s defaultsStub) Defaults(ctx context.Context) (models.Defaults, error) {
	return s.defaults, s.err
}

type ratingRepoStub struct {
	ratings []models.Rating
	nextID  int64
}

func (s *ratingRepoStub) List(ctx context.Context) ([]models.Rating, error) {
	return s.ratings, nil
}

func (s *ratingRepoStub) ListByType(ctx context.Context, t models.RatingType) ([]models.Rating, error) {
	var out []models.Rating
	for _, r := range s.ratings {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ratingRepoStub) Get(ctx context.Context, id int64) (*models.Rating, error) {
	for _, r := range s.ratings {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *ratingRepoStub) Create(ctx context.Context, rating *models.Rating) error {
	s.nextID++
	rating.ID = s.nextID
	s.ratings = append(s.ratings, *rating)
	return nil
}

func (s *ratingRepoStub) UpdateExpiration(ctx context.Context, id int64, expiration time.Time) error {
	for i := range s.ratings {
		if s.ratings[i].ID == id {
			s.ratings[i].ExpirationDate = models.NewDate(expiration)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *ratingRepoStub) Delete(ctx context.Context, id int64) error {
	for i, r := range s.ratings {
		if r.ID == id {
			s.ratings = append(s.ratings[:i], s.ratings[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}
