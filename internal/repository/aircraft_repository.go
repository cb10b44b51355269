package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/flightlog/internal/models"
)

// AircraftRepository manages registered aircraft.
type AircraftRepository struct {
	db *sqlx.DB
}

// NewAircraftRepository constructs an AircraftRepository.
func NewAircraftRepository(db *sqlx.DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// Get fetches an aircraft by registration; sql.ErrNoRows when unknown.
func (r *AircraftRepository) Get(ctx context.Context, registration string) (*models.Aircraft, error) {
	const query = `SELECT registration, type, class FROM aircrafts WHERE registration = ?`
	var aircraft models.Aircraft
	if err := r.db.GetContext(ctx, &aircraft, r.db.Rebind(query), registration); err != nil {
		return nil, err
	}
	return &aircraft, nil
}

// List returns all aircraft ordered by registration.
func (r *AircraftRepository) List(ctx context.Context) ([]models.Aircraft, error) {
	var aircraft []models.Aircraft
	if err := r.db.SelectContext(ctx, &aircraft, `SELECT registration, type, class FROM aircrafts ORDER BY registration ASC`); err != nil {
		return nil, fmt.Errorf("list aircraft: %w", err)
	}
	return aircraft, nil
}

// Create inserts a new aircraft.
func (r *AircraftRepository) Create(ctx context.Context, aircraft *models.Aircraft) error {
	const query = `INSERT INTO aircrafts (registration, type, class) VALUES (:registration, :type, :class)`
	if _, err := r.db.NamedExecContext(ctx, query, aircraft); err != nil {
		return fmt.Errorf("create aircraft: %w", err)
	}
	return nil
}

// Delete removes an aircraft. Flights keep their copied type and class.
func (r *AircraftRepository) Delete(ctx context.Context, registration string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM aircrafts WHERE registration = ?`), registration)
	if err != nil {
		return fmt.Errorf("delete aircraft: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
