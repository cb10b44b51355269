package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/flightlog/internal/models"
)

// AirportRepository reads and bulk-replaces the airport reference table.
type AirportRepository struct {
	db *sqlx.DB
}

// NewAirportRepository constructs an AirportRepository.
func NewAirportRepository(db *sqlx.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// FindByICAO returns the airport with the exact identifier; sql.ErrNoRows when unknown.
func (r *AirportRepository) FindByICAO(ctx context.Context, icao string) (*models.Airport, error) {
	var airport models.Airport
	query := `SELECT icao_id, name, lat, long, elev FROM airports WHERE icao_id = ?`
	if err := r.db.GetContext(ctx, &airport, r.db.Rebind(query), icao); err != nil {
		return nil, err
	}
	return &airport, nil
}

// Search matches term as a substring of the identifier and, unless idOnly, of the name.
func (r *AirportRepository) Search(ctx context.Context, term string, idOnly bool) ([]models.Airport, error) {
	pattern := "%" + escapeLike(term) + "%"
	query := `SELECT icao_id, name, lat, long, elev FROM airports WHERE icao_id LIKE ? ESCAPE '\'`
	args := []interface{}{pattern}
	if !idOnly {
		query += ` OR name LIKE ? ESCAPE '\'`
		args = append(args, pattern)
	}
	query += ` ORDER BY icao_id ASC`

	var airports []models.Airport
	if err := r.db.SelectContext(ctx, &airports, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("search airports: %w", err)
	}
	return airports, nil
}

// ReplaceAll swaps the table content for airports in one transaction.
func (r *AirportRepository) ReplaceAll(ctx context.Context, airports []models.Airport) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin airport tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM airports`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear airports: %w", err)
	}
	stmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO airports (icao_id, name, lat, long, elev)
        VALUES (:icao_id, :name, :lat, :long, :elev) ON CONFLICT (icao_id) DO NOTHING`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare airport insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck
	for i := range airports {
		if _, err := stmt.ExecContext(ctx, airports[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert airport %s: %w", airports[i].ICAOID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit airport tx: %w", err)
	}
	return nil
}

// Count returns the number of stored airports.
func (r *AirportRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM airports`); err != nil {
		return 0, fmt.Errorf("count airports: %w", err)
	}
	return n, nil
}
