package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/flightlog/internal/models"
)

const ratingColumns = `id, title, type, expiration_date, warning_period, renewal_conditions`

// RatingRepository persists ratings, licenses and other expiring items.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs a RatingRepository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// List returns every rating ordered by type then title.
func (r *RatingRepository) List(ctx context.Context) ([]models.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings ORDER BY type ASC, title ASC`, ratingColumns)
	var ratings []models.Rating
	if err := r.db.SelectContext(ctx, &ratings, query); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// ListByType returns ratings of one type ordered by id.
func (r *RatingRepository) ListByType(ctx context.Context, ratingType models.RatingType) ([]models.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings WHERE type = ? ORDER BY id ASC`, ratingColumns)
	var ratings []models.Rating
	if err := r.db.SelectContext(ctx, &ratings, r.db.Rebind(query), ratingType); err != nil {
		return nil, fmt.Errorf("list ratings by type: %w", err)
	}
	return ratings, nil
}

// Get fetches a rating by id; sql.ErrNoRows when unknown.
func (r *RatingRepository) Get(ctx context.Context, id int64) (*models.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings WHERE id = ?`, ratingColumns)
	var rating models.Rating
	if err := r.db.GetContext(ctx, &rating, r.db.Rebind(query), id); err != nil {
		return nil, err
	}
	return &rating, nil
}

// Create inserts a rating and stores its id.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	query, args, err := sqlx.Named(`INSERT INTO ratings (title, type, expiration_date, warning_period, renewal_conditions)
        VALUES (:title, :type, :expiration_date, :warning_period, :renewal_conditions) RETURNING id`, rating)
	if err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&rating.ID); err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

// UpdateExpiration sets a new expiration date.
func (r *RatingRepository) UpdateExpiration(ctx context.Context, id int64, expiration time.Time) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE ratings SET expiration_date = ? WHERE id = ?`), models.NewDate(expiration), id)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a rating.
func (r *RatingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM ratings WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
