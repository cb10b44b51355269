package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/flightlog/internal/models"
)

const flightColumns = `id, flight_date, type, registration, departure_id, destination_id, off_block, on_block, start_time, landing_time,
        landings_day, landings_night, pic_name, pilot_function, flight_time_night, flight_time_ifr, flight_time_class,
        student_name, guests, remarks`

const insertFlight = `INSERT INTO flights (flight_date, type, registration, departure_id, destination_id, off_block, on_block,
        start_time, landing_time, landings_day, landings_night, pic_name, pilot_function, flight_time_night, flight_time_ifr,
        flight_time_class, student_name, guests, remarks)
        VALUES (:flight_date, :type, :registration, :departure_id, :destination_id, :off_block, :on_block,
        :start_time, :landing_time, :landings_day, :landings_night, :pic_name, :pilot_function, :flight_time_night, :flight_time_ifr,
        :flight_time_class, :student_name, :guests, :remarks) RETURNING id`

// FlightRepository manages persistence for logged flights.
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository constructs a FlightRepository.
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// Find returns flights dated inside the interval that match the filter,
// ordered by date then off-block time.
func (r *FlightRepository) Find(ctx context.Context, interval models.Interval, filter models.FlightFilter) ([]models.Flight, error) {
	where, args := flightConditions(interval, filter)
	query := fmt.Sprintf(`SELECT %s
        FROM flights WHERE %s ORDER BY flight_date ASC, off_block ASC`, flightColumns, where)

	var flights []models.Flight
	if err := r.db.SelectContext(ctx, &flights, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find flights: %w", err)
	}
	return flights, nil
}

// FindByDate returns all flights of one day ordered by off-block time.
func (r *FlightRepository) FindByDate(ctx context.Context, day time.Time) ([]models.Flight, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM flights WHERE flight_date = ? ORDER BY off_block ASC`, flightColumns)
	var flights []models.Flight
	if err := r.db.SelectContext(ctx, &flights, r.db.Rebind(query), models.NewDate(day)); err != nil {
		return nil, fmt.Errorf("find flights by date: %w", err)
	}
	return flights, nil
}

// Last returns the n most recent flights in chronological order.
func (r *FlightRepository) Last(ctx context.Context, n int) ([]models.Flight, error) {
	if n <= 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT * FROM (SELECT %s
        FROM flights ORDER BY flight_date DESC, off_block DESC LIMIT ?) recent
        ORDER BY flight_date ASC, off_block ASC`, flightColumns)
	var flights []models.Flight
	if err := r.db.SelectContext(ctx, &flights, r.db.Rebind(query), n); err != nil {
		return nil, fmt.Errorf("last flights: %w", err)
	}
	return flights, nil
}

// DailyLandings sums landings per flight date for flights whose frozen class
// equals class.
func (r *FlightRepository) DailyLandings(ctx context.Context, class string) ([]models.DailyLandings, error) {
	const query = `SELECT flight_date, SUM(COALESCE(landings_day, 0) + COALESCE(landings_night, 0)) AS landings
        FROM flights WHERE flight_time_class = ?
        GROUP BY flight_date ORDER BY flight_date ASC`
	var days []models.DailyLandings
	if err := r.db.SelectContext(ctx, &days, r.db.Rebind(query), class); err != nil {
		return nil, fmt.Errorf("daily landings: %w", err)
	}
	return days, nil
}

// Create inserts a flight and stores the assigned id on it.
func (r *FlightRepository) Create(ctx context.Context, flight *models.Flight) error {
	if err := insertFlightRow(ctx, r.db, flight); err != nil {
		return fmt.Errorf("create flight: %w", err)
	}
	return nil
}

// CreateBatch inserts all flights in one transaction; nothing is written if any insert fails.
func (r *FlightRepository) CreateBatch(ctx context.Context, flights []*models.Flight) error {
	if len(flights) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin flight import tx: %w", err)
	}
	for i, flight := range flights {
		if err := insertFlightRow(ctx, tx, flight); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("import flight %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit flight import tx: %w", err)
	}
	return nil
}

// Delete removes a single flight. sql.ErrNoRows is returned for an unknown id.
func (r *FlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM flights WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type namedQueryer interface {
	sqlx.QueryerContext
	Rebind(string) string
}

func insertFlightRow(ctx context.Context, q namedQueryer, flight *models.Flight) error {
	query, args, err := sqlx.Named(insertFlight, flight)
	if err != nil {
		return err
	}
	return q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&flight.ID)
}

// flightConditions renders the interval and filter into a parameterised WHERE clause.
func flightConditions(interval models.Interval, filter models.FlightFilter) (string, []interface{}) {
	conditions := []string{"flight_date >= ?", "flight_date < ?"}
	args := []interface{}{models.NewDate(interval.Start), models.NewDate(interval.End)}

	exact := []struct {
		column string
		value  string
	}{
		{"departure_id", filter.Departure},
		{"destination_id", filter.Destination},
		{"registration", filter.Registration},
		{"type", filter.Type},
		{"flight_time_class", filter.Class},
		{"pic_name", filter.PIC},
		{"pilot_function", filter.PilotFunction},
	}
	for _, f := range exact {
		if f.value != "" {
			conditions = append(conditions, f.column+" = ?")
			args = append(args, f.value)
		}
	}

	if len(filter.PilotFunctions) > 0 {
		marks := make([]string, len(filter.PilotFunctions))
		for i, fn := range filter.PilotFunctions {
			marks[i] = "?"
			args = append(args, fn)
		}
		conditions = append(conditions, fmt.Sprintf("pilot_function IN (%s)", strings.Join(marks, ", ")))
	}

	substring := []struct {
		column string
		value  string
	}{
		{"student_name", filter.Student},
		{"guests", filter.Guests},
		{"remarks", filter.Remarks},
	}
	for _, f := range substring {
		if f.value != "" {
			conditions = append(conditions, f.column+` LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(f.value)+"%")
		}
	}

	if filter.FlightInstruction {
		conditions = append(conditions, "pilot_function = ?")
		args = append(args, models.PilotFunctionFI)
	}

	return strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
