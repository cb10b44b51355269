package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const logbookSchema = `
CREATE TABLE IF NOT EXISTS aircrafts (
	registration TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	class TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS flights (
	id %[1]s,
	flight_date TEXT NOT NULL,
	type TEXT NOT NULL,
	registration TEXT NOT NULL,
	departure_id TEXT NOT NULL DEFAULT '',
	destination_id TEXT NOT NULL DEFAULT '',
	off_block TEXT NOT NULL,
	on_block TEXT NOT NULL,
	start_time TEXT NOT NULL,
	landing_time TEXT NOT NULL,
	landings_day INTEGER,
	landings_night INTEGER,
	pic_name TEXT NOT NULL DEFAULT '',
	pilot_function TEXT NOT NULL DEFAULT '',
	flight_time_night TEXT NOT NULL DEFAULT '',
	flight_time_ifr TEXT NOT NULL DEFAULT '',
	flight_time_class TEXT NOT NULL DEFAULT '',
	student_name TEXT NOT NULL DEFAULT '',
	guests TEXT NOT NULL DEFAULT '',
	remarks TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_flights_date ON flights(flight_date, off_block);
CREATE INDEX IF NOT EXISTS idx_flights_class ON flights(flight_time_class);

CREATE TABLE IF NOT EXISTS ratings (
	id %[1]s,
	title TEXT NOT NULL,
	type TEXT NOT NULL,
	expiration_date TEXT NOT NULL,
	warning_period TEXT NOT NULL DEFAULT '',
	renewal_conditions TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);
`

const airportSchema = `
CREATE TABLE IF NOT EXISTS airports (
	icao_id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	lat TEXT NOT NULL DEFAULT '',
	long TEXT NOT NULL DEFAULT '',
	elev TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_airports_name ON airports(name);
`

// primaryKey returns the auto-increment id column for the connected dialect.
func primaryKey(db *sqlx.DB) string {
	if db.DriverName() == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// EnsureLogbookSchema creates the flights, aircrafts, ratings and settings tables if missing.
func EnsureLogbookSchema(ctx context.Context, db *sqlx.DB) error {
	return execStatements(ctx, db, fmt.Sprintf(logbookSchema, primaryKey(db)))
}

// EnsureAirportSchema creates the airports table if missing.
func EnsureAirportSchema(ctx context.Context, db *sqlx.DB) error {
	return execStatements(ctx, db, airportSchema)
}

func execStatements(ctx context.Context, db *sqlx.DB, schema string) error {
	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}
