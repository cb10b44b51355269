// Package database opens the logbook and airport stores and creates their tables.
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/flightlog/pkg/config"
)

// Open returns a client for the configured logbook store with its tables in place.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Driver {
	case "", config.DriverSQLite:
		db, err = NewSQLite(cfg.Path)
	case config.DriverPostgres:
		db, err = NewPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := EnsureLogbookSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create logbook schema: %w", err)
	}
	return db, nil
}

// OpenAirports opens the airport reference store, always a local SQLite file.
func OpenAirports(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureAirportSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create airport schema: %w", err)
	}
	return db, nil
}
