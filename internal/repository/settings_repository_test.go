package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flightlog/internal/models"
)

func newSettingsRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlite")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestSettingsRepositoryListByKeys(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("default_PIC", "Self").
		AddRow("default_airport", "EDTM")
	mock.ExpectQuery("SELECT key, value FROM settings WHERE key IN").
		WithArgs("default_PIC", "default_airport").
		WillReturnRows(rows)

	result, err := repo.ListByKeys(context.Background(), []string{"default_PIC", "default_airport"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Self", result[0].Value)
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("default_registration", "DESFM").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), &models.Setting{Key: "default_registration", Value: "DESFM"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryEnsureDefaults(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectBegin()
	for _, key := range models.DefaultSettingKeys {
		mock.ExpectExec("INSERT INTO settings .* DO NOTHING").
			WithArgs(key).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.EnsureDefaults(context.Background(), models.DefaultSettingKeys))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?,?,?", placeholders(3))
}
