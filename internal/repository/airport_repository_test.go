package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flightlog/internal/models"
)

func TestAirportRepositorySearch(t *testing.T) {
	db, mock, cleanup := newFlightMock(t)
	defer cleanup()
	repo := NewAirportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE icao_id LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\' ORDER BY icao_id ASC`)).
		WithArgs("%Mengen%", "%Mengen%").
		WillReturnRows(sqlmock.NewRows([]string{"icao_id", "name", "lat", "long", "elev"}).
			AddRow("EDTM", "Mengen-Hohentengen", "48.05", "9.37", "1818"))

	airports, err := repo.Search(context.Background(), "Mengen", false)
	require.NoError(t, err)
	require.Len(t, airports, 1)
	assert.Equal(t, "EDTM", airports[0].ICAOID)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE icao_id LIKE ? ESCAPE '\' ORDER BY icao_id ASC`)).
		WithArgs("%EDT%").
		WillReturnRows(sqlmock.NewRows([]string{"icao_id", "name", "lat", "long", "elev"}))
	_, err = repo.Search(context.Background(), "EDT", true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAirportRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newFlightMock(t)
	defer cleanup()
	repo := NewAirportRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM airports").WillReturnResult(sqlmock.NewResult(0, 10))
	prep := mock.ExpectPrepare("INSERT INTO airports")
	prep.ExpectExec().WithArgs("EDTM", "Mengen", "48.05", "9.37", "1818").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("EDNY", "Friedrichshafen", "47.67", "9.51", "1367").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.ReplaceAll(context.Background(), []models.Airport{
		{ICAOID: "EDTM", Name: "Mengen", Lat: "48.05", Long: "9.37", Elev: "1818"},
		{ICAOID: "EDNY", Name: "Friedrichshafen", Lat: "47.67", Long: "9.51", Elev: "1367"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
