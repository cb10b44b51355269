package models

// Airport is a row of the airport reference table.
type Airport struct {
	ICAOID string `db:"icao_id"`
	Name   string `db:"name"`
	Lat    string `db:"lat"`
	Long   string `db:"long"`
	Elev   string `db:"elev"`
}
