package models

// Setting keys consulted when a flight omits the corresponding field.
const (
	SettingDefaultPIC          = "default_PIC"
	SettingDefaultRegistration = "default_registration"
	SettingDefaultAirport      = "default_airport"
)

// DefaultSettingKeys lists the keys seeded into a fresh logbook.
var DefaultSettingKeys = []string{SettingDefaultPIC, SettingDefaultRegistration, SettingDefaultAirport}

// Setting is one key/value pair of the settings table.
type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// Defaults is the resolved set of entry defaults.
type Defaults struct {
	PIC          string
	Registration string
	Airport      string
}
