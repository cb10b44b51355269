package models

// Pilot functions known to the reports.
const (
	PilotFunctionPIC  = "PIC"
	PilotFunctionDual = "Dual"
	PilotFunctionFI   = "FI"
)

// Flight is one logged flight leg. Clock fields hold HH:MM local wall-clock times;
// a later field may be numerically smaller when the flight crosses midnight.
type Flight struct {
	ID              int64  `db:"id"`
	FlightDate      Date   `db:"flight_date"`
	Type            string `db:"type"`
	Registration    string `db:"registration"`
	DepartureID     string `db:"departure_id"`
	DestinationID   string `db:"destination_id"`
	OffBlock        string `db:"off_block"`
	OnBlock         string `db:"on_block"`
	StartTime       string `db:"start_time"`
	LandingTime     string `db:"landing_time"`
	LandingsDay     *int   `db:"landings_day"`
	LandingsNight   *int   `db:"landings_night"`
	PICName         string `db:"pic_name"`
	PilotFunction   string `db:"pilot_function"`
	FlightTimeNight string `db:"flight_time_night"`
	FlightTimeIFR   string `db:"flight_time_ifr"`
	FlightTimeClass string `db:"flight_time_class"`
	StudentName     string `db:"student_name"`
	Guests          string `db:"guests"`
	Remarks         string `db:"remarks"`
}

// Landings returns day plus night landings, blanks counting as zero.
func (f Flight) Landings() int {
	return IntValue(f.LandingsDay) + IntValue(f.LandingsNight)
}

// IntValue dereferences an optional count.
func IntValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// FlightFilter constrains a flight query. Zero values mean "no constraint".
// Student, Guests and Remarks match substrings; every other field matches exactly.
type FlightFilter struct {
	Registration      string
	Type              string
	Class             string
	PIC               string
	PilotFunction     string
	PilotFunctions    []string
	Student           string
	Guests            string
	Remarks           string
	Departure         string
	Destination       string
	FlightInstruction bool
}

// DailyLandings is the landing total of one flight date.
type DailyLandings struct {
	FlightDate Date `db:"flight_date"`
	Landings   int  `db:"landings"`
}
