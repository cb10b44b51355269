package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/noah-isme/flightlog/internal/dateexpr"
	"github.com/noah-isme/flightlog/internal/models"
	"github.com/noah-isme/flightlog/internal/service"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

func (a *App) runAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	var (
		req        service.AddFlightRequest
		daysBefore int
		date       string
		ldgDay     int
		ldgNight   int
	)
	fs.IntVarP(&daysBefore, "days-before", "d", 0, "flight date is this many days before today")
	fs.StringVar(&date, "date", "", "flight date as dd.mm.yyyy")
	fs.StringVarP(&req.Registration, "aircraft", "a", "", "aircraft registration")
	fs.StringVar(&req.Departure, "departure", "", "airport of departure")
	fs.StringVar(&req.Destination, "destination", "", "airport of destination")
	fs.IntVarP(&ldgDay, "landings-day", "l", 0, "number of day landings")
	fs.IntVar(&ldgNight, "landings-night", 0, "number of night landings")
	fs.StringVarP(&req.PIC, "pic", "p", "", "PIC; requires --pilot-function unless it is the default PIC")
	fs.StringVar(&req.PilotFunction, "pilot-function", "", "pilot function: PIC, Dual or FI")
	fs.BoolVarP(&req.Night, "night", "n", false, "log block time as night time and all landings as night landings")
	fs.BoolVarP(&req.IFR, "ifr", "i", false, "log block time as IFR time")
	fs.StringVarP(&req.Guests, "guests", "g", "", "guests on board")
	fs.StringVarP(&req.Remarks, "remarks", "r", "", "remarks")
	fs.StringVar(&req.Instruction, "flight-instruction", "", "log as FI with this student")
	fs.StringVar(&req.NightTime, "night-time", "", "night flight time")
	fs.StringVar(&req.IFRTime, "ifr-time", "", "IFR flight time")
	fs.StringVar(&req.Student, "student", "", "student name")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 4 {
		return appErrors.Validation("add needs off-block, takeoff, landing and on-block times, got %d argument(s)", fs.NArg())
	}
	req.OffBlock, req.StartTime, req.LandingTime, req.OnBlock = fs.Arg(0), fs.Arg(1), fs.Arg(2), fs.Arg(3)

	switch {
	case fs.Changed("days-before") && fs.Changed("date"):
		return appErrors.Validation("--days-before and --date are mutually exclusive")
	case fs.Changed("days-before"):
		if daysBefore < 0 {
			return appErrors.Validation("--days-before must not be negative")
		}
		req.Date = dateexpr.AddDays(a.resolver.Today(), -daysBefore)
	default:
		day, err := a.resolver.ParseDay(date)
		if err != nil {
			return err
		}
		req.Date = day
	}
	if fs.Changed("landings-day") {
		req.LandingsDay = models.IntPtr(ldgDay)
	}
	if fs.Changed("landings-night") {
		req.LandingsNight = models.IntPtr(ldgNight)
	}

	flight, err := a.flights.Add(ctx, req)
	if err != nil {
		return err
	}
	a.out.Flights([]models.Flight{*flight}, false)
	return nil
}

func (a *App) runLast(ctx context.Context, args []string) error {
	fs := a.newFlagSet("last")
	long := fs.BoolP("long", "l", false, "show all data fields")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	n := 5
	if fs.NArg() > 0 {
		v, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return appErrors.Validation("number of flights %q is not a number", fs.Arg(0))
		}
		n = v
	}
	flights, err := a.flights.Last(ctx, n)
	if err != nil {
		return err
	}
	a.out.Flights(flights, *long)
	return nil
}

// filterFlags registers the flight filter options shared by ls, sum and export.
func filterFlags(fs *pflag.FlagSet) *models.FlightFilter {
	f := &models.FlightFilter{}
	fs.StringVar(&f.Departure, "departure", "", "airport of departure")
	fs.StringVar(&f.Destination, "destination", "", "airport of destination")
	fs.StringVarP(&f.Registration, "aircraft", "a", "", "aircraft registration")
	fs.StringVarP(&f.Type, "type", "t", "", "aircraft type")
	fs.StringVarP(&f.Class, "class", "c", "", "aircraft class")
	fs.StringVarP(&f.PIC, "pic", "p", "", "PIC")
	fs.StringVar(&f.PilotFunction, "pilot-function", "", "pilot function, i.e. PIC, Dual")
	fs.StringVarP(&f.Student, "student", "s", "", "student (substring)")
	fs.StringVarP(&f.Guests, "guests", "g", "", "guests (substring)")
	fs.StringVarP(&f.Remarks, "remarks", "r", "", "remarks (substring)")
	fs.BoolVar(&f.FlightInstruction, "flight-instruction", false, "only flights logged as FI")
	return f
}

// interval resolves the optional start and end positionals.
func (a *App) interval(fs *pflag.FlagSet) (models.Interval, error) {
	if fs.NArg() > 2 {
		return models.Interval{}, appErrors.Validation("expected at most a start and an end date, got %d arguments", fs.NArg())
	}
	return a.resolver.Resolve(fs.Arg(0), fs.Arg(1))
}

func (a *App) runList(ctx context.Context, args []string) error {
	fs := a.newFlagSet("ls")
	long := fs.BoolP("long", "l", false, "show all data fields")
	filter := filterFlags(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	interval, err := a.interval(fs)
	if err != nil {
		return err
	}
	flights, err := a.flights.List(ctx, interval, *filter)
	if err != nil {
		return err
	}
	a.out.Flights(flights, *long)
	return nil
}

func (a *App) runSum(ctx context.Context, args []string) error {
	fs := a.newFlagSet("sum")
	filter := filterFlags(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	interval, err := a.interval(fs)
	if err != nil {
		return err
	}
	totals, err := a.summary.ComputeWindowTotals(ctx, interval, *filter)
	if err != nil {
		return err
	}
	a.out.Totals(totals)
	return nil
}

func (a *App) day(fs *pflag.FlagSet) (time.Time, error) {
	if fs.NArg() > 1 {
		return time.Time{}, appErrors.Validation("expected a single date, got %d arguments", fs.NArg())
	}
	return a.resolver.ParseDay(fs.Arg(0))
}

func (a *App) runShow(ctx context.Context, args []string) error {
	fs := a.newFlagSet("show")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	d, err := a.day(fs)
	if err != nil {
		return err
	}
	flights, err := a.flights.ListDay(ctx, d)
	if err != nil {
		return err
	}
	for _, f := range flights {
		a.out.FlightDetail(f)
	}
	return nil
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	fs := a.newFlagSet("delete")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	d, err := a.day(fs)
	if err != nil {
		return err
	}
	flights, err := a.flights.ListDay(ctx, d)
	if err != nil {
		return err
	}
	if len(flights) == 0 {
		a.out.Println(fmt.Sprintf("no flights on %s", models.NewDate(d).Display()))
		return nil
	}
	for _, f := range flights {
		a.out.FlightDetail(f)
		ok, err := a.confirm("Delete this flight?")
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := a.flights.Delete(ctx, f.ID); err != nil {
			return err
		}
		a.out.Println("deleted")
	}
	return nil
}
