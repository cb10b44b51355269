// Package cli maps command lines onto the logbook services.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/dateexpr"
	"github.com/noah-isme/flightlog/internal/report"
	"github.com/noah-isme/flightlog/internal/repository"
	"github.com/noah-isme/flightlog/internal/service"
	"github.com/noah-isme/flightlog/pkg/config"
	"github.com/noah-isme/flightlog/pkg/database"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
	"github.com/noah-isme/flightlog/pkg/storage"
)

// Options wires an App to its environment.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Now defaults to time.Now.
	Now     func() time.Time
	Colored bool
}

type command struct {
	summary string
	run     func(ctx context.Context, args []string) error
}

// App holds one logbook session: the open stores and the services on top.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	in       *bufio.Reader
	out      *report.Printer
	errOut   *report.Printer
	now      func() time.Time
	resolver *dateexpr.Resolver

	db         *sqlx.DB
	airportsDB *sqlx.DB

	flights  *service.FlightService
	summary  *service.SummaryService
	currency *service.CurrencyService
	aircraft *service.AircraftService
	ratings  *service.RatingService
	settings *service.SettingsService
	imports  *service.ImportService
	airports *service.AirportService

	commands map[string]command
}

// New builds an App on an open logbook store.
func New(db *sqlx.DB, opts Options) *App {
	if opts.Config == nil {
		opts.Config = &config.Config{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Stdin == nil {
		opts.Stdin = strings.NewReader("")
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	validate := validator.New()
	flightRepo := repository.NewFlightRepository(db)
	aircraftRepo := repository.NewAircraftRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	a := &App{
		cfg:      opts.Config,
		logger:   opts.Logger,
		in:       bufio.NewReader(opts.Stdin),
		out:      report.New(opts.Stdout, opts.Colored),
		errOut:   report.New(opts.Stderr, opts.Colored),
		now:      opts.Now,
		resolver: &dateexpr.Resolver{Now: opts.Now},
		db:       db,
	}
	a.settings = service.NewSettingsService(settingsRepo, a.logger)
	a.aircraft = service.NewAircraftService(aircraftRepo, validate, a.logger)
	a.ratings = service.NewRatingService(ratingRepo, validate, a.logger)
	a.flights = service.NewFlightService(flightRepo, a.aircraft, a.settings, validate, a.logger)
	a.summary = service.NewSummaryService(flightRepo, a.logger)
	a.currency = service.NewCurrencyService(flightRepo, ratingRepo, service.CurrencyConfig{
		WindowDays:   a.cfg.Currency.WindowDays,
		MinLandings:  a.cfg.Currency.MinLandings,
		GraceDays:    a.cfg.Currency.GraceDays,
		ExtraClasses: a.cfg.Currency.ExtraClasses,
	}, a.logger).WithClock(opts.Now)
	a.imports = service.NewImportService(a.flights, a.settings, a.logger)

	a.commands = map[string]command{
		"add":      {"record a flight", a.runAdd},
		"last":     {"list the most recent flights", a.runLast},
		"ls":       {"list flights of a date range", a.runList},
		"show":     {"show every field of the flights of one day", a.runShow},
		"delete":   {"delete flights of one day after confirmation", a.runDelete},
		"sum":      {"sum times and landings of a date range", a.runSum},
		"stat":     {"totals per pilot function for the standard periods", a.runStat},
		"check":    {"check licences, ratings and landing currency", a.runCheck},
		"aircraft": {"manage aircraft: add, ls, rm", a.runAircraft},
		"rating":   {"manage ratings: add, ls, set-expiry, rm", a.runRating},
		"settings": {"manage entry defaults: ls, set", a.runSettings},
		"import":   {"import flights from a CSV file", a.runImport},
		"export":   {"export flights of a date range to CSV or PDF", a.runExport},
		"airports": {"search or update the airport table", a.runAirports},
	}
	return a
}

// Close releases the airport store if a command opened it.
func (a *App) Close() error {
	if a.airportsDB != nil {
		return a.airportsDB.Close()
	}
	return nil
}

// Run executes one command line. Without a command it prints the status
// overview of stat and check.
func (a *App) Run(ctx context.Context, args []string) error {
	if err := a.settings.EnsureDefaults(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		if err := a.runStat(ctx, nil); err != nil {
			return err
		}
		return a.runCheck(ctx, []string{"--hide-valid"})
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		a.usage()
		return nil
	}
	cmd, ok := a.commands[name]
	if !ok {
		a.usage()
		return appErrors.Validation("unknown command %q", name)
	}
	a.logger.Debug("run command", zap.String("command", name), zap.Strings("args", args[1:]))
	if err := cmd.run(ctx, args[1:]); !errors.Is(err, errHelpShown) {
		return err
	}
	return nil
}

// Fail reports err on stderr and returns the process exit code.
func (a *App) Fail(err error) int {
	if err == nil {
		return 0
	}
	appErr := appErrors.FromError(err)
	if appErr.Code == appErrors.ErrInternal.Code {
		a.logger.Error("command failed", zap.Error(err))
	}
	a.errOut.Error(err)
	return appErr.ExitCode
}

func (a *App) usage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	a.out.Println("usage: flightlog [--db file] [--no-color] <command> [args]")
	a.out.Println()
	for _, name := range names {
		a.out.Println(fmt.Sprintf("  %-10s %s", name, a.commands[name].summary))
	}
}

func (a *App) airportService(ctx context.Context) (*service.AirportService, error) {
	if a.airports != nil {
		return a.airports, nil
	}
	db, err := database.OpenAirports(ctx, a.cfg.Airports.Path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to open airport store")
	}
	a.airportsDB = db
	a.airports = service.NewAirportService(repository.NewAirportRepository(db), service.AirportFeedConfig{
		URL:     a.cfg.Airports.FeedURL,
		Timeout: a.cfg.Airports.FeedTimeout,
	}, a.logger)
	return a.airports, nil
}

func (a *App) exportService() (*service.ExportService, error) {
	store, err := storage.NewLocalStorage(a.cfg.Export.Dir)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to prepare export directory")
	}
	return service.NewExportService(repository.NewFlightRepository(a.db), store, a.logger, nil, nil), nil
}

// newFlagSet returns a flag set whose parse errors are reported as usage errors.
func (a *App) newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

// errHelpShown ends a command after its flag help was printed.
var errHelpShown = errors.New("help shown")

func (a *App) parse(fs *pflag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		a.out.Println("usage of " + fs.Name() + ":")
		a.out.Println(strings.TrimRight(fs.FlagUsages(), "\n"))
		return errHelpShown
	}
	if err != nil {
		return appErrors.Validation("%s: %v", fs.Name(), err)
	}
	return nil
}

// confirm asks a yes/no question; anything but y or yes is no.
func (a *App) confirm(question string) (bool, error) {
	a.out.Println(question + " [y/N]")
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to read answer")
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
