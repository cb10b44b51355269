package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/cli"
	"github.com/noah-isme/flightlog/pkg/config"
	"github.com/noah-isme/flightlog/pkg/database"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
	"github.com/noah-isme/flightlog/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	flags := pflag.NewFlagSet("flightlog", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "logbook database file")
	flags.StringVar(&cfg.Airports.Path, "airports-db", cfg.Airports.Path, "airport database file")
	noColor := flags.Bool("no-color", false, "disable coloured output")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return appErrors.ExitUsage
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logr.Error("failed to open logbook", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: cannot open logbook: %v\n", err)
		return appErrors.ExitFailure
	}
	defer db.Close() //nolint:errcheck

	app := cli.New(db, cli.Options{
		Config:  cfg,
		Logger:  logr,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Colored: !*noColor && !color.NoColor,
	})
	defer app.Close() //nolint:errcheck

	return app.Fail(app.Run(ctx, flags.Args()))
}
