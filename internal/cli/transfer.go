package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/noah-isme/flightlog/internal/models"
	"github.com/noah-isme/flightlog/internal/service"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

func (a *App) runImport(ctx context.Context, args []string) error {
	fs := a.newFlagSet("import")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return appErrors.Validation("import needs the name of a CSV file")
	}
	file, err := os.Open(fs.Arg(0))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode, "cannot open import file")
	}
	defer file.Close() //nolint:errcheck

	n, err := a.imports.Import(ctx, file)
	if err != nil {
		return err
	}
	a.out.Println(fmt.Sprintf("%d flight(s) imported", n))
	return nil
}

func (a *App) runExport(ctx context.Context, args []string) error {
	fs := a.newFlagSet("export")
	format := fs.StringP("format", "f", string(models.ReportFormatCSV), "output format: csv or pdf")
	output := fs.StringP("output", "o", "", "file name, relative to the export directory unless absolute")
	filter := filterFlags(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	interval, err := a.interval(fs)
	if err != nil {
		return err
	}
	exports, err := a.exportService()
	if err != nil {
		return err
	}
	result, err := exports.Export(ctx, service.ExportRequest{
		Interval: interval,
		Filter:   *filter,
		Format:   models.ReportFormat(*format),
		Filename: *output,
	})
	if err != nil {
		return err
	}
	a.out.Println(fmt.Sprintf("%d flight(s) written to %s", result.Flights, result.Path))
	return nil
}

func (a *App) runAirports(ctx context.Context, args []string) error {
	sub, rest, err := subcommand("airports", args, "search", "update")
	if err != nil {
		return err
	}
	fs := a.newFlagSet("airports " + sub)
	idOnly := fs.Bool("id", false, "match the identifier only")
	file := fs.String("file", "", "read the feed from a local airports.csv instead of downloading it")
	if err := a.parse(fs, rest); err != nil {
		return err
	}
	airports, err := a.airportService(ctx)
	if err != nil {
		return err
	}

	switch sub {
	case "search":
		if fs.NArg() != 1 {
			return appErrors.Validation("airports search needs a search term")
		}
		found, err := airports.Search(ctx, fs.Arg(0), *idOnly)
		if err != nil {
			return err
		}
		a.out.Airports(found)
	case "update":
		var n int
		if *file != "" {
			f, err := os.Open(*file)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.ExitCode, "cannot open airport feed")
			}
			defer f.Close() //nolint:errcheck
			n, err = airports.Refresh(ctx, f)
			if err != nil {
				return err
			}
		} else {
			n, err = airports.Download(ctx)
			if err != nil {
				return err
			}
		}
		a.out.Println(fmt.Sprintf("%d airport(s) stored", n))
	}
	return nil
}
