package cli

import (
	"context"
	"strconv"

	"github.com/noah-isme/flightlog/internal/models"
	"github.com/noah-isme/flightlog/internal/service"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
)

func subcommand(cmd string, args []string, want ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, appErrors.Validation("%s needs a subcommand: %v", cmd, want)
	}
	for _, w := range want {
		if args[0] == w {
			return w, args[1:], nil
		}
	}
	return "", nil, appErrors.Validation("unknown %s subcommand %q, expected one of %v", cmd, args[0], want)
}

func (a *App) runAircraft(ctx context.Context, args []string) error {
	sub, rest, err := subcommand("aircraft", args, "add", "ls", "rm")
	if err != nil {
		return err
	}
	fs := a.newFlagSet("aircraft " + sub)
	if err := a.parse(fs, rest); err != nil {
		return err
	}

	switch sub {
	case "add":
		if fs.NArg() != 3 {
			return appErrors.Validation("aircraft add needs registration, type and class")
		}
		aircraft, err := a.aircraft.Create(ctx, service.CreateAircraftRequest{
			Registration: fs.Arg(0), Type: fs.Arg(1), Class: fs.Arg(2),
		})
		if err != nil {
			return err
		}
		a.out.Aircraft([]models.Aircraft{*aircraft})
	case "ls":
		list, err := a.aircraft.List(ctx)
		if err != nil {
			return err
		}
		a.out.Aircraft(list)
	case "rm":
		if fs.NArg() != 1 {
			return appErrors.Validation("aircraft rm needs a registration")
		}
		return a.aircraft.Delete(ctx, fs.Arg(0))
	}
	return nil
}

func (a *App) runRating(ctx context.Context, args []string) error {
	sub, rest, err := subcommand("rating", args, "add", "ls", "set-expiry", "rm")
	if err != nil {
		return err
	}
	fs := a.newFlagSet("rating " + sub)
	warning := fs.StringP("warning", "w", "", "warning period before expiry, mN months or dN days")
	renewal := fs.String("renewal", "", "renewal conditions")
	if err := a.parse(fs, rest); err != nil {
		return err
	}

	switch sub {
	case "add":
		if fs.NArg() != 3 {
			return appErrors.Validation("rating add needs title, type (CR, OR or O) and expiration date")
		}
		expiration, err := a.resolver.ParseDay(fs.Arg(2))
		if err != nil {
			return err
		}
		rating, err := a.ratings.Create(ctx, service.CreateRatingRequest{
			Title:             fs.Arg(0),
			Type:              models.RatingType(fs.Arg(1)),
			ExpirationDate:    expiration,
			WarningPeriod:     *warning,
			RenewalConditions: *renewal,
		})
		if err != nil {
			return err
		}
		a.out.Ratings([]models.Rating{*rating})
	case "ls":
		list, err := a.ratings.List(ctx)
		if err != nil {
			return err
		}
		a.out.Ratings(list)
	case "set-expiry":
		if fs.NArg() != 2 {
			return appErrors.Validation("rating set-expiry needs an id and a date")
		}
		id, err := ratingID(fs.Arg(0))
		if err != nil {
			return err
		}
		expiration, err := a.resolver.ParseDay(fs.Arg(1))
		if err != nil {
			return err
		}
		rating, err := a.ratings.SetExpiration(ctx, id, expiration)
		if err != nil {
			return err
		}
		a.out.Ratings([]models.Rating{*rating})
	case "rm":
		if fs.NArg() != 1 {
			return appErrors.Validation("rating rm needs an id")
		}
		id, err := ratingID(fs.Arg(0))
		if err != nil {
			return err
		}
		return a.ratings.Delete(ctx, id)
	}
	return nil
}

func ratingID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Validation("rating id %q is not a positive number", raw)
	}
	return id, nil
}

func (a *App) runSettings(ctx context.Context, args []string) error {
	sub, rest, err := subcommand("settings", args, "ls", "set")
	if err != nil {
		return err
	}
	fs := a.newFlagSet("settings " + sub)
	if err := a.parse(fs, rest); err != nil {
		return err
	}

	switch sub {
	case "ls":
		settings, err := a.settings.List(ctx)
		if err != nil {
			return err
		}
		a.out.Settings(settings)
	case "set":
		if fs.NArg() != 2 {
			return appErrors.Validation("settings set needs a key and a value")
		}
		return a.settings.Set(ctx, fs.Arg(0), fs.Arg(1))
	}
	return nil
}
