package cli

import (
	"context"

	"github.com/noah-isme/flightlog/internal/report"
)

func (a *App) runStat(ctx context.Context, args []string) error {
	fs := a.newFlagSet("stat")
	long := fs.BoolP("long", "l", false, "add Dual and All rows")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	stats, err := a.summary.Statistics(ctx, a.resolver.Today(), *long)
	if err != nil {
		return err
	}
	a.out.Statistics(stats)
	a.out.Println()
	return nil
}

func (a *App) runCheck(ctx context.Context, args []string) error {
	fs := a.newFlagSet("check")
	hideValid := fs.Bool("hide-valid", false, "show only warnings and expired items")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	d, err := a.day(fs)
	if err != nil {
		return err
	}
	results, err := a.currency.Check(ctx, d)
	if err != nil {
		return err
	}
	a.out.Checks(results, report.CheckOptions{HideValid: *hideValid, WindowDays: a.currency.WindowDays()})
	return nil
}
