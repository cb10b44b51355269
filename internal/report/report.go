// Package report renders logbook data as coloured terminal text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/noah-isme/flightlog/internal/models"
	"github.com/noah-isme/flightlog/internal/timeofday"
)

// Printer writes formatted output to w.
type Printer struct {
	w       io.Writer
	label   *color.Color
	valid   *color.Color
	warning *color.Color
	expired *color.Color
	failure *color.Color
}

// New returns a Printer. Colour escapes are emitted only when colored is set.
func New(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:       w,
		label:   color.New(color.FgGreen),
		valid:   color.New(color.FgHiBlue),
		warning: color.New(color.FgHiYellow),
		expired: color.New(color.FgHiRed),
		failure: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.label, p.valid, p.warning, p.expired, p.failure} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...) //nolint:errcheck
}

// Println writes a plain line.
func (p *Printer) Println(args ...interface{}) {
	fmt.Fprintln(p.w, args...) //nolint:errcheck
}

// Error writes err as a highlighted line.
func (p *Printer) Error(err error) {
	p.printf("%s\n", p.failure.Sprint("error: "+err.Error()))
}

// Flights writes one line per flight. The long form adds type, takeoff and
// landing times, separate landing counts and crew.
func (p *Printer) Flights(flights []models.Flight, long bool) {
	for _, f := range flights {
		if !long {
			p.printf("%-11s%6s  %4s %4s  %4s %4s %2d Ldg\n",
				f.FlightDate.Display(), f.Registration,
				f.DepartureID, f.OffBlock, f.DestinationID, f.OnBlock, f.Landings())
			continue
		}
		p.printf("%-11s%6s %5s %4s %4s %4s  %4s %4s %4s %2s/%2s Ldg(day/night)  %s(%s) %s %s\n",
			f.FlightDate.Display(), f.Type, f.Registration,
			f.DepartureID, f.OffBlock, f.StartTime,
			f.DestinationID, f.LandingTime, f.OnBlock,
			count(f.LandingsDay), count(f.LandingsNight),
			f.PICName, f.PilotFunction, f.StudentName, f.Guests)
	}
}

// FlightDetail writes every field of f as a labelled block.
func (p *Printer) FlightDetail(f models.Flight) {
	block := ""
	if d, err := timeofday.ElapsedString(f.OffBlock, f.OnBlock); err == nil {
		block = timeofday.FormatDuration(d)
	}
	p.Println()
	p.field(15, "Date:", f.FlightDate.Display())
	p.Println()
	p.field(15, "Aircraft type:", fmt.Sprintf("%-10s", f.Type))
	p.field(7, "Class:", f.FlightTimeClass)
	p.Println()
	p.field(15, "Registration:", f.Registration)
	p.Println()
	p.field(15, "Departed at:", fmt.Sprintf("%-7s", f.DepartureID))
	p.field(12, "Off-block:", fmt.Sprintf("%-7s", f.OffBlock))
	p.field(12, "Takeoff:", f.StartTime)
	p.Println()
	p.field(15, "Landed at:", fmt.Sprintf("%-7s", f.DestinationID))
	p.field(12, "Landing:", fmt.Sprintf("%-7s", f.LandingTime))
	p.field(12, "On-block:", f.OnBlock)
	p.Println()
	p.field(15, "Block time:", fmt.Sprintf("%-7s", block))
	p.field(7, "IFR:", fmt.Sprintf("%-7s", f.FlightTimeIFR))
	p.field(7, "night:", f.FlightTimeNight)
	p.Println()
	p.field(15, "Landings day:", fmt.Sprintf("%2s ", count(f.LandingsDay)))
	p.field(7, "night:", count(f.LandingsNight))
	p.Println()
	p.field(15, "PIC:", f.PICName)
	p.Println()
	p.field(15, "Logging as:", f.PilotFunction)
	if f.PilotFunction == models.PilotFunctionFI {
		p.field(12, "Student:", f.StudentName)
	}
	p.Println()
	p.field(15, "Guests:", f.Guests)
	p.Println()
	p.field(15, "Remarks:", f.Remarks)
	p.Println()
}

func (p *Printer) field(width int, label, value string) {
	p.printf("%s%s", p.label.Sprintf("%*s ", width, label), value)
}

// Totals writes the sums of a flight selection.
func (p *Printer) Totals(t models.Totals) {
	p.field(0, "Block time:", timeofday.FormatDuration(t.Block))
	p.field(0, "   night:", timeofday.FormatDuration(t.Night))
	p.field(0, "   IFR:", timeofday.FormatDuration(t.IFR))
	p.Println()
	p.field(0, "Flight time:", timeofday.FormatDuration(t.Flight))
	p.Println()
	p.field(0, "Flights:", fmt.Sprintf("%4d", t.Flights))
	p.field(0, "  Landings:", fmt.Sprintf("%4d", t.Landings()))
	p.field(0, "  day:", fmt.Sprintf("%4d", t.LandingsDay))
	p.field(0, "  night:", fmt.Sprintf("%4d", t.LandingsNight))
	p.Println()
}

// Statistics writes landings and block time per pilot function and window.
func (p *Printer) Statistics(s *models.Statistics) {
	var head, sub strings.Builder
	head.WriteString(fmt.Sprintf("%18s", ""))
	sub.WriteString(fmt.Sprintf("%18s", ""))
	for _, w := range s.Windows {
		head.WriteString(center(w, 16) + "  ")
		sub.WriteString(center("Ldg", 8) + center("Time", 8) + "  ")
	}
	p.printf("%s\n%s\n", p.label.Sprint(strings.TrimRight(head.String(), " ")), p.label.Sprint(strings.TrimRight(sub.String(), " ")))
	for _, row := range s.Rows {
		line := p.label.Sprintf("%-18s", row.Label)
		for _, t := range row.Windows {
			line += fmt.Sprintf("  %3d     %s ", t.Landings(), timeofday.FormatDuration(t.Block))
		}
		p.printf("%s\n", strings.TrimRight(line, " "))
	}
}

// CheckOptions tunes the currency report.
type CheckOptions struct {
	HideValid  bool
	WindowDays int
}

// Checks writes one line per currency result.
func (p *Printer) Checks(results []models.CheckResult, opts CheckOptions) {
	for _, r := range results {
		if opts.HideValid && r.Status == models.StatusValid {
			continue
		}
		p.printf("%s%s\n", p.label.Sprintf("%20s: ", checkTitle(r, opts.WindowDays)), p.status(r))
	}
}

func checkTitle(r models.CheckResult, windowDays int) string {
	switch {
	case r.Kind == models.CheckRollingLandings:
		return fmt.Sprintf("%d day rule on %s", windowDays, r.Title)
	case r.RatingType == models.RatingTypeClass:
		return "Class Rating " + r.Title
	default:
		return r.Title
	}
}

func (p *Printer) status(r models.CheckResult) string {
	until := ""
	if !r.Until.IsZero() {
		until = "  " + r.Until.Display()
	}
	text := fmt.Sprintf("%10s%s", r.Status, until)
	switch r.Status {
	case models.StatusValid:
		return p.valid.Sprint(text)
	case models.StatusWarning:
		return p.warning.Sprint(text)
	default:
		return p.expired.Sprint(text)
	}
}

// Airports writes search results.
func (p *Printer) Airports(airports []models.Airport) {
	for _, a := range airports {
		p.printf("%s %s  (%s, %s, %s ft)\n", p.label.Sprintf("%-8s", a.ICAOID), a.Name, a.Lat, a.Long, a.Elev)
	}
}

// Aircraft writes the aircraft register.
func (p *Printer) Aircraft(aircraft []models.Aircraft) {
	for _, a := range aircraft {
		p.printf("%s %-10s %s\n", p.label.Sprintf("%-8s", a.Registration), a.Type, a.Class)
	}
}

// Ratings writes stored ratings with their ids.
func (p *Printer) Ratings(ratings []models.Rating) {
	for _, r := range ratings {
		p.printf("%s %-2s %-20s %s %4s  %s\n", p.label.Sprintf("%4d", r.ID), r.Type, r.Title,
			r.ExpirationDate.Display(), r.WarningPeriod, r.RenewalConditions)
	}
}

// Settings writes key/value pairs.
func (p *Printer) Settings(settings []models.Setting) {
	for _, s := range settings {
		p.printf("%s %s\n", p.label.Sprintf("%-22s", s.Key+":"), s.Value)
	}
}

func count(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
