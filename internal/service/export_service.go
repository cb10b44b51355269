package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/flightlog/internal/dateexpr"
	"github.com/noah-isme/flightlog/internal/models"
	"github.com/noah-isme/flightlog/internal/timeofday"
	appErrors "github.com/noah-isme/flightlog/pkg/errors"
	"github.com/noah-isme/flightlog/pkg/export"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportRequest selects the flights and the output of an export.
type ExportRequest struct {
	Interval models.Interval
	Filter   models.FlightFilter
	Format   models.ReportFormat
	// Filename overrides the generated name.
	Filename string
}

// ExportResult describes a written export.
type ExportResult struct {
	Path    string
	Format  models.ReportFormat
	Flights int
}

var exportHeaders = []string{
	"Date", "Type", "Registration", "From", "Off-block", "Takeoff", "To", "Landing", "On-block",
	"Block", "Flight", "Ldg Day", "Ldg Night", "PIC", "Function", "Night", "IFR", "Class",
	"Student", "Guests", "Remarks",
}

// ExportService renders flight lists to files.
type ExportService struct {
	flights flightFinder
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(flights flightFinder, storage fileStorage, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		flights: flights,
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
	}
}

// Export writes the flights selected by req, followed by a totals line.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if req.Format == "" {
		req.Format = models.ReportFormatCSV
	}
	if req.Format != models.ReportFormatCSV && req.Format != models.ReportFormatPDF {
		return nil, appErrors.Validation("unsupported export format %q", req.Format)
	}

	flights, err := s.flights.Find(ctx, req.Interval, req.Filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to load flights")
	}
	totals, err := Aggregate(flights)
	if err != nil {
		return nil, err
	}
	dataset, err := buildDataset(flights, totals)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch req.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, exportTitle(req.Interval))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to render export")
	}

	filename := req.Filename
	if filename == "" {
		filename = exportFilename(req.Interval, req.Format)
	}
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.ExitCode, "failed to write export")
	}

	s.logger.Info("export written",
		zap.String("path", path),
		zap.String("format", string(req.Format)),
		zap.Int("flights", len(flights)),
	)
	return &ExportResult{Path: path, Format: req.Format, Flights: len(flights)}, nil
}

func buildDataset(flights []models.Flight, totals models.Totals) (export.Dataset, error) {
	rows := make([]map[string]string, 0, len(flights))
	for i := range flights {
		f := &flights[i]
		block, err := timeofday.ElapsedString(f.OffBlock, f.OnBlock)
		if err != nil {
			return export.Dataset{}, corruptFlight(f, "block times", err)
		}
		airborne, err := timeofday.ElapsedString(f.StartTime, f.LandingTime)
		if err != nil {
			return export.Dataset{}, corruptFlight(f, "takeoff/landing times", err)
		}
		rows = append(rows, map[string]string{
			"Date":         f.FlightDate.Display(),
			"Type":         f.Type,
			"Registration": f.Registration,
			"From":         f.DepartureID,
			"Off-block":    f.OffBlock,
			"Takeoff":      f.StartTime,
			"To":           f.DestinationID,
			"Landing":      f.LandingTime,
			"On-block":     f.OnBlock,
			"Block":        timeofday.FormatDuration(block),
			"Flight":       timeofday.FormatDuration(airborne),
			"Ldg Day":      optionalInt(f.LandingsDay),
			"Ldg Night":    optionalInt(f.LandingsNight),
			"PIC":          f.PICName,
			"Function":     f.PilotFunction,
			"Night":        f.FlightTimeNight,
			"IFR":          f.FlightTimeIFR,
			"Class":        f.FlightTimeClass,
			"Student":      f.StudentName,
			"Guests":       f.Guests,
			"Remarks":      f.Remarks,
		})
	}
	footer := map[string]string{
		"Date":      fmt.Sprintf("%d flights", totals.Flights),
		"Block":     timeofday.FormatDuration(totals.Block),
		"Flight":    timeofday.FormatDuration(totals.Flight),
		"Ldg Day":   strconv.Itoa(totals.LandingsDay),
		"Ldg Night": strconv.Itoa(totals.LandingsNight),
		"Night":     timeofday.FormatDuration(totals.Night),
		"IFR":       timeofday.FormatDuration(totals.IFR),
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows, Footer: footer}, nil
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func exportTitle(interval models.Interval) string {
	last := dateexpr.AddDays(interval.End, -1)
	return fmt.Sprintf("Flights %s - %s", models.NewDate(interval.Start).Display(), models.NewDate(last).Display())
}

func exportFilename(interval models.Interval, format models.ReportFormat) string {
	last := dateexpr.AddDays(interval.End, -1)
	return fmt.Sprintf("flights_%s_%s.%s",
		interval.Start.Format("20060102"), last.Format("20060102"), format)
}
