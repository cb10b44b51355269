package models

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// StatRow is one pilot-function line of the statistics table.
type StatRow struct {
	Label   string
	Windows []Totals
}

// Statistics is the per-window summary shown by the stat command.
type Statistics struct {
	Windows []string
	Rows    []StatRow
}
