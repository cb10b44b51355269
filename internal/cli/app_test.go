package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flightlog/pkg/config"
	"github.com/noah-isme/flightlog/pkg/database"
)

type harness struct {
	t   *testing.T
	db  *sqlx.DB
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dir := t.TempDir()
	cfg := &config.Config{
		Airports: config.AirportsConfig{Path: filepath.Join(dir, "airports.db")},
		Export:   config.ExportConfig{Dir: filepath.Join(dir, "exports")},
		Currency: config.CurrencyConfig{WindowDays: 90, MinLandings: 3, GraceDays: 10, ExtraClasses: []string{"UL"}},
	}
	return &harness{t: t, db: db, cfg: cfg}
}

// run executes one command line and returns stdout, stderr and the exit code.
func (h *harness) run(stdin string, args ...string) (string, string, int) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	app := New(h.db, Options{
		Config: h.cfg,
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errOut,
		Now:    func() time.Time { return time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC) },
	})
	defer app.Close() //nolint:errcheck
	code := app.Fail(app.Run(context.Background(), args))
	return out.String(), errOut.String(), code
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, code := h.run("", args...)
	require.Equal(h.t, 0, code, errOut)
	return out
}

func (h *harness) seed() {
	h.mustRun("settings", "set", "default_PIC", "Self")
	h.mustRun("settings", "set", "default_registration", "DEABC")
	h.mustRun("settings", "set", "default_airport", "EDFE")
	h.mustRun("aircraft", "add", "DEABC", "PA28", "SEP")
	h.mustRun("aircraft", "add", "DMXYZ", "C42", "UL")
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("add", "1000", "1010", "1100", "1105", "--date", "01.03.2024", "--destination", "EDFM", "-l", "3")
	assert.Equal(t, "01.03.2024  DEABC  EDFE 10:00  EDFM 11:05  3 Ldg\n", out)
	h.mustRun("add", "12:00", "12:10", "13:00", "13:10", "--date", "01.03.2024", "--flight-instruction", "Miller")
	h.mustRun("add", "0900", "0905", "0950", "1000", "-d", "1", "-a", "DMXYZ", "--pic", "Trainer", "--pilot-function", "Dual")

	out = h.mustRun("ls", "2024", "--pilot-function", "FI")
	assert.Equal(t, "01.03.2024  DEABC  EDFE 12:00  EDFE 13:10  1 Ldg\n", out)

	out = h.mustRun("ls", "d30")
	assert.Equal(t, 3, strings.Count(out, "\n"))

	out = h.mustRun("ls", "03.2024", "--student", "ill", "--long")
	assert.Contains(t, out, "Self(FI) Miller")

	out = h.mustRun("last", "1")
	assert.True(t, strings.HasPrefix(out, "19.03.2024  DMXYZ"), out)

	out = h.mustRun("sum", "01.03.2024")
	assert.Contains(t, out, "Block time: 02:15")
	assert.Contains(t, out, "Landings:    4")

	out = h.mustRun("show", "01.03.2024")
	assert.Contains(t, out, "Student: Miller")
}

func TestAddUserErrors(t *testing.T) {
	h := newHarness(t)
	h.seed()

	_, errOut, code := h.run("", "add", "1000", "1010", "1100", "1105", "-a", "DNONE")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "DNONE")

	_, _, code = h.run("", "add", "1000", "1010", "1100")
	assert.Equal(t, 2, code)

	_, errOut, code = h.run("", "add", "1000", "1010", "1100", "1105", "--pic", "Other")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "pilot function")

	_, _, code = h.run("", "add", "1000", "1010", "1100", "1105", "-d", "1", "--date", "01.03.2024")
	assert.Equal(t, 2, code)

	_, _, code = h.run("", "ls", "32.01.2024")
	assert.Equal(t, 2, code)

	_, _, code = h.run("", "bogus")
	assert.Equal(t, 2, code)

	assert.Empty(t, h.mustRun("ls", "2024"))
}

func TestDeleteAsksPerFlight(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.mustRun("add", "1000", "1010", "1100", "1105", "--date", "01.03.2024")
	h.mustRun("add", "1200", "1210", "1300", "1305", "--date", "01.03.2024")

	out, _, code := h.run("y\nn\n", "delete", "01.03.2024")
	require.Equal(t, 0, code)
	assert.Equal(t, 1, strings.Count(out, "deleted"))

	out = h.mustRun("ls", "01.03.2024")
	assert.Equal(t, "01.03.2024  DEABC  EDFE 12:00  EDFE 13:05  1 Ldg\n", out)
}

func TestCheckAndStat(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.mustRun("add", "1000", "1010", "1100", "1105", "--date", "01.03.2024", "-l", "3")
	h.mustRun("rating", "add", "SEP", "CR", "31.12.2030", "--warning", "m3")
	h.mustRun("rating", "add", "Medical", "OR", "25.03.2024", "-w", "d10")

	out := h.mustRun("check")
	assert.Contains(t, out, "Class Rating SEP:      valid  31.12.2030")
	assert.Contains(t, out, "90 day rule on SEP:      valid  30.05.2024")
	assert.Contains(t, out, "90 day rule on UL:    expired")
	assert.Contains(t, out, "Medical:    warning  25.03.2024")

	out = h.mustRun("check", "--hide-valid", "01.06.2024")
	assert.Contains(t, out, "90 day rule on SEP:    warning  30.05.2024")
	assert.NotContains(t, out, "Class Rating SEP")

	out = h.mustRun("stat", "--long")
	assert.Contains(t, out, "90 days")
	assert.Contains(t, out, "PIC (without FI)")
	assert.Contains(t, out, "All")

	out = h.mustRun()
	assert.Contains(t, out, "PIC (incl. FI)")
	assert.Contains(t, out, "Medical")

	out = h.mustRun("rating", "ls")
	assert.Contains(t, out, "Medical")
	h.mustRun("rating", "set-expiry", "2", "25.03.2025")
	out = h.mustRun("check", "--hide-valid")
	assert.NotContains(t, out, "Medical")

	_, _, code := h.run("", "rating", "add", "Night", "XX", "01.01.2030")
	assert.Equal(t, 2, code)
	_, _, code = h.run("", "rating", "rm", "99")
	assert.Equal(t, 1, code)
}

func TestImportExport(t *testing.T) {
	h := newHarness(t)
	h.seed()

	dir := t.TempDir()
	rows := []string{
		"01.02.24,,DEABC,EDFE,10:00,10:05,EDFM,11:00,10:55,*,,,2,,,,PIC,,,first",
		"02.02.24,,DMXYZ,EDFE,14:00,14:05,EDFE,15:00,14:55,Trainer,*,,1,,,,Dual,,,second",
	}
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte(strings.Join(rows, "\n")+"\n"), 0o644))
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte(rows[0]+"\nnot,a,flight\n"), 0o644))

	_, errOut, code := h.run("", "import", bad)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "row 2")
	assert.Empty(t, h.mustRun("ls", "2024"))

	out := h.mustRun("import", good)
	assert.Equal(t, "2 flight(s) imported\n", out)
	out = h.mustRun("ls", "02.2024", "--long")
	assert.Contains(t, out, "Trainer(Dual) Self")

	out = h.mustRun("export", "02.2024", "--format", "csv")
	path := filepath.Join(h.cfg.Export.Dir, "flights_20240201_20240229.csv")
	assert.Equal(t, "2 flight(s) written to "+path+"\n", out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "02.02.2024,C42,DMXYZ")

	pdf := filepath.Join(dir, "logbook.pdf")
	h.mustRun("export", "2024", "-f", "pdf", "-o", pdf, "--class", "UL")
	info, err := os.Stat(pdf)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestAirports(t *testing.T) {
	h := newHarness(t)
	feed := filepath.Join(t.TempDir(), "airports.csv")
	require.NoError(t, os.WriteFile(feed, []byte(`"id","ident","type","name","latitude_deg","longitude_deg","elevation_ft"
2212,"EDFE","small_airport","Frankfurt-Egelsbach Airport",49.959999,8.645833,384
2213,"EDFM","small_airport","Mannheim City Airport",49.473,8.514,308
`), 0o644))

	out := h.mustRun("airports", "update", "--file", feed)
	assert.Equal(t, "2 airport(s) stored\n", out)

	out = h.mustRun("airports", "search", "mannheim")
	assert.Contains(t, out, "EDFM")
	assert.NotContains(t, out, "EDFE")

	out = h.mustRun("airports", "search", "--id", "mannheim")
	assert.Empty(t, out)
}

func TestSettingsAndAircraftLists(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("settings", "ls")
	assert.Contains(t, out, "default_airport:")
	assert.Contains(t, out, "EDFE")

	_, _, code := h.run("", "settings", "set", "colour", "blue")
	assert.Equal(t, 2, code)

	_, _, code = h.run("", "aircraft", "add", "DEABC", "PA28", "SEP")
	assert.Equal(t, 1, code)

	h.mustRun("aircraft", "rm", "DMXYZ")
	out = h.mustRun("aircraft", "ls")
	assert.Equal(t, 1, strings.Count(out, "\n"))

	out = h.mustRun("help")
	assert.Contains(t, out, "airports")
	out = h.mustRun("ls", "--help")
	assert.Contains(t, out, "--pilot-function")
}
