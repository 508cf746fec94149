package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mol3earth/ofx/internal/config"
	"github.com/mol3earth/ofx/internal/model"
	"github.com/mol3earth/ofx/internal/report"
	"github.com/mol3earth/ofx/internal/spending"
)

const statementFile = "../../testdata/statement.ofx"

var now = time.Date(2020, 7, 11, 0, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type fakeFetcher struct {
	stmt  *model.Statement
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, name string, inst config.Institution, start, end time.Time) (*model.Statement, error) {
	f.calls = append(f.calls, name+" "+inst.URL+" "+start.Format("20060102")+"-"+end.Format("20060102"))
	return f.stmt, f.err
}

func newTestApp(f statementFetcher) *app {
	return &app{clock: spending.FixedClock(now), fetcher: f, log: zerolog.Nop()}
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReport_FromFile(t *testing.T) {
	cfg := writeConfig(t, "report:\n  weekly_goal: \"70\"\n")

	out, err := run(t, newTestApp(nil), "report", "-f", statementFile, "-s", "07/01/2020", "-c", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "All transactions since - Wed, Jul 1, 2020")
	assert.Contains(t, out, "20200701\n\t    0.00 - TOTAL\n")
	assert.Contains(t, out, "20200702\n\t   25.00 - Store A\n\t    0.00 - Refund\n\t   25.00 - TOTAL\n")
	assert.Contains(t, out, "20200703\n\t   10.00 - Store B\n\t   10.00 - TOTAL\n")
	assert.Contains(t, out, "Total:\t   35.00")
	assert.Contains(t, out, "Total Balance: 35.00")
	// ten daily buckets at 10.00 each
	assert.Contains(t, out, "Goal to date: 35.00 of 100.00")
	assert.NotContains(t, out, "Skipped")
}

func TestReport_FlagsOverrideConfig(t *testing.T) {
	cfg := writeConfig(t, "report:\n  weekly_goal: \"70\"\n  increment: monthly\n")

	out, err := run(t, newTestApp(nil), "report", "-f", statementFile, "-s", "07/01/2020", "-c", cfg,
		"--goal", "140", "--increment", "daily")
	require.NoError(t, err)
	assert.Contains(t, out, "Goal to date: 35.00 of 200.00")
}

func TestReport_ScaleGoal(t *testing.T) {
	cfg := writeConfig(t, "report: {}\n")

	out, err := run(t, newTestApp(nil), "report", "-f", statementFile, "-s", "07/01/2020", "-c", cfg,
		"--goal", "70", "--increment", "weekly", "--scale-goal")
	require.NoError(t, err)
	// grid is 20200701 and 20200708; the 07/02 and 07/03 postings fall between them
	assert.Contains(t, out, "Goal to date: 0.00 of 140.00")
	assert.Contains(t, out, "Skipped 3 transaction(s)")
}

func TestReport_Strict(t *testing.T) {
	cfg := writeConfig(t, "report: {}\n")

	_, err := run(t, newTestApp(nil), "report", "-f", statementFile, "-s", "07/01/2020", "-c", cfg,
		"--increment", "weekly", "--strict")
	var anomaly *spending.AnomalyError
	require.ErrorAs(t, err, &anomaly)
	assert.Equal(t, spending.AnomalyOutsideGrid, anomaly.Anomaly.Kind)
}

func TestReport_StrictRejectedRecords(t *testing.T) {
	f := &fakeFetcher{stmt: &model.Statement{
		Rejected: []model.RejectedRecord{{Row: 3, Reason: "bad amount"}},
	}}
	cfg := writeConfig(t, "institutions:\n  card:\n    url: https://ofx.example.com/\n    credit_card: \"4111\"\n")

	_, err := run(t, newTestApp(f), "report", "-i", "card", "-s", "07/01/2020", "-c", cfg, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 3: bad amount")

	out, err := run(t, newTestApp(f), "report", "-i", "card", "-s", "07/01/2020", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Rejected 1 record(s)")
}

func TestReport_FromInstitution(t *testing.T) {
	f := &fakeFetcher{stmt: &model.Statement{
		Transactions: []model.Transaction{
			{ID: "1", PostedAt: time.Date(2020, 7, 4, 12, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("-42.10"), Counterparty: "Hardware"},
		},
		Balance: decimal.RequireFromString("-42.10"),
	}}
	cfg := writeConfig(t, "institutions:\n  card:\n    url: https://ofx.example.com/\n    credit_card: \"4111\"\n")

	out, err := run(t, newTestApp(f), "report", "-i", "card", "-s", "07/01/2020", "-e", "07/10/2020", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"card https://ofx.example.com/ 20200701-20200710"}, f.calls)
	assert.Contains(t, out, "\t   42.10 - Hardware\n")
	assert.Contains(t, out, "Total Balance: 42.10")
}

func TestReport_FetchError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("server unavailable")}
	cfg := writeConfig(t, "institutions:\n  card:\n    url: https://ofx.example.com/\n    credit_card: \"4111\"\n")

	_, err := run(t, newTestApp(f), "report", "-i", "card", "-c", cfg)
	assert.ErrorContains(t, err, "server unavailable")
}

func TestReport_UnknownInstitution(t *testing.T) {
	cfg := writeConfig(t, "institutions:\n  card:\n    url: https://ofx.example.com/\n    credit_card: \"4111\"\n")

	_, err := run(t, newTestApp(&fakeFetcher{}), "report", "-i", "other", "-c", cfg)
	assert.ErrorContains(t, err, `institution "other" not configured`)
}

func TestReport_Errors(t *testing.T) {
	cfg := writeConfig(t, "report: {}\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"report", "-c", cfg}, "one of --institution or --file is required"},
		{"bad increment", []string{"report", "-f", statementFile, "-c", cfg, "--increment", "hourly"}, "invalid increment"},
		{"negative goal", []string{"report", "-f", statementFile, "-c", cfg, "--goal", "-5"}, "must be positive"},
		{"bad start", []string{"report", "-f", statementFile, "-c", cfg, "-s", "2020-07-01"}, "invalid start date"},
		{"missing config", []string{"report", "-f", statementFile, "-c", filepath.Join(t.TempDir(), "nope.yaml")}, "reading config"},
		{"missing file", []string{"report", "-f", "nope.ofx", "-c", cfg}, "nope.ofx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, newTestApp(nil), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReport_InvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "report:\n  increment: fortnightly\n")

	_, err := run(t, newTestApp(nil), "report", "-f", statementFile, "-c", cfg)
	assert.ErrorContains(t, err, "invalid increment")
}

func TestReport_WritesCSVAndChart(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "report: {}\n")
	csvPath := filepath.Join(dir, "spend.csv")
	pngPath := filepath.Join(dir, "trend.png")

	_, err := run(t, newTestApp(nil), "report", "-f", statementFile, "-s", "07/01/2020", "-c", cfg,
		"--csv", csvPath, "-t", pngPath)
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, report.Header, lines[0])
	assert.Contains(t, string(data), "Store A,25.00")

	info, err := os.Stat(pngPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestReport_FormatOverridesExtension(t *testing.T) {
	data, err := os.ReadFile(statementFile)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "download.txt")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	cfg := writeConfig(t, "report: {}\n")

	_, err = run(t, newTestApp(nil), "report", "-f", path, "-s", "07/01/2020", "-c", cfg)
	assert.ErrorContains(t, err, "no parser for download.txt")

	out, err := run(t, newTestApp(nil), "report", "-f", path, "--format", "ofx", "-s", "07/01/2020", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Total:\t   35.00")
}
