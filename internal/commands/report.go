package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mol3earth/ofx/internal/chart"
	"github.com/mol3earth/ofx/internal/config"
	"github.com/mol3earth/ofx/internal/importer"
	"github.com/mol3earth/ofx/internal/model"
	"github.com/mol3earth/ofx/internal/report"
	"github.com/mol3earth/ofx/internal/spending"
)

// flagDateFormat is the mm/dd/yyyy layout accepted by --start and --end.
const flagDateFormat = "01/02/2006"

type reportOptions struct {
	institution string
	file        string
	format      string
	start       string
	end         string
	configPath  string
	goal        string
	increment   string
	trendFile   string
	csvFile     string
	strict      bool
	scaleGoal   bool
}

func newReportCommand(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print spending since a start date and plot it against the weekly goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.institution, "institution", "i", "", "institution nickname from the config file")
	f.StringVarP(&opts.file, "file", "f", "", "read the statement from an OFX/QFX or CSV file instead of the server")
	f.StringVar(&opts.format, "format", "", "statement format for --file: ofx or chase (default: by extension)")
	f.StringVarP(&opts.start, "start", "s", "", "start date mm/dd/yyyy (default: first of the current month)")
	f.StringVarP(&opts.end, "end", "e", "", "statement end date mm/dd/yyyy (default: today)")
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default: user config dir)")
	f.StringVarP(&opts.goal, "goal", "g", "", "weekly spending goal (default from config, else 500.00)")
	f.StringVar(&opts.increment, "increment", "", "bucket size: daily, weekly or monthly")
	f.StringVarP(&opts.trendFile, "trend-file", "t", "", "save the trend chart to this image file")
	f.StringVar(&opts.csvFile, "csv", "", "write line items to this CSV file")
	f.BoolVar(&opts.strict, "strict", false, "fail on any unreadable or out-of-range transaction")
	f.BoolVar(&opts.scaleGoal, "scale-goal", false, "advance the goal line by the full increment width per bucket")

	return cmd
}

func (a *app) runReport(cmd *cobra.Command, opts reportOptions) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	goal, inc, err := reportParams(cfg, opts)
	if err != nil {
		return err
	}

	now := a.clock.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if opts.start != "" {
		if start, err = parseFlagDate("start", opts.start); err != nil {
			return err
		}
	}
	end := now
	if opts.end != "" {
		if end, err = parseFlagDate("end", opts.end); err != nil {
			return err
		}
	}

	stmt, err := a.loadStatement(cmd, cfg, opts, start, end)
	if err != nil {
		return err
	}
	a.log.Debug().Int("transactions", len(stmt.Transactions)).Str("account_type", stmt.AccountType).Msg("statement loaded")

	if len(stmt.Rejected) > 0 {
		if opts.strict {
			return fmt.Errorf("statement has %d unreadable record(s); first: record %d: %s",
				len(stmt.Rejected), stmt.Rejected[0].Row, stmt.Rejected[0].Reason)
		}
		a.log.Warn().Int("count", len(stmt.Rejected)).Msg("unreadable statement records skipped")
	}

	grid, err := spending.BuildGrid(start, inc, a.clock)
	if err != nil {
		return err
	}

	var aggOpts []spending.Option
	if opts.strict {
		aggOpts = append(aggOpts, spending.WithStrict())
	}
	rep, err := spending.NewAggregator(aggOpts...).Aggregate(grid, stmt.Transactions, start)
	if err != nil {
		return err
	}
	if len(rep.Anomalies) > 0 {
		a.log.Warn().Int("count", len(rep.Anomalies)).Msg("transactions left out of totals")
	}

	var trendOpts []spending.TrendOption
	if opts.scaleGoal {
		trendOpts = append(trendOpts, spending.WithScaledGoal())
	}
	points, err := spending.ComputeTrend(rep, goal, trendOpts...)
	if err != nil {
		return err
	}

	report.PrintHeader(out, rep.Since)
	report.Print(out, rep)
	report.PrintBalance(out, stmt.Balance)
	if len(points) > 0 {
		last := points[len(points)-1]
		fmt.Fprintf(out, "Goal to date: %s of %s\n", last.CumulativeSpend.StringFixed(2), last.CumulativeGoal.StringFixed(2))
	}
	report.PrintRejected(out, stmt.Rejected)
	report.PrintAnomalies(out, rep.Anomalies)

	if opts.csvFile != "" {
		if err := writeCSVFile(opts.csvFile, rep); err != nil {
			return err
		}
		a.log.Info().Str("path", opts.csvFile).Msg("wrote CSV")
	}

	if opts.trendFile != "" {
		if err := chart.Render(points, goal, opts.trendFile); err != nil {
			return err
		}
		a.log.Info().Str("path", opts.trendFile).Msg("saved trend chart")
	}

	return nil
}

// loadConfig reads the config file. A missing file at the default location
// yields an empty config; an explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := config.DefaultPath()
		if err != nil {
			return &config.Config{}, nil
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &config.Config{}, nil
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// reportParams resolves goal and increment, flags taking precedence over the config.
func reportParams(cfg *config.Config, opts reportOptions) (decimal.Decimal, spending.Increment, error) {
	eff := *cfg
	if opts.goal != "" {
		eff.Report.WeeklyGoal = opts.goal
	}
	if opts.increment != "" {
		eff.Report.Increment = opts.increment
	}

	goal, err := eff.Goal()
	if err != nil {
		return decimal.Zero, 0, err
	}
	inc, err := eff.Step()
	if err != nil {
		return decimal.Zero, 0, err
	}
	return goal, inc, nil
}

func (a *app) loadStatement(cmd *cobra.Command, cfg *config.Config, opts reportOptions, start, end time.Time) (*model.Statement, error) {
	if opts.file != "" {
		a.log.Debug().Str("path", opts.file).Str("format", opts.format).Msg("reading statement file")
		reg := importer.DefaultRegistry()
		if opts.format != "" {
			return reg.ParseFileAs(opts.file, opts.format)
		}
		return reg.ParseFile(opts.file)
	}
	if opts.institution == "" {
		return nil, errors.New("one of --institution or --file is required")
	}

	inst, err := cfg.Institution(opts.institution)
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("institution", opts.institution).Time("start", start).Time("end", end).Msg("requesting statement")
	return a.fetcher.Fetch(cmd.Context(), opts.institution, inst, start, end)
}

func parseFlagDate(name, value string) (time.Time, error) {
	t, err := time.Parse(flagDateFormat, value)
	if err != nil {
		return time.Time{}, &spending.ValidationError{Field: name + " date", Value: value, Reason: "expected mm/dd/yyyy"}
	}
	return t, nil
}

func writeCSVFile(path string, rep *spending.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV: %w", err)
	}
	if err := report.WriteCSV(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("writing CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing CSV: %w", err)
	}
	return nil
}
