package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/xrayreport/internal/aggregate"
	"github.com/mrz1836/xrayreport/internal/config"
	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
	xerrors "github.com/mrz1836/xrayreport/internal/errors"
	"github.com/mrz1836/xrayreport/internal/eventstream"
	"github.com/mrz1836/xrayreport/internal/report"
	"github.com/mrz1836/xrayreport/internal/signal"
	"github.com/mrz1836/xrayreport/internal/tui"
)

// stdinSource is the --events value that reads the event log from stdin.
const stdinSource = "-"

// ReportFlags holds flags specific to the report command.
type ReportFlags struct {
	// Events is the event log path, or "-" for stdin.
	Events string
	// OutputDir overrides report.output_dir.
	OutputDir string
	// TestPlanKey, Revision, Version, User and Project override the xray
	// metadata.
	TestPlanKey string
	Revision    string
	Version     string
	User        string
	Project     string
	// LegacyTagKeys overrides legacy.tag_keys when the flag is given.
	LegacyTagKeys bool
	// Stdout writes the report to stdout instead of a file.
	Stdout bool
	// Strict aborts on malformed or unknown event lines.
	Strict bool
}

// reportSummary is the -o json output of the report command.
type reportSummary struct {
	Path        string                `json:"path,omitempty"`
	Written     bool                  `json:"written"`
	Warning     string                `json:"warning,omitempty"`
	Browsers    []browserSummary      `json:"browsers"`
	Lines       int                   `json:"lines"`
	Events      int                   `json:"events"`
	Skipped     []eventstream.Skipped `json:"skipped,omitempty"`
	Diagnostics int                   `json:"diagnostics"`
	EndSeen     bool                  `json:"end_seen"`
	ClockTimes  []string              `json:"clock_times,omitempty"`
}

// browserSummary counts the tests of one result.
type browserSummary struct {
	Browser string           `json:"browser"`
	Tests   int              `json:"tests"`
	Passed  int              `json:"passed"`
	Failed  int              `json:"failed"`
	Status  constants.Status `json:"status"`
}

// AddReportCommand adds the report command to the root command.
func AddReportCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newReportCmd(global, &ReportFlags{}))
}

// newReportCmd creates the report command.
func newReportCmd(global *GlobalFlags, flags *ReportFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build Xray reports from a test run event log",
		Long: `Read newline-delimited JSON runner events and write one Xray import
document per browser.

The report is written to <output_dir>/<file_prefix>.<uuid>.json. A missing
output directory or a failed write is reported as a warning and the command
still exits 0, so a reporting problem never fails the test job.

Examples:
  wdio-events | xrayreport report --output-dir reports
  xrayreport report --events run.ndjson --test-plan-key PLAN-7
  xrayreport report --events run.ndjson --stdout > report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), cmd, global, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.Events, "events", stdinSource, "event log file, - for stdin")
	f.StringVar(&flags.OutputDir, "output-dir", "", "directory the report is written to")
	f.StringVar(&flags.TestPlanKey, "test-plan-key", "", "Xray test plan key")
	f.StringVar(&flags.Revision, "revision", "", "revision of the system under test")
	f.StringVar(&flags.Version, "sut-version", "", "version of the system under test")
	f.StringVar(&flags.User, "user", "", "user the execution is reported as")
	f.StringVar(&flags.Project, "project", "", "Xray project key")
	f.BoolVar(&flags.LegacyTagKeys, "legacy-tag-keys", false, "derive test keys from scenario tags")
	f.BoolVar(&flags.Stdout, "stdout", false, "write the report to stdout instead of a file")
	f.BoolVar(&flags.Strict, "strict", false, "fail on malformed or unknown events")

	return cmd
}

// runReport executes the report command.
func runReport(ctx context.Context, cmd *cobra.Command, global *GlobalFlags, flags *ReportFlags) error {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	cfg, err := config.LoadWithOverrides(ctx, flags.overrides())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("legacy-tag-keys") {
		cfg.Legacy.TagKeys = flags.LegacyTagKeys
	}

	loc, err := cfg.Report.Timezone.Location()
	if err != nil {
		return xerrors.Wrap(xerrors.ErrConfigInvalidReport, err.Error())
	}

	src, closeSrc, err := openEvents(flags.Events, cmd.InOrStdin())
	if err != nil {
		return tui.NewActionableError("cannot open event log", "Check the --events path, or pipe events on stdin.").
			WithContext(flags.Events).
			WithCause(err)
	}
	defer closeSrc()

	h := signal.NewHandler(ctx)
	defer h.Stop()

	rep := aggregate.NewReporter(aggregate.Options{
		TestPlanKey:   cfg.Xray.TestPlanKey,
		Revision:      cfg.Xray.Revision,
		Version:       cfg.Xray.Version,
		User:          cfg.Xray.User,
		Project:       cfg.Xray.Project,
		Location:      loc,
		LegacyTagKeys: cfg.Legacy.TagKeys,
	}, logger)

	summary, err := eventstream.Run(h.Context(), src, rep, eventstream.Options{Strict: flags.Strict}, logger)
	if h.Interrupted() {
		return tui.NewActionableError("run interrupted, no report written", "").WithCause(context.Canceled)
	}
	if err != nil {
		return err
	}

	logDiagnostics(logger, rep.Diagnostics())

	// With --stdout the report owns stdout; the summary moves to stderr.
	summaryOut := cmd.OutOrStdout()
	var sink report.Sink = report.NewFileSink(cfg.Report.OutputDir, cfg.Report.FilePrefix, cfg.Report.IndentString())
	if flags.Stdout {
		sink = report.StreamSink{W: cmd.OutOrStdout(), Indent: cfg.Report.IndentString()}
		summaryOut = cmd.ErrOrStderr()
	}

	result := reportSummary{
		Browsers:    summarizeResults(summary.Results),
		Lines:       summary.Lines,
		Events:      summary.Events,
		Skipped:     summary.Skipped,
		Diagnostics: len(rep.Diagnostics()),
		EndSeen:     summary.EndSeen,
		ClockTimes:  summary.ClockTimes,
	}

	path, writeErr := sink.Write(h.Context(), summary.Results)
	if writeErr != nil {
		result.Warning = xerrors.UserMessage(writeErr)
		logger.Warn().Err(writeErr).Str("output_dir", cfg.Report.OutputDir).Msg("report not written")
	} else {
		result.Path = path
		result.Written = true
		logger.Debug().Str("path", path).Int("results", len(summary.Results)).Msg("report written")
	}

	return printReportSummary(tui.NewOutput(summaryOut, global.Output), global.Output, result, writeErr)
}

// overrides turns the flags into config overrides. Empty values keep the
// configured ones.
func (f *ReportFlags) overrides() *config.Config {
	return &config.Config{
		Report: config.ReportConfig{OutputDir: f.OutputDir},
		Xray: config.XrayConfig{
			TestPlanKey: f.TestPlanKey,
			Revision:    f.Revision,
			Version:     f.Version,
			User:        f.User,
			Project:     f.Project,
		},
	}
}

// openEvents opens the event source. The returned func closes it.
func openEvents(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == stdinSource {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path) //nolint:gosec // user-supplied event log
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// logDiagnostics logs every ignored event at debug and the count at info.
func logDiagnostics(logger zerolog.Logger, diagnostics []aggregate.Diagnostic) {
	if len(diagnostics) == 0 {
		return
	}
	for _, d := range diagnostics {
		logger.Debug().
			Str("event", string(d.Event)).
			Str("uid", d.UID).
			Str("parent", d.Parent).
			Str("reason", string(d.Reason)).
			Msg("event ignored")
	}
	logger.Info().Int("count", len(diagnostics)).Msg("events ignored during aggregation")
}

// summarizeResults counts the tests of each result in report order.
func summarizeResults(results []domain.Result) []browserSummary {
	out := make([]browserSummary, 0, len(results))
	for _, r := range results {
		passed, failed := r.Counts()
		status := constants.StatusPass
		if failed > 0 {
			status = constants.StatusFail
		}
		out = append(out, browserSummary{
			Browser: r.Browser(),
			Tests:   len(r.Tests),
			Passed:  passed,
			Failed:  failed,
			Status:  status,
		})
	}
	return out
}

// browserRows renders the summaries as table rows.
func browserRows(browsers []browserSummary) [][]string {
	rows := make([][]string, 0, len(browsers))
	for _, b := range browsers {
		rows = append(rows, []string{
			b.Browser,
			strconv.Itoa(b.Tests),
			strconv.Itoa(b.Passed),
			strconv.Itoa(b.Failed),
			string(b.Status),
		})
	}
	return rows
}

// browserHeaders are the columns of the per-browser summary table.
func browserHeaders() []string {
	return []string{"BROWSER", "TESTS", "PASSED", "FAILED", "STATUS"}
}

// printReportSummary prints the outcome of a report run.
func printReportSummary(out tui.Output, format string, result reportSummary, writeErr error) error {
	if format == OutputJSON {
		return out.JSON(result)
	}

	if len(result.Browsers) == 0 {
		out.Info("No runners reported, the report is empty")
	} else {
		out.Table(browserHeaders(), browserRows(result.Browsers))
	}

	if !result.EndSeen {
		out.Warning("Event log ended without an 'end' event; run times were taken from the clock")
	}
	if len(result.ClockTimes) > 0 {
		out.Warning(fmt.Sprintf("Unreadable run %s time taken from the clock", strings.Join(result.ClockTimes, " and ")))
	}
	if n := len(result.Skipped); n > 0 {
		out.Warning(fmt.Sprintf("%d event line(s) skipped", n))
	}

	if writeErr != nil {
		msg, action := xerrors.Actionable(writeErr)
		out.Warning(msg)
		if action != "" {
			out.Info("Try: " + action)
		}
		return nil
	}

	if result.Path != stdinSource {
		out.Success("Report written to " + result.Path)
	}
	return nil
}
