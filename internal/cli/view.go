package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
	"github.com/mrz1836/xrayreport/internal/report"
	"github.com/mrz1836/xrayreport/internal/tui"
)

// ViewFlags holds flags specific to the view command.
type ViewFlags struct {
	// Markdown renders the report as a markdown document.
	Markdown bool
}

// AddViewCommand adds the view command to the root command.
func AddViewCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newViewCmd(global, &ViewFlags{}))
}

// newViewCmd creates the view command.
func newViewCmd(global *GlobalFlags, flags *ViewFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Display a written report",
		Long: `Display a report written by 'xrayreport report'.

Examples:
  xrayreport view reports/WDIO.xray.json.<uuid>.json
  xrayreport view reports/WDIO.xray.json.<uuid>.json --markdown
  xrayreport view reports/WDIO.xray.json.<uuid>.json -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), cmd.OutOrStdout(), args[0], global.Output, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Markdown, "markdown", false, "render the report as markdown")

	return cmd
}

// runView loads the report at path and prints it.
func runView(ctx context.Context, w io.Writer, path, format string, flags *ViewFlags) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	results, err := report.Load(path)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, format)
	switch {
	case format == OutputJSON:
		return out.JSON(results)
	case flags.Markdown:
		rendered, renderErr := tui.RenderMarkdown(w, reportMarkdown(results))
		if renderErr != nil {
			return fmt.Errorf("rendering markdown: %w", renderErr)
		}
		_, err = io.WriteString(w, rendered)
		return err
	}

	if len(results) == 0 {
		out.Info("The report has no results")
		return nil
	}
	for i, r := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		passed, failed := r.Counts()
		out.Info(fmt.Sprintf("%s (%d passed, %d failed)", r.Info.Summary, passed, failed))
		out.Table([]string{"TEST", "STATUS", "EXECUTIONS", "STEPS"}, testRows(r.Tests))
	}
	return nil
}

// testRows renders the tests of one result as table rows.
func testRows(tests []domain.TestResult) [][]string {
	rows := make([][]string, 0, len(tests))
	for _, t := range tests {
		rows = append(rows, []string{
			t.TestKey,
			string(t.Status),
			strconv.Itoa(len(t.Examples)),
			strconv.Itoa(len(t.Steps)),
		})
	}
	return rows
}

// reportMarkdown builds a markdown document with one section per browser.
func reportMarkdown(results []domain.Result) string {
	title := cases.Title(language.English)
	var sb strings.Builder

	if len(results) == 0 {
		sb.WriteString("# Empty report\n\nNo runners were reported.\n")
		return sb.String()
	}

	for _, r := range results {
		fmt.Fprintf(&sb, "# %s\n\n", r.Browser())
		fmt.Fprintf(&sb, "%s\n\n", r.Info.Summary)
		fmt.Fprintf(&sb, "- **Start:** %s\n- **Finish:** %s\n", r.Info.StartDate, r.Info.FinishDate)
		if r.TestExecutionKey != "" {
			fmt.Fprintf(&sb, "- **Test execution:** %s\n", r.TestExecutionKey)
		}
		sb.WriteString("\n| Test | Status | Executions | Steps |\n|---|---|---|---|\n")
		for _, t := range r.Tests {
			fmt.Fprintf(&sb, "| %s | %s %s | %d | %d |\n",
				t.TestKey, tui.StatusIcon(t.Status), title.String(strings.ToLower(string(t.Status))),
				len(t.Examples), len(t.Steps))
		}

		failures := failedTests(r.Tests)
		if len(failures) > 0 {
			sb.WriteString("\n## Failures\n\n")
			for _, t := range failures {
				fmt.Fprintf(&sb, "### %s\n\n```\n%s\n```\n\n", t.TestKey, strings.TrimRight(t.Comment, constants.LineBreak))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// failedTests returns the failing tests in report order.
func failedTests(tests []domain.TestResult) []domain.TestResult {
	var out []domain.TestResult
	for _, t := range tests {
		if t.Status == constants.StatusFail {
			out = append(out, t)
		}
	}
	return out
}
