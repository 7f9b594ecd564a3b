package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
	xerrors "github.com/mrz1836/xrayreport/internal/errors"
)

// Finalize reduces the aggregation state and the run statistics into one
// result per browser, in order of each browser's first context. It does not
// modify the state, so calling it twice on the same input yields equal
// results.
func Finalize(state *State, stats domain.RunStats, opts Options) ([]domain.Result, error) {
	start, err := formatRunTime(stats.Start, opts.Location)
	if err != nil {
		return nil, xerrors.Wrap(err, "run start")
	}
	finish, err := formatRunTime(stats.End, opts.Location)
	if err != nil {
		return nil, xerrors.Wrap(err, "run end")
	}

	browsers, contexts := stats.Runners.Browsers()
	results := make([]domain.Result, 0, len(browsers))
	for _, browser := range browsers {
		tests := make([]domain.TestResult, 0, state.ScenarioCount())
		state.eachScenario(func(sc *scenario) {
			tests = append(tests, buildTestResult(sc, contexts[browser], start, finish, opts))
		})

		result := domain.Result{
			Info: domain.Info{
				Summary:          fmt.Sprintf("Execution of test plan: %s Browser: %s", opts.TestPlanKey, browser),
				StartDate:        start,
				FinishDate:       finish,
				TestPlanKey:      opts.TestPlanKey,
				TestEnvironments: []string{browser},
				Revision:         opts.Revision,
				Version:          opts.Version,
				User:             opts.User,
				Project:          opts.Project,
			},
			Tests: dedupe(tests),
		}
		if opts.LegacyTagKeys {
			result.TestExecutionKey = state.executionKey
		}
		results = append(results, result)
	}

	return results, nil
}

// buildTestResult merges the steps of every context of one browser, in
// context order, into a single test result.
func buildTestResult(sc *scenario, contexts []string, start, finish string, opts Options) domain.TestResult {
	steps := make([]domain.Step, 0)
	for _, cid := range contexts {
		steps = append(steps, sc.steps[cid]...)
	}

	status := constants.StatusPass
	var comment strings.Builder
	for _, step := range steps {
		status = status.Merge(step.Status)
		if step.Status == constants.StatusFail {
			comment.WriteString(step.Comment)
			comment.WriteString(constants.LineBreak)
		}
	}

	key := sc.externalID
	if opts.LegacyTagKeys && sc.tagKey != "" {
		key = sc.tagKey
	}

	return domain.TestResult{
		TestKey:  key,
		Start:    start,
		Finish:   finish,
		Status:   status,
		Steps:    steps,
		Examples: []constants.Status{status},
		Comment:  comment.String(),
	}
}

// dedupe collapses results sharing a test key into the first occurrence.
// A repeat only contributes its status to Examples and its comment to
// Comment; the first occurrence keeps its own status and steps.
func dedupe(tests []domain.TestResult) []domain.TestResult {
	out := make([]domain.TestResult, 0, len(tests))
	index := make(map[string]int, len(tests))
	for _, test := range tests {
		i, seen := index[test.TestKey]
		if !seen {
			index[test.TestKey] = len(out)
			out = append(out, test)
			continue
		}

		kept := &out[i]
		kept.Examples = append(kept.Examples, test.Status)
		kept.Comment = joinComment(kept.Comment, test.Comment)
	}
	return out
}

// joinComment appends a non-empty next to prev after a line break.
func joinComment(prev, next string) string {
	if next == "" {
		return prev
	}
	return prev + constants.LineBreak + next
}

// runTimeLayouts are tried in order when parsing a runner timestamp.
// Fractional seconds are optional in every layout.
//
//nolint:gochecknoglobals // read-only table
var runTimeLayouts = []string{
	constants.InputTimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
}

// ParseRunTime parses a run start or end timestamp. Both "+01:00" and
// "+0100" offsets are accepted, with or without milliseconds.
func ParseRunTime(value string) (time.Time, error) {
	for _, layout := range runTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, xerrors.Wrapf(xerrors.ErrInvalidTimestamp, "%q", value)
}

// formatRunTime parses a runner timestamp and renders it in the report
// layout.
func formatRunTime(value string, loc *time.Location) (string, error) {
	t, err := ParseRunTime(value)
	if err != nil {
		return "", err
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(constants.OutputTimestampLayout), nil
}
