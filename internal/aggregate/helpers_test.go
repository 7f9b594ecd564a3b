package aggregate

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func tags(names ...string) []domain.Tag {
	out := make([]domain.Tag, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Tag{Name: n})
	}
	return out
}

func newTestReporter(t *testing.T, opts Options) *Reporter {
	t.Helper()
	return NewReporter(opts, zerolog.Nop())
}

func feature(uid, file string, tagNames ...string) domain.SuiteStart {
	return domain.SuiteStart{UID: uid, File: file, Tags: tags(tagNames...)}
}

func scenarioStart(uid, parent, file string, tagNames ...string) domain.SuiteStart {
	return domain.SuiteStart{UID: uid, Parent: strPtr(parent), File: file, Tags: tags(tagNames...)}
}

func pass(r *Reporter, parent, cid, title string) {
	r.HandleTestOutcome(constants.EventTestPass, domain.TestOutcome{Parent: parent, CID: cid, Title: title})
}

func fail(r *Reporter, parent, cid, title, message string) {
	r.HandleTestOutcome(constants.EventTestFail, domain.TestOutcome{
		Parent: parent, CID: cid, Title: title,
		Err: &domain.TestError{Message: message},
	})
}

func stats(runners ...domain.Runner) domain.RunStats {
	return domain.RunStats{
		Start:   "2024-03-01T10:00:00.000+00:00",
		End:     "2024-03-01T10:05:30.250+00:00",
		Runners: runners,
	}
}

func runner(cid, caps string) domain.Runner {
	return domain.Runner{CID: cid, SanitizedCapabilities: caps}
}

func singleResult(t *testing.T, results []domain.Result) domain.Result {
	t.Helper()
	require.Len(t, results, 1)
	return results[0]
}
