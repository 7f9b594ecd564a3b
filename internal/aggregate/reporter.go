package aggregate

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
	xerrors "github.com/mrz1836/xrayreport/internal/errors"
)

// Options holds the report metadata and the behavior switches of a run.
type Options struct {
	// TestPlanKey is embedded in every result's summary and info.
	TestPlanKey string

	// Revision, Version, User and Project are copied into the result info
	// when non-empty and omitted otherwise.
	Revision string
	Version  string
	User     string
	Project  string

	// Location converts the run timestamps before formatting. Nil keeps the
	// offset the runner reported.
	Location *time.Location

	// LegacyTagKeys enables tag-derived test keys and the test execution key.
	LegacyTagKeys bool
}

// Reporter receives runner events, keeps the aggregation state and produces
// the report once the run ends. It composes the event handlers with the
// state rather than being an event emitter itself; an adapter subscribed to
// the runner calls its methods.
type Reporter struct {
	state       *State
	opts        Options
	logger      zerolog.Logger
	diagnostics []Diagnostic
	results     []domain.Result
	finalized   bool
}

// NewReporter returns a Reporter with empty state.
func NewReporter(opts Options, logger zerolog.Logger) *Reporter {
	return &Reporter{
		state:  NewState(),
		opts:   opts,
		logger: logger.With().Str("component", "aggregate").Logger(),
	}
}

// State returns the aggregation state. Callers must not mutate it while the
// reporter is receiving events.
func (r *Reporter) State() *State {
	return r.state
}

// Diagnostics returns the ignored events in arrival order.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Finalized reports whether End has completed.
func (r *Reporter) Finalized() bool {
	return r.finalized
}

// End finalizes the run with its statistics and keeps the results. It runs
// at most once; later calls return ErrAlreadyFinalized and leave the stored
// results untouched. A finalization error leaves the reporter open so the
// caller may retry with corrected statistics.
func (r *Reporter) End(stats domain.RunStats) ([]domain.Result, error) {
	if r.finalized {
		return nil, xerrors.ErrAlreadyFinalized
	}

	results, err := Finalize(r.state, stats, r.opts)
	if err != nil {
		return nil, err
	}

	r.results = results
	r.finalized = true

	r.logger.Debug().
		Int("browsers", len(results)).
		Int("suites", r.state.SuiteCount()).
		Int("scenarios", r.state.ScenarioCount()).
		Int("steps", r.state.StepCount()).
		Int("ignored_events", len(r.diagnostics)).
		Msg("run finalized")

	return results, nil
}

// Results returns the results produced by End.
func (r *Reporter) Results() ([]domain.Result, error) {
	if !r.finalized {
		return nil, xerrors.ErrNotFinalized
	}
	return r.results, nil
}

// diagnose records an ignored event.
func (r *Reporter) diagnose(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
	r.logger.Debug().
		Str("event", string(d.Event)).
		Str("uid", d.UID).
		Str("parent", d.Parent).
		Str("reason", string(d.Reason)).
		Msg("event ignored")
}

// ignoreAfterEnd records events arriving after finalization.
func (r *Reporter) ignoreAfterEnd(kind constants.EventKind, uid, parent string) bool {
	if !r.finalized {
		return false
	}
	r.diagnose(Diagnostic{Event: kind, UID: uid, Parent: parent, Reason: ReasonAfterEnd})
	return true
}
