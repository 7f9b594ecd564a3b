package aggregate

import (
	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
)

// HandleSuiteStart registers the feature or scenario opened by a
// suite:start event. It never fails: events with an empty identifier,
// repeated UIDs and repeated features are ignored.
func (r *Reporter) HandleSuiteStart(e domain.SuiteStart) {
	if r.ignoreAfterEnd(constants.EventSuiteStart, e.UID, e.ParentUID()) {
		return
	}

	externalID := e.ExternalID()
	if externalID == "" {
		r.diagnose(Diagnostic{Event: constants.EventSuiteStart, UID: e.UID, Parent: e.ParentUID(), Reason: ReasonEmptyIdentifier})
		return
	}

	// Every runner context replays the same UIDs; the first one wins.
	if r.state.has(e.UID) {
		return
	}

	if e.IsFeature() {
		r.startFeature(e, externalID)
		return
	}
	r.startScenario(e, externalID)
}

// startFeature registers a suite unless one with the same external id
// exists. The UID of a repeated feature stays unregistered, so scenarios
// opened under it are orphaned.
func (r *Reporter) startFeature(e domain.SuiteStart, externalID string) {
	if r.state.featureRegistered(externalID) {
		r.diagnose(Diagnostic{Event: constants.EventSuiteStart, UID: e.UID, Reason: ReasonDuplicateFeature})
		return
	}

	st := &suite{externalID: externalID, tags: e.Tags}
	r.state.addSuite(e.UID, st)
	if len(e.Tags) > 0 {
		r.state.executionKey = e.Tags[0].Key()
	}
}

// startScenario registers a scenario and appends it to its parent suite.
// An unresolved parent still registers the scenario, but nothing reaches
// it from the report.
func (r *Reporter) startScenario(e domain.SuiteStart, externalID string) {
	sc := &scenario{
		externalID: externalID,
		steps:      make(map[string][]domain.Step),
	}

	parent, ok := r.state.suite(e.ParentUID())
	if !ok {
		r.diagnose(Diagnostic{Event: constants.EventSuiteStart, UID: e.UID, Parent: e.ParentUID(), Reason: ReasonOrphanScenario})
	} else {
		sc.parentUID = e.ParentUID()
		// Scenario tags start with the inherited feature tags; the first
		// one after them names the test.
		if i := len(parent.tags); i < len(e.Tags) {
			sc.tagKey = e.Tags[i].Key()
		}
	}

	r.state.addScenario(e.UID, sc)
}

// HandleTestOutcome appends a step to the owning scenario under the event's
// execution context. Unknown parents are ignored.
func (r *Reporter) HandleTestOutcome(kind constants.EventKind, e domain.TestOutcome) {
	if r.ignoreAfterEnd(kind, "", e.Parent) {
		return
	}

	sc, ok := r.state.scenario(e.Parent)
	if !ok {
		reason := ReasonUnknownParent
		if _, isSuite := r.state.suite(e.Parent); isSuite {
			reason = ReasonParentNotTest
		}
		r.diagnose(Diagnostic{Event: kind, Parent: e.Parent, Reason: reason})
		return
	}

	status := kind.Status()
	sc.steps[e.CID] = append(sc.steps[e.CID], domain.Step{
		Status:  status,
		Comment: e.Comment(status),
	})
}
