package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
	xerrors "github.com/mrz1836/xrayreport/internal/errors"
)

func TestReporter_EndRunsOnce(t *testing.T) {
	t.Parallel()

	r := newTestReporter(t, Options{TestPlanKey: "P"})
	r.HandleSuiteStart(feature("f1", "A.feature"))
	r.HandleSuiteStart(scenarioStart("s1", "f1", "A-1.feature"))
	pass(r, "s1", "0-0", "step")

	first, err := r.End(stats(runner("0-0", "chrome")))
	require.NoError(t, err)
	assert.True(t, r.Finalized())

	_, err = r.End(stats(runner("0-0", "chrome"), runner("0-1", "firefox")))
	require.ErrorIs(t, err, xerrors.ErrAlreadyFinalized)

	stored, err := r.Results()
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestReporter_ResultsBeforeEnd(t *testing.T) {
	t.Parallel()

	r := newTestReporter(t, Options{})
	_, err := r.Results()
	require.ErrorIs(t, err, xerrors.ErrNotFinalized)
}

func TestReporter_FailedEndCanBeRetried(t *testing.T) {
	t.Parallel()

	r := newTestReporter(t, Options{})
	_, err := r.End(domain.RunStats{Start: "bad", End: "bad"})
	require.Error(t, err)
	assert.False(t, r.Finalized())

	_, err = r.End(stats(runner("0-0", "chrome")))
	require.NoError(t, err)
}

func TestReporter_DiagnosticsReturnsCopy(t *testing.T) {
	t.Parallel()

	r := newTestReporter(t, Options{})
	pass(r, "nope", "0-0", "step")

	diags := r.Diagnostics()
	require.Len(t, diags, 1)
	diags[0].Reason = "changed"
	assert.Equal(t, ReasonUnknownParent, r.Diagnostics()[0].Reason)
	assert.Equal(t, constants.EventTestPass, r.Diagnostics()[0].Event)
}

func TestReporter_EndToEnd(t *testing.T) {
	t.Parallel()

	r := newTestReporter(t, Options{TestPlanKey: "PLAN-9", Version: "2.0"})

	// Two contexts replay the same suite tree.
	for _, cid := range []string{"0-0", "0-1"} {
		r.HandleSuiteStart(feature("f1", "features/Checkout.feature"))
		r.HandleSuiteStart(scenarioStart("s1", "f1", "features/CHK-1.feature"))
		r.HandleSuiteStart(scenarioStart("s2", "f1", "features/CHK-2.feature"))
		pass(r, "s1", cid, "adds item")
		if cid == "0-1" {
			fail(r, "s2", cid, "pays", "card declined")
		} else {
			pass(r, "s2", cid, "pays")
		}
	}

	results, err := r.End(stats(runner("0-0", "chrome"), runner("0-1", "chrome")))
	require.NoError(t, err)

	result := singleResult(t, results)
	assert.Equal(t, "2.0", result.Info.Version)
	passed, failed := result.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, "pays\r\ncard declined\r\n\r\n", result.Tests[1].Comment)
}
