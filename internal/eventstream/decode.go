// Package eventstream feeds a newline-delimited JSON event log into the
// aggregation reporter.
//
// Each line holds one runner event. A goroutine reads lines into a bounded
// channel and a single dispatcher hands them to the reporter one at a time,
// so the reporter never sees concurrent calls.
package eventstream

import (
	"bytes"
	"encoding/json"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/domain"
	xerrors "github.com/mrz1836/xrayreport/internal/errors"
)

// Event is one decoded line. Only the payload matching Kind is set.
type Event struct {
	Kind    constants.EventKind
	Runner  domain.Runner
	Suite   domain.SuiteStart
	Outcome domain.TestOutcome
	End     EndPayload
}

// EndPayload is the body of the end event. Every field is optional.
type EndPayload struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Runners *domain.Runners `json:"runners"`
}

type envelope struct {
	Event constants.EventKind `json:"event"`
}

type runnerStart struct {
	CID                   string `json:"cid"`
	SanitizedCapabilities string `json:"sanitizedCapabilities"`
}

// DecodeLine parses one line of the event log. Lines that are not JSON
// objects, or lack an event name, fail with ErrMalformedEvent; unknown
// event names fail with ErrUnknownEvent.
func DecodeLine(line []byte) (Event, error) {
	line = bytes.TrimSpace(line)

	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Event{}, xerrors.Wrap(xerrors.ErrMalformedEvent, err.Error())
	}
	if env.Event == "" {
		return Event{}, xerrors.Wrap(xerrors.ErrMalformedEvent, "missing event name")
	}

	ev := Event{Kind: env.Event}
	var err error
	switch env.Event {
	case constants.EventRunnerStart:
		var rs runnerStart
		err = json.Unmarshal(line, &rs)
		if err == nil && rs.CID == "" {
			return Event{}, xerrors.Wrap(xerrors.ErrMalformedEvent, "runner:start without cid")
		}
		ev.Runner = domain.Runner{CID: rs.CID, SanitizedCapabilities: rs.SanitizedCapabilities}
	case constants.EventSuiteStart:
		err = json.Unmarshal(line, &ev.Suite)
	case constants.EventTestPass, constants.EventTestFail, constants.EventTestPending:
		err = json.Unmarshal(line, &ev.Outcome)
	case constants.EventEnd:
		err = json.Unmarshal(line, &ev.End)
	default:
		return Event{}, xerrors.Wrapf(xerrors.ErrUnknownEvent, "%q", env.Event)
	}
	if err != nil {
		return Event{}, xerrors.Wrapf(xerrors.ErrMalformedEvent, "%s: %v", env.Event, err)
	}
	return ev, nil
}
