package constants

// Status is the outcome of a step or of a whole test in the import format.
type Status string

const (
	// StatusPass marks a passed step or test.
	StatusPass Status = "PASS"

	// StatusFail marks a failed step or test. Pending tests are reported as
	// failed too, since the import format has no skipped state.
	StatusFail Status = "FAIL"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return s == StatusPass || s == StatusFail
}

// Merge folds two statuses: FAIL wins over PASS.
func (s Status) Merge(other Status) Status {
	if s == StatusFail || other == StatusFail {
		return StatusFail
	}
	return StatusPass
}

// EventKind names an event of the inbound stream.
type EventKind string

// Event kinds understood by the reporter.
const (
	EventRunnerStart EventKind = "runner:start"
	EventSuiteStart  EventKind = "suite:start"
	EventTestPass    EventKind = "test:pass"
	EventTestFail    EventKind = "test:fail"
	EventTestPending EventKind = "test:pending"
	EventEnd         EventKind = "end"
)

// IsTestOutcome reports whether the kind carries a step outcome.
func (k EventKind) IsTestOutcome() bool {
	return k == EventTestPass || k == EventTestFail || k == EventTestPending
}

// Status returns the step status recorded for an outcome kind.
// Only pass maps to PASS; fail and pending map to FAIL.
func (k EventKind) Status() Status {
	if k == EventTestPass {
		return StatusPass
	}
	return StatusFail
}
