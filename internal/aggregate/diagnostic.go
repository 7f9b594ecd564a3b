package aggregate

import "github.com/mrz1836/xrayreport/internal/constants"

// Reason explains why an event was ignored.
type Reason string

// Reasons recorded for ignored events.
const (
	ReasonEmptyIdentifier  Reason = "empty identifier"
	ReasonDuplicateFeature Reason = "feature already registered"
	ReasonOrphanScenario   Reason = "parent suite not found"
	ReasonUnknownParent    Reason = "parent scenario not found"
	ReasonParentNotTest    Reason = "parent is a feature, not a scenario"
	ReasonAfterEnd         Reason = "event after run completion"
)

// Diagnostic records one ignored or partially applied event.
type Diagnostic struct {
	Event  constants.EventKind `json:"event"`
	UID    string              `json:"uid,omitempty"`
	Parent string              `json:"parent,omitempty"`
	Reason Reason              `json:"reason"`
}
