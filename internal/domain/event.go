// Package domain provides the shared types of xrayreport: the events handed
// over by the test runner, the run statistics read at completion, and the
// report model written for the test-management import.
//
// IMPORTANT: This package MUST NOT import any other internal packages except
// internal/constants.
package domain

import (
	"encoding/json"
	"strings"

	"github.com/mrz1836/xrayreport/internal/constants"
)

// Tag is a scenario or feature tag such as "@LOGIN-1".
// Runners emit tags either as plain strings or as {"name": "..."} objects;
// both decode into Tag.
type Tag struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts both "name" and {"name": "name"}.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		t.Name = name
		return nil
	}
	type plain Tag
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tag(p)
	return nil
}

// Key returns the tag name without its leading "@".
func (t Tag) Key() string {
	return strings.TrimPrefix(t.Name, constants.TagPrefix)
}

// SuiteStart is the payload of a suite:start event. A nil Parent marks a
// feature; otherwise the event opens a scenario inside the feature whose UID
// equals Parent.
type SuiteStart struct {
	UID    string  `json:"uid"`
	Parent *string `json:"parent"`
	File   string  `json:"file"`
	Tags   []Tag   `json:"tags,omitempty"`
}

// IsFeature reports whether the event declares no parent.
func (e SuiteStart) IsFeature() bool {
	return e.Parent == nil
}

// ParentUID returns the parent's UID, or "" for a feature.
func (e SuiteStart) ParentUID() string {
	if e.Parent == nil {
		return ""
	}
	return *e.Parent
}

// ExternalID derives the identifier used by the test-management system from
// the event's file: the base name after the last path separator (either
// slash) with the .feature suffix removed. It may be empty.
func (e SuiteStart) ExternalID() string {
	return ExternalIDFromPath(e.File)
}

// ExternalIDFromPath implements SuiteStart.ExternalID for a bare path.
func ExternalIDFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, constants.FeatureSuffix)
}

// TestError carries the failure details of a test:fail or test:pending event.
type TestError struct {
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// TestOutcome is the payload of test:pass, test:fail and test:pending.
// Parent is the UID of the owning scenario and CID the execution context
// the step ran in.
type TestOutcome struct {
	Parent string     `json:"parent"`
	CID    string     `json:"cid"`
	Title  string     `json:"title"`
	Err    *TestError `json:"err,omitempty"`
}

// Comment builds the step comment for the outcome. Passing steps carry the
// title only. Failing steps carry the title, the error message and the stack
// trace, each terminated by a line break; absent parts are skipped.
func (o TestOutcome) Comment(status constants.Status) string {
	if status == constants.StatusPass {
		return o.Title
	}

	var b strings.Builder
	b.WriteString(o.Title)
	b.WriteString(constants.LineBreak)
	if o.Err != nil {
		if o.Err.Message != "" {
			b.WriteString(o.Err.Message)
			b.WriteString(constants.LineBreak)
		}
		if o.Err.Stack != "" {
			b.WriteString(o.Err.Stack)
			b.WriteString(constants.LineBreak)
		}
	}
	return b.String()
}
