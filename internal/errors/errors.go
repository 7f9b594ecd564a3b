// Package errors provides centralized error handling for xrayreport.
//
// Sentinel errors defined here categorize failures so callers can branch with
// errors.Is(). Context is added with Wrap/Wrapf at package boundaries.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
package errors

import "errors"

// Sentinel errors for error categorization.
var (
	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidReport indicates an invalid report section in the configuration.
	ErrConfigInvalidReport = errors.New("invalid report configuration")

	// ErrConfigNotFound indicates that an explicitly requested config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidOutputFormat indicates an unknown value for the global --output flag.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrUnsupportedOutputFormat indicates an output format a command cannot render.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")

	// ErrPathTraversal indicates a file name that would escape its directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrOutputDirInvalid indicates that no usable output directory is configured,
	// so the report cannot be persisted.
	ErrOutputDirInvalid = errors.New("empty or invalid output directory")

	// ErrReportWriteFailed indicates an I/O failure while persisting the report.
	ErrReportWriteFailed = errors.New("report write failed")

	// ErrReportNotFound indicates that a report file to load does not exist.
	ErrReportNotFound = errors.New("report not found")

	// ErrMalformedEvent indicates an event line that could not be decoded.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrUnknownEvent indicates an event kind the reporter does not understand.
	ErrUnknownEvent = errors.New("unknown event kind")

	// ErrInvalidTimestamp indicates a run timestamp that does not match the input layout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrAlreadyFinalized indicates a second run-completion for the same reporter.
	ErrAlreadyFinalized = errors.New("run already finalized")

	// ErrNotFinalized indicates that results were requested before run completion.
	ErrNotFinalized = errors.New("run not finalized")
)
