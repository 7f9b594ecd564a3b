package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinels to their user-facing text. A slice rather
// than a map because lookups walk the chain with errors.Is.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrOutputDirInvalid,
		info: ErrorInfo{
			Message: "Cannot write json report: empty or invalid 'outputDir'.",
			Action:  "Set report.output_dir in the config, XRAYREPORT_REPORT_OUTPUT_DIR, or pass --output-dir.",
		},
	},
	{
		err: ErrReportWriteFailed,
		info: ErrorInfo{
			Message: "Failed to write json report.",
			Action:  "Check that the output directory is writable and the disk is not full.",
		},
	},
	{
		err: ErrReportNotFound,
		info: ErrorInfo{
			Message: "Report file not found.",
			Action:  "Check the path, reports are named <file_prefix>.<uuid>.json.",
		},
	},
	{
		err: ErrMalformedEvent,
		info: ErrorInfo{
			Message: "The event stream contains a line that is not a valid event.",
			Action:  "Drop --strict to skip malformed lines, or fix the producer.",
		},
	},
	{
		err: ErrUnknownEvent,
		info: ErrorInfo{
			Message: "The event stream contains an unknown event kind.",
			Action:  "Drop --strict to skip unknown events.",
		},
	},
	{
		err: ErrInvalidTimestamp,
		info: ErrorInfo{
			Message: "Run start or end time is not in YYYY-MM-DDTHH:mm:ss.SSSZ format.",
			Action:  "Fix the timestamps of the 'end' event, or omit them to use the current time.",
		},
	},
	{
		err: ErrConfigInvalidReport,
		info: ErrorInfo{
			Message: "The report configuration is invalid.",
			Action:  "Run 'xrayreport config show' and fix the reported key.",
		},
	},
	{
		err: ErrConfigNotFound,
		info: ErrorInfo{
			Message: "Configuration file not found.",
			Action:  "Run 'xrayreport init' to create one.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unknown output format.",
			Action:  "Use --output text or --output json.",
		},
	},
}

// lookup returns the info of the first sentinel found in err's chain.
func lookup(err error) (ErrorInfo, bool) {
	if err == nil {
		return ErrorInfo{}, false
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info, true
		}
	}
	return ErrorInfo{}, false
}

// UserMessage returns a user-facing message for err.
// Errors without a registered sentinel fall back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if info, ok := lookup(err); ok {
		return info.Message
	}
	return err.Error()
}

// Actionable returns the user-facing message and a suggested action for err.
// The action is empty when none is known.
func Actionable(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if info, ok := lookup(err); ok {
		return info.Message, info.Action
	}
	return err.Error(), ""
}
