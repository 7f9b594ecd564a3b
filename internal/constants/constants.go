// Package constants provides centralized constant values used throughout xrayreport.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Directory names and paths used by xrayreport.
const (
	// AppHome is the hidden directory name where xrayreport keeps its global
	// configuration and log files. It is created in the user's home directory.
	AppHome = ".xrayreport"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Report output defaults.
const (
	// DefaultFilePrefix is the file name prefix of written reports. The full
	// name is <prefix>.<uuid>.json.
	DefaultFilePrefix = "WDIO.xray.json"

	// ReportFileExt is the extension appended to every written report.
	ReportFileExt = ".json"

	// TempFileSuffix marks a report that is still being written.
	TempFileSuffix = ".tmp"
)

// Timestamp layouts for run statistics and the report.
const (
	// InputTimestampLayout is the layout of the run start/end timestamps
	// handed over by the test runner (YYYY-MM-DDTHH:mm:ss.SSSZ).
	InputTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

	// OutputTimestampLayout is the layout of every date written to the
	// report (YYYY-MM-DDTHH:mm:ssZ, offset always numeric).
	OutputTimestampLayout = "2006-01-02T15:04:05-07:00"
)

// Text conventions of the import format.
const (
	// LineBreak terminates every line of a step or test comment.
	LineBreak = "\r\n"

	// FeatureSuffix is stripped from a feature file name to derive its identifier.
	FeatureSuffix = ".feature"

	// TagPrefix is stripped from tag names in legacy tag-key mode.
	TagPrefix = "@"
)

// Log rotation settings for the global CLI log file.
const (
	// LogMaxSizeMB is the size in megabytes at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days to keep rotated log files.
	LogMaxAgeDays = 14

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Event stream limits.
const (
	// MaxEventLineBytes bounds a single line of the event stream. Stack traces
	// can be long, so this is well above bufio's 64KiB default.
	MaxEventLineBytes = 4 * 1024 * 1024

	// EventBufferSize is the channel capacity between the stream reader and
	// the dispatcher.
	EventBufferSize = 64
)
