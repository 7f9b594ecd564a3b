package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.xrayreport/logs/xrayreport.log
	CLILogFileName = "xrayreport.log"
)

// Configuration file names.
const (
	// ConfigFileName is the name of both the global and the project
	// configuration file (~/.xrayreport/config.yaml, .xrayreport/config.yaml).
	ConfigFileName = "config.yaml"

	// EnvPrefix is the prefix of environment variables read by the config
	// loader, e.g. XRAYREPORT_REPORT_OUTPUT_DIR.
	EnvPrefix = "XRAYREPORT"

	// HomeEnvVar overrides the location of AppHome.
	HomeEnvVar = "XRAYREPORT_HOME"
)
