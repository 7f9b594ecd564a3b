package config

import "github.com/mrz1836/xrayreport/internal/constants"

// DefaultConfig returns a new Config with the built-in defaults. These are
// the base layer that config files, environment variables and CLI flags
// override.
func DefaultConfig() *Config {
	return &Config{
		Report: ReportConfig{
			// No default directory; see ReportConfig.OutputDir.
			OutputDir:  "",
			FilePrefix: constants.DefaultFilePrefix,
			Indent:     false,
			Timezone:   "",
		},
		Legacy: LegacyConfig{
			TagKeys: false,
		},
	}
}
