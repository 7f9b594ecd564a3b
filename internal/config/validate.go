package config

import (
	"strings"

	"github.com/mrz1836/xrayreport/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - report.file_prefix must not be empty or contain path separators or ".."
//   - report.timezone must name a loadable location
//
// An empty report.output_dir is valid: the run completes and the write is
// reported as a warning.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	return validateReportConfig(&cfg.Report)
}

// validateReportConfig checks report-specific configuration values.
func validateReportConfig(cfg *ReportConfig) error {
	prefix := strings.TrimSpace(cfg.FilePrefix)
	if prefix == "" {
		return errors.Wrap(errors.ErrConfigInvalidReport,
			"report.file_prefix must not be empty")
	}
	if strings.ContainsAny(prefix, `/\`) || strings.Contains(prefix, "..") {
		return errors.Wrapf(errors.ErrPathTraversal,
			"report.file_prefix %q must be a plain file name", prefix)
	}

	if _, err := cfg.Timezone.Location(); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidReport,
			"report.timezone %q: %v", cfg.Timezone, err)
	}

	return nil
}
