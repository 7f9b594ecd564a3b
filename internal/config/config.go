// Package config provides configuration management for xrayreport with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (XRAYREPORT_* prefix)
//  3. Project config (.xrayreport/config.yaml)
//  4. Global config (~/.xrayreport/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without a zone database
)

// Config is the root configuration structure for xrayreport.
type Config struct {
	// Report controls where and how the report file is written.
	Report ReportConfig `yaml:"report" mapstructure:"report"`

	// Xray holds the metadata copied into every result's info block.
	Xray XrayConfig `yaml:"xray" mapstructure:"xray"`

	// Legacy enables the older tag-derived key behavior.
	Legacy LegacyConfig `yaml:"legacy" mapstructure:"legacy"`
}

// ReportConfig contains settings for report persistence.
type ReportConfig struct {
	// OutputDir is the directory reports are written to. It is required
	// for persistence; when empty the run still completes but nothing is
	// written.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// FilePrefix is the report file name prefix.
	// Default: "WDIO.xray.json"
	FilePrefix string `yaml:"file_prefix" mapstructure:"file_prefix"`

	// Indent pretty-prints the report JSON.
	// Default: false
	Indent bool `yaml:"indent" mapstructure:"indent"`

	// Timezone converts run timestamps before they are written. Empty keeps
	// the offset reported by the runner.
	Timezone Timezone `yaml:"timezone" mapstructure:"timezone"`
}

// IndentString returns the JSON indent matching Indent.
func (c ReportConfig) IndentString() string {
	if c.Indent {
		return "  "
	}
	return ""
}

// XrayConfig contains the test-management metadata of a run.
type XrayConfig struct {
	// TestPlanKey is embedded in every result's summary.
	TestPlanKey string `yaml:"test_plan_key" mapstructure:"test_plan_key"`

	// Revision, Version, User and Project are written only when set.
	Revision string `yaml:"revision" mapstructure:"revision"`
	Version  string `yaml:"version" mapstructure:"version"`
	User     string `yaml:"user" mapstructure:"user"`
	Project  string `yaml:"project" mapstructure:"project"`
}

// LegacyConfig contains compatibility switches.
type LegacyConfig struct {
	// TagKeys derives test keys from scenario tags and the test execution
	// key from the feature tag.
	// Default: false
	TagKeys bool `yaml:"tag_keys" mapstructure:"tag_keys"`
}

// Timezone names a location: "", "UTC", "Local" or an IANA zone name.
type Timezone string

// UnmarshalText trims the value and canonicalizes the spelling of "UTC"
// and "Local".
func (tz *Timezone) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	switch {
	case strings.EqualFold(s, "utc"):
		s = "UTC"
	case strings.EqualFold(s, "local"):
		s = "Local"
	}
	*tz = Timezone(s)
	return nil
}

// Location loads the named location. An empty Timezone returns nil.
func (tz Timezone) Location() (*time.Location, error) {
	if tz == "" {
		return nil, nil //nolint:nilnil // nil location means keep the runner's offset
	}
	return time.LoadLocation(string(tz))
}
