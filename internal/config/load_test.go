package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/errors"
)

// isolate points the global config at an empty directory and runs the test
// from an empty working directory.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)
	t.Chdir(project)
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, constants.ConfigFileName), `
report:
  output_dir: /global/out
  indent: true
xray:
  test_plan_key: GLOBAL-1
  user: ci
`)
	writeFile(t, filepath.Join(project, constants.AppHome, constants.ConfigFileName), `
xray:
  test_plan_key: PROJ-2
`)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/global/out", cfg.Report.OutputDir)
	assert.True(t, cfg.Report.Indent)
	assert.Equal(t, "PROJ-2", cfg.Xray.TestPlanKey)
	assert.Equal(t, "ci", cfg.Xray.User)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	_, project := isolate(t)

	writeFile(t, filepath.Join(project, constants.AppHome, constants.ConfigFileName), `
report:
  output_dir: from-file
`)
	t.Setenv("XRAYREPORT_REPORT_OUTPUT_DIR", "from-env")
	t.Setenv("XRAYREPORT_LEGACY_TAG_KEYS", "true")
	t.Setenv("XRAYREPORT_REPORT_TIMEZONE", "utc")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Report.OutputDir)
	assert.True(t, cfg.Legacy.TagKeys)
	assert.Equal(t, Timezone("UTC"), cfg.Report.Timezone)
}

func TestLoad_InvalidConfig(t *testing.T) {
	_, project := isolate(t)

	writeFile(t, filepath.Join(project, constants.AppHome, constants.ConfigFileName), `
report:
  timezone: Mars/Olympus
`)

	_, err := Load(context.Background())
	require.ErrorIs(t, err, errors.ErrConfigInvalidReport)
}

func TestLoadWithOverrides(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithOverrides(context.Background(), &Config{
		Report: ReportConfig{OutputDir: "out", Timezone: "UTC"},
		Xray:   XrayConfig{TestPlanKey: "P-9", Revision: "abc", Version: "1.0", User: "me", Project: "WEB"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Report.OutputDir)
	assert.Equal(t, constants.DefaultFilePrefix, cfg.Report.FilePrefix)
	assert.Equal(t, Timezone("UTC"), cfg.Report.Timezone)
	assert.Equal(t, XrayConfig{TestPlanKey: "P-9", Revision: "abc", Version: "1.0", User: "me", Project: "WEB"}, cfg.Xray)
}

func TestLoadWithOverrides_RevalidatesOverrides(t *testing.T) {
	isolate(t)

	_, err := LoadWithOverrides(context.Background(), &Config{
		Report: ReportConfig{FilePrefix: "../escape"},
	})
	require.ErrorIs(t, err, errors.ErrPathTraversal)
}

func TestLoadFromPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	global := filepath.Join(dir, "global.yaml")
	project := filepath.Join(dir, "project.yaml")
	writeFile(t, global, `
report:
  file_prefix: global
  output_dir: g
`)
	writeFile(t, project, `
report:
  file_prefix: project
`)

	cfg, err := LoadFromPaths(context.Background(), project, global)
	require.NoError(t, err)
	assert.Equal(t, "project", cfg.Report.FilePrefix)
	assert.Equal(t, "g", cfg.Report.OutputDir)

	cfg, err = LoadFromPaths(context.Background(), filepath.Join(dir, "missing.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultFilePrefix, cfg.Report.FilePrefix)
}

func TestLoadFromPaths_MalformedYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "report: [unclosed")

	_, err := LoadFromPaths(context.Background(), path, "")
	require.Error(t, err)
}
