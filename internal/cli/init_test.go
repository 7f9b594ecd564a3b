package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/xrayreport/internal/config"
	"github.com/mrz1836/xrayreport/internal/errors"
)

// stubForm applies edit to the config instead of prompting.
type stubForm struct {
	cfg  *config.Config
	edit func(*config.Config)
	err  error
}

func (f *stubForm) Run() error {
	if f.err != nil {
		return f.err
	}
	f.edit(f.cfg)
	return nil
}

func withInitForm(t *testing.T, edit func(*config.Config), err error) {
	t.Helper()
	orig := createInitForm
	createInitForm = func(cfg *config.Config) formRunner {
		return &stubForm{cfg: cfg, edit: edit, err: err}
	}
	t.Cleanup(func() { createInitForm = orig })
}

func readConfig(t *testing.T, path string) config.Config {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	return cfg
}

func TestRunInit_NonInteractiveWritesProjectDefaults(t *testing.T) {
	_, project := isolate(t)

	var buf bytes.Buffer
	require.NoError(t, runInit(context.Background(), &buf, &InitFlags{NoInteractive: true}, false))

	path := filepath.Join(project, ".xrayreport", "config.yaml")
	assert.Equal(t, *config.DefaultConfig(), readConfig(t, path))
	assert.Contains(t, buf.String(), "Configuration written to .xrayreport/config.yaml")
	assert.Contains(t, buf.String(), "report.output_dir is empty")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRunInit_GlobalInteractive(t *testing.T) {
	home, _ := isolate(t)
	withInitForm(t, func(cfg *config.Config) {
		cfg.Report.OutputDir = "reports"
		cfg.Xray.TestPlanKey = "PLAN-4"
		cfg.Legacy.TagKeys = true
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, runInit(context.Background(), &buf, &InitFlags{Global: true}, true))

	cfg := readConfig(t, filepath.Join(home, "config.yaml"))
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Equal(t, "PLAN-4", cfg.Xray.TestPlanKey)
	assert.True(t, cfg.Legacy.TagKeys)
	assert.NotContains(t, buf.String(), "output_dir is empty")
}

func TestRunInit_WrittenFileLoads(t *testing.T) {
	isolate(t)
	withInitForm(t, func(cfg *config.Config) {
		cfg.Report.OutputDir = "out"
		cfg.Report.Timezone = "UTC"
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, runInit(context.Background(), &buf, &InitFlags{}, true))

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Report.OutputDir)
	assert.Equal(t, config.Timezone("UTC"), cfg.Report.Timezone)
}

func TestRunInit_InvalidAnswersAreRejected(t *testing.T) {
	_, project := isolate(t)
	withInitForm(t, func(cfg *config.Config) {
		cfg.Report.FilePrefix = "../x"
	}, nil)

	var buf bytes.Buffer
	err := runInit(context.Background(), &buf, &InitFlags{}, true)
	require.ErrorIs(t, err, errors.ErrPathTraversal)
	assert.NoFileExists(t, filepath.Join(project, ".xrayreport", "config.yaml"))
}

func TestRunInit_FormError(t *testing.T) {
	isolate(t)
	withInitForm(t, nil, assert.AnError)

	var buf bytes.Buffer
	err := runInit(context.Background(), &buf, &InitFlags{}, true)
	require.ErrorIs(t, err, assert.AnError)
}

func TestRunInit_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	require.ErrorIs(t, runInit(ctx, &buf, &InitFlags{}, false), context.Canceled)
}

func TestSaveConfig_BacksUpExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	writeFile(t, path, "old: true\n")

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, saveConfig(path, config.DefaultConfig(), now))

	backup, err := os.ReadFile(path + ".backup") //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "old: true\n", string(backup))

	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Generated by xrayreport init on 2024-03-01T10:00:00Z")
	assert.Contains(t, string(data), "file_prefix: WDIO.xray.json")
}

func TestValidateFormInputs(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateFilePrefix("WDIO.xray.json"))
	require.Error(t, validateFilePrefix(""))
	require.ErrorIs(t, validateFilePrefix("a/b"), errors.ErrPathTraversal)

	require.NoError(t, validateTimezone(""))
	require.NoError(t, validateTimezone("local"))
	require.NoError(t, validateTimezone("UTC"))
	require.Error(t, validateTimezone("Mars/Olympus"))
}

func TestTimezoneForm_CopiesAnswer(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	tz := " utc "
	form := &timezoneForm{form: &stubForm{cfg: cfg, edit: func(*config.Config) {}}, timezone: &tz, cfg: cfg}

	require.NoError(t, form.Run())
	assert.Equal(t, config.Timezone("UTC"), cfg.Report.Timezone)
}
