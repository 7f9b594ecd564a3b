package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/xrayreport/internal/config"
	"github.com/mrz1836/xrayreport/internal/tui"
)

// InitFlags holds flags specific to the init command.
type InitFlags struct {
	// NoInteractive skips all prompts and writes the defaults.
	NoInteractive bool
	// Global writes ~/.xrayreport/config.yaml instead of the project file.
	Global bool
}

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command) {
	root.AddCommand(newInitCmd(&InitFlags{}))
}

// newInitCmd creates the init command.
func newInitCmd(flags *InitFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an xrayreport configuration file",
		Long: `Create .xrayreport/config.yaml in the current directory, or
~/.xrayreport/config.yaml with --global. An existing file is backed up to
config.yaml.backup before it is replaced.

Examples:
  xrayreport init
  xrayreport init --global
  xrayreport init --no-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interactive := !flags.NoInteractive && tui.IsTerminal(os.Stdin)
			return runInit(cmd.Context(), cmd.OutOrStdout(), flags, interactive)
		},
	}

	cmd.Flags().BoolVar(&flags.NoInteractive, "no-interactive", false, "write the defaults without prompting")
	cmd.Flags().BoolVar(&flags.Global, "global", false, "write the global configuration")

	return cmd
}

// formRunner matches huh.Form's Run method.
type formRunner interface {
	Run() error
}

// createInitForm builds the setup form. Tests replace it.
//
//nolint:gochecknoglobals // Test injection point - standard Go testing pattern
var createInitForm = defaultCreateInitForm

// defaultCreateInitForm creates the huh form that edits cfg in place.
func defaultCreateInitForm(cfg *config.Config) formRunner {
	timezone := string(cfg.Report.Timezone)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Description("Where report files are written. Leave empty to decide per run with --output-dir.").
				Value(&cfg.Report.OutputDir),
			huh.NewInput().
				Title("File prefix").
				Description("Reports are named <prefix>.<uuid>.json").
				Value(&cfg.Report.FilePrefix).
				Validate(validateFilePrefix),
			huh.NewInput().
				Title("Timezone").
				Description("Empty keeps the runner's offset; 'Local', 'UTC' or an IANA name converts.").
				Value(&timezone).
				Validate(validateTimezone),
			huh.NewConfirm().
				Title("Pretty-print report JSON?").
				Value(&cfg.Report.Indent),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Test plan key").
				Placeholder("PLAN-1").
				Value(&cfg.Xray.TestPlanKey),
			huh.NewInput().
				Title("Project key").
				Value(&cfg.Xray.Project),
			huh.NewConfirm().
				Title("Derive test keys from scenario tags?").
				Description("Older projects tag scenarios with their Xray key.").
				Value(&cfg.Legacy.TagKeys),
		),
	).WithTheme(huh.ThemeCharm())

	return &timezoneForm{form: form, timezone: &timezone, cfg: cfg}
}

// timezoneForm copies the timezone answer into the config after Run, since
// huh inputs bind plain strings.
type timezoneForm struct {
	form     formRunner
	timezone *string
	cfg      *config.Config
}

// Run runs the wrapped form.
func (f *timezoneForm) Run() error {
	if err := f.form.Run(); err != nil {
		return err
	}
	return f.cfg.Report.Timezone.UnmarshalText([]byte(*f.timezone))
}

// validateFilePrefix checks a prefix the same way config loading does.
func validateFilePrefix(prefix string) error {
	cfg := config.DefaultConfig()
	cfg.Report.FilePrefix = prefix
	return config.Validate(cfg)
}

// validateTimezone checks a timezone the same way config loading does.
func validateTimezone(name string) error {
	cfg := config.DefaultConfig()
	if err := cfg.Report.Timezone.UnmarshalText([]byte(name)); err != nil {
		return err
	}
	return config.Validate(cfg)
}

// runInit builds the configuration and writes it.
func runInit(ctx context.Context, w io.Writer, flags *InitFlags, interactive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := initTargetPath(flags.Global)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if interactive {
		if err := createInitForm(cfg).Run(); err != nil {
			return fmt.Errorf("configuration form: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := saveConfig(path, cfg, time.Now()); err != nil {
		return err
	}

	out := tui.NewOutput(w, OutputText)
	out.Success("Configuration written to " + path)
	if cfg.Report.OutputDir == "" {
		out.Info("report.output_dir is empty; pass --output-dir to 'xrayreport report' to write files")
	}
	return nil
}

// initTargetPath returns the file init writes.
func initTargetPath(global bool) (string, error) {
	if global {
		return config.GlobalConfigPath()
	}
	return config.ProjectConfigPath(), nil
}

// saveConfig writes cfg as YAML to path with a generated header. An
// existing file is copied to path.backup first.
func saveConfig(path string, cfg *config.Config, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		backupPath := path + ".backup"
		if copyErr := copyFile(path, backupPath); copyErr != nil {
			logger := GetLogger()
			logger.Warn().Err(copyErr).Str("backup_path", backupPath).Msg("failed to create config backup")
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := fmt.Sprintf("# xrayreport configuration\n# Generated by xrayreport init on %s\n\n", now.Format(time.RFC3339))
	if err := os.WriteFile(path, []byte(header+string(data)), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) //nolint:gosec // Source is a config file
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}
