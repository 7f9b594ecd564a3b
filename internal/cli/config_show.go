package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/xrayreport/internal/config"
	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/errors"
	"github.com/mrz1836/xrayreport/internal/logging"
	"github.com/mrz1836/xrayreport/internal/tui"
)

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// Format specifies the output format (yaml or json).
	Format string
}

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect xrayreport configuration",
	}
	cmd.AddCommand(newConfigShowCmd(&ConfigShowFlags{}))
	root.AddCommand(cmd)
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd(flags *ConfigShowFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration and where each value comes from:
  - default: Built-in default value
  - global: From ~/.xrayreport/config.yaml
  - project: From .xrayreport/config.yaml
  - env: From an XRAYREPORT_* environment variable

Examples:
  xrayreport config show
  xrayreport config show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Format, "format", "f", "yaml", "output format (yaml or json)")

	return cmd
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// AnnotatedConfig maps section -> key -> value with source.
type AnnotatedConfig map[string]map[string]ConfigValueWithSource

// configEntry is one displayed key, in display order.
type configEntry struct {
	section string
	key     string
	value   any
}

// configEntries lists every configuration key with its effective value.
func configEntries(cfg *config.Config) []configEntry {
	return []configEntry{
		{"report", "output_dir", cfg.Report.OutputDir},
		{"report", "file_prefix", cfg.Report.FilePrefix},
		{"report", "indent", cfg.Report.Indent},
		{"report", "timezone", string(cfg.Report.Timezone)},
		{"xray", "test_plan_key", cfg.Xray.TestPlanKey},
		{"xray", "revision", cfg.Xray.Revision},
		{"xray", "version", cfg.Xray.Version},
		{"xray", "user", cfg.Xray.User},
		{"xray", "project", cfg.Xray.Project},
		{"legacy", "tag_keys", cfg.Legacy.TagKeys},
	}
}

// configShowStyles contains styling for the config show command output.
type configShowStyles struct {
	header    lipgloss.Style
	section   lipgloss.Style
	key       lipgloss.Style
	value     lipgloss.Style
	sourceEnv lipgloss.Style
	sourcePrj lipgloss.Style
	sourceGbl lipgloss.Style
	sourceDef lipgloss.Style
	dim       lipgloss.Style
}

// newConfigShowStyles creates styles for config show command output.
func newConfigShowStyles() *configShowStyles {
	return &configShowStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D7FF")).MarginBottom(1),
		section:   lipgloss.NewStyle().Bold(true),
		key:       lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF")),
		value:     lipgloss.NewStyle(),
		sourceEnv: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		sourcePrj: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		sourceGbl: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF87")),
		sourceDef: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, w io.Writer, flags *ConfigShowFlags) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	format := strings.ToLower(flags.Format)
	if format != "yaml" && format != "json" {
		return fmt.Errorf("%w: %s (use yaml or json)", errors.ErrUnsupportedOutputFormat, flags.Format)
	}

	cfg, err := config.Load(GetLogger().WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	entries := configEntries(cfg)
	annotated := buildAnnotatedConfig(entries, loadGlobalConfigOnly(), loadProjectConfigOnly())

	if format == "json" {
		return outputJSON(w, annotated)
	}
	outputYAML(w, entries, annotated)
	return nil
}

// buildAnnotatedConfig attaches a source to every entry.
func buildAnnotatedConfig(entries []configEntry, globalCfg, projectCfg configValues) AnnotatedConfig {
	annotated := make(AnnotatedConfig)
	for _, e := range entries {
		if annotated[e.section] == nil {
			annotated[e.section] = make(map[string]ConfigValueWithSource)
		}
		annotated[e.section][e.key] = determineSource(e.section+"."+e.key, e.value, globalCfg, projectCfg)
	}
	return annotated
}

// configValues holds the dotted keys set in one config file.
type configValues map[string]any

// loadGlobalConfigOnly loads only the global config for source comparison.
func loadGlobalConfigOnly() configValues {
	path, err := config.GlobalConfigPath()
	if err != nil {
		return nil
	}
	return loadConfigFile(path)
}

// loadProjectConfigOnly loads only the project config for source comparison.
func loadProjectConfigOnly() configValues {
	return loadConfigFile(config.ProjectConfigPath())
}

// loadConfigFile reads a config file into dotted keys. Unreadable or
// invalid files yield nil.
func loadConfigFile(path string) configValues {
	data, err := os.ReadFile(path) //nolint:gosec // Config file path
	if err != nil {
		return nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}

	result := make(configValues)
	flattenInto(result, "", raw)
	return result
}

// flattenInto stores the leaves of m under dotted keys.
func flattenInto(dst configValues, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(dst, key, nested)
			continue
		}
		dst[key] = v
	}
}

// determineSource determines where a configuration value came from.
func determineSource(key string, value any, globalCfg, projectCfg configValues) ConfigValueWithSource {
	envKey := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if envVal := os.Getenv(envKey); envVal != "" {
		return ConfigValueWithSource{Value: value, Source: SourceEnv}
	}
	if _, exists := projectCfg[key]; exists {
		return ConfigValueWithSource{Value: value, Source: SourceProject}
	}
	if _, exists := globalCfg[key]; exists {
		return ConfigValueWithSource{Value: value, Source: SourceGlobal}
	}
	return ConfigValueWithSource{Value: value, Source: SourceDefault}
}

// outputJSON outputs the configuration in JSON format.
func outputJSON(w io.Writer, annotated AnnotatedConfig) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(annotated)
}

// outputYAML prints the configuration as YAML with source comments.
func outputYAML(w io.Writer, entries []configEntry, annotated AnnotatedConfig) {
	tui.CheckNoColor(w)
	styles := newConfigShowStyles()

	_, _ = fmt.Fprintln(w, styles.header.Render("Effective xrayreport Configuration"))
	_, _ = fmt.Fprintln(w, styles.dim.Render("Sources: ")+
		styles.sourceEnv.Render("env")+" > "+
		styles.sourcePrj.Render("project")+" > "+
		styles.sourceGbl.Render("global")+" > "+
		styles.sourceDef.Render("default"))

	section := ""
	for _, e := range entries {
		if e.section != section {
			section = e.section
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, styles.section.Render(section+":"))
		}
		printConfigValue(w, styles, e.key, annotated[e.section][e.key])
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, styles.dim.Render("Configuration files:"))
	if globalPath, err := config.GlobalConfigPath(); err == nil {
		printConfigFile(w, styles, "Global", globalPath, styles.sourceGbl)
	}
	printConfigFile(w, styles, "Project", config.ProjectConfigPath(), styles.sourcePrj)
}

// printConfigFile prints one config file location and whether it exists.
func printConfigFile(w io.Writer, styles *configShowStyles, label, path string, found lipgloss.Style) {
	if _, err := os.Stat(path); err != nil {
		_, _ = fmt.Fprintln(w, styles.dim.Render("  "+label+": "+path+" (not found)"))
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	_, _ = fmt.Fprintln(w, styles.dim.Render("  "+label+": ")+found.Render(path))
}

// printConfigValue prints a configuration value with its source annotation.
// Values of credential-like keys are redacted.
func printConfigValue(w io.Writer, styles *configShowStyles, key string, vs ConfigValueWithSource) {
	valueStr := logging.SafeValue(key, formatConfigValue(vs.Value))

	_, _ = fmt.Fprintf(w, "  %s: %s  %s\n",
		styles.key.Render(key),
		styles.value.Render(valueStr),
		getSourceStyle(vs.Source, styles).Render("# "+string(vs.Source)))
}

// formatConfigValue converts a configuration value to a displayable string.
func formatConfigValue(value any) string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "(not set)"
		}
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// getSourceStyle returns the style for a config source.
func getSourceStyle(source ConfigSource, styles *configShowStyles) lipgloss.Style {
	switch source {
	case SourceEnv:
		return styles.sourceEnv
	case SourceProject:
		return styles.sourcePrj
	case SourceGlobal:
		return styles.sourceGbl
	case SourceDefault:
		return styles.sourceDef
	default:
		return styles.sourceDef
	}
}
