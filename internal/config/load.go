package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/xrayreport/internal/constants"
	"github.com/mrz1836/xrayreport/internal/errors"
)

// newViperInstance creates a Viper instance with the xrayreport defaults,
// the XRAYREPORT_ environment prefix and "." mapped to "_" in env keys.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (XRAYREPORT_* prefix)
//  2. Project config (.xrayreport/config.yaml)
//  3. Global config (~/.xrayreport/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead. Missing config
// files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("report.output_dir", cfg.Report.OutputDir).
		Str("report.file_prefix", cfg.Report.FilePrefix).
		Str("report.timezone", string(cfg.Report.Timezone)).
		Bool("legacy.tag_keys", cfg.Legacy.TagKeys).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// loadGlobalConfig reads the global config file if it exists.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if the file exists.
func getGlobalConfigPathIfExists() (string, bool) {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil {
		return "", false
	}
	if !fileExists(globalConfigPath) {
		return "", false
	}
	return globalConfigPath, true
}

// loadProjectConfig merges the project config file over the global one.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied, so boolean flags must be
// applied by the caller when the flag was explicitly set.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths. Either path
// may be empty to skip that level. The project file wins over the global one.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tags and the values DefaultConfig().
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("report.output_dir", defaults.Report.OutputDir)
	v.SetDefault("report.file_prefix", defaults.Report.FilePrefix)
	v.SetDefault("report.indent", defaults.Report.Indent)
	v.SetDefault("report.timezone", string(defaults.Report.Timezone))

	v.SetDefault("xray.test_plan_key", defaults.Xray.TestPlanKey)
	v.SetDefault("xray.revision", defaults.Xray.Revision)
	v.SetDefault("xray.version", defaults.Xray.Version)
	v.SetDefault("xray.user", defaults.Xray.User)
	v.SetDefault("xray.project", defaults.Xray.Project)

	v.SetDefault("legacy.tag_keys", defaults.Legacy.TagKeys)
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Report.OutputDir != "" {
		cfg.Report.OutputDir = overrides.Report.OutputDir
	}
	if overrides.Report.FilePrefix != "" {
		cfg.Report.FilePrefix = overrides.Report.FilePrefix
	}
	if overrides.Report.Timezone != "" {
		cfg.Report.Timezone = overrides.Report.Timezone
	}

	applyXrayOverrides(&cfg.Xray, &overrides.Xray)
}

// applyXrayOverrides applies the metadata overrides.
func applyXrayOverrides(cfg, overrides *XrayConfig) {
	if overrides.TestPlanKey != "" {
		cfg.TestPlanKey = overrides.TestPlanKey
	}
	if overrides.Revision != "" {
		cfg.Revision = overrides.Revision
	}
	if overrides.Version != "" {
		cfg.Version = overrides.Version
	}
	if overrides.User != "" {
		cfg.User = overrides.User
	}
	if overrides.Project != "" {
		cfg.Project = overrides.Project
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Timezone values go through their UnmarshalText.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
		),
	)
}
