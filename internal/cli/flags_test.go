package cli

import (
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/xrayreport/internal/errors"
)

func TestAddGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	flags := &GlobalFlags{}
	AddGlobalFlags(cmd, flags)

	output := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, OutputText, output.DefValue)

	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
	assert.Equal(t, "q", cmd.PersistentFlags().Lookup("quiet").Shorthand)
}

func TestBindGlobalFlags_EnvOverride(t *testing.T) {
	t.Setenv("XRAYREPORT_OUTPUT", "json")

	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, &GlobalFlags{})
	v := viper.New()
	require.NoError(t, BindGlobalFlags(v, cmd))

	assert.Equal(t, "json", v.GetString("output"))
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
	assert.Equal(t, []string{"text", "json"}, ValidOutputFormats())
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"invalid output format", fmt.Errorf("%w: xml", errors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"unsupported format", fmt.Errorf("%w: toml", errors.ErrUnsupportedOutputFormat), ExitInvalidInput},
		{"invalid config", errors.Wrap(errors.ErrConfigInvalidReport, "invalid configuration"), ExitInvalidInput},
		{"path traversal", errors.Wrap(errors.ErrPathTraversal, "file_prefix"), ExitInvalidInput},
		{"unknown flag", fmt.Errorf("unknown flag: --nope"), ExitInvalidInput},
		{"missing argument", fmt.Errorf("accepts 1 arg(s), received 0"), ExitInvalidInput},
		{"exclusive flags", fmt.Errorf("if any flags in the group [verbose quiet] are set none of the others can be"), ExitInvalidInput},
		{"malformed event", errors.Wrap(errors.ErrMalformedEvent, "line 3"), ExitError},
		{"other", assert.AnError, ExitError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}
