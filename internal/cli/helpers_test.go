package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/xrayreport/internal/constants"
)

// runLog is a complete event log with one runner, one feature and one
// scenario that fails in its second step.
const runLog = `{"event":"runner:start","cid":"0-0","sanitizedCapabilities":"chrome.90"}
{"event":"suite:start","uid":"F1","parent":null,"file":"/specs/LOGIN-1.feature","tags":[{"name":"@TE-9"}]}
{"event":"suite:start","uid":"S1","parent":"F1","file":"/specs/LOGIN-1.feature","tags":[{"name":"@TE-9"},{"name":"@LOGIN-77"}]}
{"event":"test:pass","parent":"S1","cid":"0-0","title":"I open the page"}
{"event":"test:fail","parent":"S1","cid":"0-0","title":"I see the dashboard"}
{"event":"end","start":"2017-05-01T10:00:00.000Z","end":"2017-05-01T10:05:00.000Z"}
`

// isolate points the global config and log directory at a temp dir and
// runs the test from an empty project directory. Tests that call it must
// not be parallel.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)
	t.Chdir(project)
	t.Cleanup(CloseLogFile)
	return home, project
}

// executeCLI runs the root command with args and stdin and returns what it
// wrote to stdout and stderr.
func executeCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// reportFiles lists the report files written to dir.
func reportFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, constants.DefaultFilePrefix+".*"+constants.ReportFileExt))
	require.NoError(t, err)
	return matches
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
