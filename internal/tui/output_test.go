package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "github.com/mrz1836/xrayreport/internal/errors"
)

func TestNewOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestIsTerminal_NonFileWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, 99, TerminalWidth(&buf, 99))
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Success("report written")
	out.Warning("no output dir")
	out.Info("2 browsers")
	out.Error(xerrors.ErrReportWriteFailed)

	got := buf.String()
	assert.Contains(t, got, "✓ report written")
	assert.Contains(t, got, "⚠ no output dir")
	assert.Contains(t, got, "ℹ 2 browsers")
	assert.Contains(t, got, "✗ report write failed")
}

func TestTTYOutput_ActionableError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewTTYOutput(&buf).Error(NewActionableError("cannot write report", "Pass --output-dir").WithContext("report"))

	got := buf.String()
	assert.Contains(t, got, "✗ cannot write report (report)")
	assert.Contains(t, got, "▸ Try: Pass --output-dir")
}

func TestTTYOutput_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewTTYOutput(&buf).JSON(map[string]int{"tests": 2}))
	assert.Equal(t, "{\n  \"tests\": 2\n}\n", buf.String())
}

func TestJSONOutput_Messages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Success("done")
	out.Warning("careful")
	out.Info("fyi")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var msg jsonMessage
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &msg))
	assert.Equal(t, jsonMessage{Type: "warning", Message: "careful"}, msg)
}

func TestJSONOutput_Error(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	cause := fmt.Errorf("writing: %w", xerrors.ErrReportWriteFailed)
	out.Error(NewActionableError("cannot write report", "Check permissions").WithCause(cause))

	var got jsonError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "error", got.Type)
	assert.Equal(t, "cannot write report", got.Message)
	assert.Equal(t, "Check permissions", got.Suggestion)
	assert.Equal(t, "writing: report write failed", got.Details)
}

func TestJSONOutput_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewJSONOutput(&buf).Table([]string{"browser", "failed"}, [][]string{{"chrome", "1"}, {"firefox"}})

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, []map[string]string{
		{"browser": "chrome", "failed": "1"},
		{"browser": "firefox", "failed": ""},
	}, rows)

	buf.Reset()
	NewJSONOutput(&buf).Table(nil, [][]string{{"x"}})
	assert.Equal(t, "[]\n", buf.String())
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewActionableError("bad", "fix it").WithCause(xerrors.ErrOutputDirInvalid)
	require.ErrorIs(t, err, xerrors.ErrOutputDirInvalid)
	assert.Nil(t, errors.Unwrap(NewActionableError("bad", "fix it")))
}
