package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*MeshLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Format = "json"
	cfg.Output = buf

	return NewLogger(cfg), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}

	return out
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"":        LogLevelInfo,
		"warning": LogLevelWarn,
		"warn":    LogLevelWarn,
		"error":   LogLevelError,
	}

	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestMeshLogger_KeyValueArgs(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)

	l.WithComponent("orchestrator").WithRun("run-1", "scenario_1_low_inventory").Info("worker.node.start", "agent", "route_planner")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "worker.node.start", lines[0]["msg"])
	assert.Equal(t, "route_planner", lines[0]["agent"])
	assert.Equal(t, "orchestrator", lines[0]["component"])
	assert.Equal(t, "run-1", lines[0]["run_id"])
	assert.Equal(t, "scenario_1_low_inventory", lines[0]["scenario"])
}

func TestMeshLogger_LevelGate(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	assert.Len(t, decodeLines(t, buf), 2)
}

func TestMeshLogger_WithContextDoesNotLeak(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	child := l.WithContext("provider", "claude")
	l.Info("parent")
	child.Info("child")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "provider")
	assert.Equal(t, "claude", lines[1]["provider"])
}

func TestMeshLogger_DomainHelpers(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.LogLLMCall("gpt-4o", 120, time.Second, true, nil)
	l.LogToolCall("check_stock_levels", time.Millisecond, false, errors.New("missing file"))
	l.LogWorkerCall("inventory_manager", 3, 2, time.Second, nil)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "llm.call.completed", lines[0]["msg"])
	assert.Equal(t, "tool.call.failed", lines[1]["msg"])
	assert.Equal(t, "missing file", lines[1]["error"])
	assert.Equal(t, "worker.node.completed", lines[2]["msg"])
	assert.Equal(t, float64(2), lines[2]["tool_results_filtered"])
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))

	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}
