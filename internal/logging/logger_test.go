package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hardisty/hardisty/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_FieldsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.Debug("hidden")
	logger.With("view", "events").Info("computed", "segments", 4, "error", errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "computed", lines[0]["message"])
	assert.Equal(t, "events", lines[0]["view"])
	assert.Equal(t, float64(4), lines[0]["segments"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Equal(t, "info", lines[0]["level"])
}

func TestLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, zerolog.DebugLevel)
	_ = parent.With("child", true)

	parent.Debug("parent")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	_, has := lines[0]["child"]
	assert.False(t, has)
}

func TestLogger_IgnoresOddAndNonStringKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	logger.Warn("odd", 42, "x", "dangling")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "odd", lines[0]["message"])
	_, has := lines[0]["dangling"]
	assert.False(t, has)
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithBatchID(ctx, "batch-1")
	ctx = WithView(ctx, "kpi")

	DebugCtx(ctx, "tagged")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "batch-1", lines[0]["batch_id"])
	assert.Equal(t, "kpi", lines[0]["view"])

	id, ok := BatchID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "batch-1", id)

	_, ok = BatchID(context.Background())
	assert.False(t, ok)
	assert.Same(t, Global(), FromContext(context.Background()))
}

func TestNewFromConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hardisty.log")

	logger, err := NewFromConfig(config.LoggingConfig{Level: "warn", Format: "json", OutputPath: path})
	require.NoError(t, err)
	assert.False(t, logger.Enabled(zerolog.InfoLevel))
	assert.True(t, logger.Enabled(zerolog.WarnLevel))

	logger.Warn("written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("dropped", "k", "v") })
}
