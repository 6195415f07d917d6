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
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestZeroLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatJSON, Level: "info", Writer: &buf})
	require.NoError(t, err)
	ctx := context.Background()

	logger.Debug(ctx, "hidden", nil)
	logger.Info(ctx, "copied", Fields{"path": "a/b.txt", "action": "copy-forward"})
	logger.Error(ctx, "failed", errors.New("boom"), Fields{"path": "c"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "copied", entries[0]["message"])
	assert.Equal(t, "a/b.txt", entries[0]["path"])
	assert.Equal(t, "copy-forward", entries[0]["action"])
	assert.Contains(t, entries[0], "time")

	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestZeroLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatJSON, Level: "debug", Writer: &buf})
	require.NoError(t, err)

	child := logger.WithFields(Fields{"run_id": "r-1"})
	child.Debug(context.Background(), "entry", Fields{"path": "x"})
	logger.Debug(context.Background(), "parent", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "r-1", entries[0]["run_id"])
	assert.Equal(t, "x", entries[0]["path"])
	assert.NotContains(t, entries[1], "run_id")
}

func TestZeroLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatText, Level: "warn", Writer: &buf})
	require.NoError(t, err)

	logger.Info(context.Background(), "quiet", nil)
	logger.Warn(context.Background(), "merge mode overridden", Fields{"merge": "source"})

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "merge mode overridden")
	assert.Contains(t, out, "merge=source")
}

func TestZeroLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "filesync.log")

	logger, err := New(Config{Path: path, Format: FormatJSON})
	require.NoError(t, err)
	logger.Info(context.Background(), "to file", nil)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
}

func TestNewRejectsBadSettings(t *testing.T) {
	_, err := New(Config{Level: "loud", Writer: &bytes.Buffer{}})
	assert.Error(t, err)

	_, err = New(Config{Format: "xml", Writer: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		toFile bool
		want   zerolog.Level
	}{
		{"debug", false, zerolog.DebugLevel},
		{"INFO", false, zerolog.InfoLevel},
		{" warn ", false, zerolog.WarnLevel},
		{"error", false, zerolog.ErrorLevel},
		{"", false, zerolog.WarnLevel},
		{"", true, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input, tt.toFile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNullLogger(t *testing.T) {
	var logger Logger = NewNullLogger()
	logger.Info(context.Background(), "ignored", Fields{"k": "v"})
	assert.Same(t, logger, logger.WithFields(Fields{"a": 1}))
	assert.NoError(t, logger.Close())
}
