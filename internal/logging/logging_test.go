package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Config{Level: "warn"}, &buf)
	defer closer.Close()

	logger.Info("dropped")
	logger.Warn("kept", slog.String("expression", "2+3*4"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "2+3*4", rec["expression"])
}

func TestNewIncludeSource(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(Config{IncludeSrc: true}, &buf)
	logger.Info("here")

	var rec struct {
		Source struct {
			File string `json:"file"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "logging_test.go", rec.Source.File)
}

func TestNewToFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "keycalc.log")
	var buf bytes.Buffer
	logger, closer := New(Config{ToFile: true, Filename: name, MaxSize: 1}, &buf)
	logger.Info("both")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"both"`)
	assert.Contains(t, buf.String(), `"msg":"both"`)
}
