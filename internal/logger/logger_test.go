package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "debug", OutputPath: out}, "production")
	require.NoError(t, err)
	log.Debug("hello", zap.String("k", "v"))
	_ = log.Sync()

	data := readLog(t, out)
	assert.Contains(t, data, `"level":"DEBUG"`)
	assert.Contains(t, data, `"msg":"hello"`)
	assert.Contains(t, data, `"k":"v"`)
	assert.Contains(t, data, `"env":"production"`)
	assert.Contains(t, data, `"timestamp"`)
	assert.NotContains(t, data, `"caller"`)
}

func TestNew_DevelopmentWritesConsole(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "debug", OutputPath: out}, EnvDevelopment)
	require.NoError(t, err)
	log.Debug("hello", zap.String("k", "v"))
	_ = log.Sync()

	data := readLog(t, out)
	assert.False(t, strings.HasPrefix(data, "{"), "console output expected, got %q", data)
	assert.Contains(t, data, "hello")
	assert.Contains(t, data, "DEBUG")
	assert.Contains(t, data, "logger_test.go")
}

func TestNew_EncodingOverridesEnv(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Encoding: "JSON", OutputPath: out}, EnvDevelopment)
	require.NoError(t, err)
	log.Info("hello")
	_ = log.Sync()

	data := readLog(t, out)
	assert.True(t, strings.HasPrefix(data, "{"), "json output expected, got %q", data)
	assert.Contains(t, data, `"level":"INFO"`)
}

func TestNew_FallsBackOnBadSettings(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "loud", Encoding: "xml", OutputPath: out}, "production")
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	data := readLog(t, out)
	assert.NotContains(t, data, "hidden")
	assert.Contains(t, data, `"msg":"shown"`)
}
