package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "ENVIRONMENT", "CORS_ORIGINS", "PANDOC_PATH",
		"CONVERTER_BACKEND", "PDF_ENGINE", "PDF_MARGIN", "FORMATS_FILE", "SANITIZE_HTML",
		"TEMP_DIR_PREFIX", "LOG_DIR", "LOG_MAX_FILES"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "0.0.0.0:5001", cfg.Addr())
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "pandoc", cfg.PandocPath)
	assert.Equal(t, BackendAuto, cfg.ConverterBackend)
	assert.Equal(t, "xelatex", cfg.PDFEngine)
	assert.Equal(t, "1in", cfg.PDFMargin)
	assert.Equal(t, "pandoc_host_", cfg.TempDirPrefix)
	assert.True(t, cfg.SanitizeHTML)
	assert.Equal(t, 10, cfg.LogMaxFiles)
	assert.Equal(t, []string{"*"}, cfg.CORSOriginList())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9000")
	t.Setenv("CONVERTER_BACKEND", "Builtin")
	t.Setenv("SANITIZE_HTML", "false")
	t.Setenv("LOG_MAX_FILES", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://a.example, ,http://b.example")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, BackendBuiltin, cfg.ConverterBackend)
	assert.False(t, cfg.SanitizeHTML)
	assert.Equal(t, 10, cfg.LogMaxFiles)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOriginList())
}

func TestNewLogger_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Environment: "prod", LogDir: dir, LogMaxFiles: 5}

	var stdout bytes.Buffer
	logger, closeLog, err := NewLogger(cfg, &stdout)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible", "k", "v")
	require.NoError(t, closeLog())

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), `"msg":"visible"`)

	files, err := filepath.Glob(filepath.Join(dir, "pandoc-host-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"pandoc-host-2026-01-01T00-00-00.000.log",
		"pandoc-host-2026-01-02T00-00-00.000.log",
		"pandoc-host-2026-01-03T00-00-00.000.log",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}

	require.NoError(t, cleanupOldLogs(dir, 2))

	_, err := os.Stat(filepath.Join(dir, names[0]))
	assert.True(t, os.IsNotExist(err), "oldest log should be removed")
	for _, n := range names[1:] {
		_, err := os.Stat(filepath.Join(dir, n))
		assert.NoError(t, err)
	}
}
