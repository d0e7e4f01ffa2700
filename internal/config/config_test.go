package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("BULGLO_DB", "")
	t.Setenv("BULGLO_LOG_LEVEL", "")
	return filepath.Join(dataHome, "bulglo")
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataDir, "bulglo.db"), cfg.DBPath)
	assert.Equal(t, "", cfg.ContentDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, filepath.Join(dataDir, "bulglo.log"), cfg.Log.File)
	assert.Equal(t, 20, cfg.Autosave.Keep)
	assert.Equal(t, 3, cfg.Autosave.MaxAttempts)
}

func TestLoad_DataDirConfigFile(t *testing.T) {
	dataDir := isolate(t)
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(`
log:
  level: warn
  format: json
autosave:
  keep: 5
`), 0o644))

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Autosave.Keep)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: warn\n"), 0o644))
	t.Setenv("BULGLO_LOG_LEVEL", "debug")
	t.Setenv("BULGLO_DB", filepath.Join(t.TempDir(), "x.db"))

	cfg, err := Load(Options{File: file})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "x.db", filepath.Base(cfg.DBPath))
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	isolate(t)
	t.Setenv("BULGLO_LOG_LEVEL", "warn")
	content := t.TempDir()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.String("content", "", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--db", "/tmp/flag.db", "--content", content, "--log-level", "error"}))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.DBPath)
	assert.Equal(t, content, cfg.ContentDir)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("BULGLO_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown log level", map[string]string{"BULGLO_LOG_LEVEL": "chatty"}},
		{"missing content dir", map[string]string{"BULGLO_CONTENT": "/definitely/not/here"}},
		{"keep out of range", map[string]string{"BULGLO_AUTOSAVE_KEEP": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(Options{})
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
