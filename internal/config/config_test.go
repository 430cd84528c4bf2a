package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchWireProtocolDocs(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 720, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.Equal(t, 60, cfg.Window.TargetFPS)
	assert.Equal(t, "localhost:8888", cfg.Command.Addr())
	assert.Equal(t, "localhost:8889", cfg.Web.Addr())
	assert.Equal(t, "idle", cfg.States.Initial)
	assert.Equal(t, 200*time.Millisecond, cfg.States.BlinkDuration)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  width: 1024
command:
  port: 9999
cache:
  store: none
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, 9999, cfg.Command.Port)
	assert.Equal(t, "none", cfg.Cache.Store)
	assert.NotEmpty(t, cfg.Cache.Dir, "cache dir is resolved even when unset")
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 640\n"), 0644))

	t.Setenv("CORTEXFACE_WINDOW_WIDTH", "800")
	t.Setenv("CORTEXFACE_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width, "environment beats the file")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Window.Width = 320
	cfg.Eyes.GlowColor = "#ff00ff"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 320, loaded.Window.Width)
	assert.Equal(t, "#ff00ff", loaded.Eyes.GlowColor)
	assert.Equal(t, cfg.States.BlinkMaxGap, loaded.States.BlinkMaxGap)
}
