package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Log, cfg.Log)
	assert.Equal(t, defaults.Cache, cfg.Cache)
	assert.Equal(t, 10*time.Second, cfg.Probe.Timeout)
	assert.Empty(t, cfg.Manifest.Path)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log:
  level: debug
  format: json
cache:
  enabled: false
  dir: /var/cache/laos-build
manifest:
  path: /src/laos/laos.yml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "/var/cache/laos-build", cfg.Cache.Dir)
	assert.Equal(t, "/src/laos/laos.yml", cfg.Manifest.Path)
}

func TestLoadConfigEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	t.Setenv("LAOS_BUILD_LOG_LEVEL", "error")
	t.Setenv("LAOS_BUILD_CACHE_ENABLED", "false")
	t.Setenv("LAOS_BUILD_PROBE_TIMEOUT", "3s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Probe.Timeout)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  socket: /tmp/x\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".laos-build", "config.yaml"), ExpandHome("~/.laos-build/config.yaml"))
	assert.Equal(t, "/etc/laos.yaml", ExpandHome("/etc/laos.yaml"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
