package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 60*time.Second, cfg.Connection.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Chaos.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
connection:
  web_server: https://cc.example.com:9443
  cluster: hpc-prod
  username: svc-slurm
  insecure: true
  timeout: 30s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://cc.example.com:9443", cfg.Connection.WebServer)
	assert.Equal(t, "hpc-prod", cfg.Connection.Cluster)
	assert.Equal(t, "svc-slurm", cfg.Connection.Username)
	assert.True(t, cfg.Connection.Insecure)
	assert.Equal(t, 30*time.Second, cfg.Connection.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched fields keep their defaults.
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.Validate())

	cfg.Connection.WebServer = "https://cc.example.com"
	require.Error(t, cfg.Validate())

	cfg.Connection.Cluster = "hpc"
	require.NoError(t, cfg.Validate())

	cfg.Chaos.Enabled = true
	cfg.Chaos.Probability = 1.5
	require.Error(t, cfg.Validate())
}
