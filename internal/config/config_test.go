package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
static:
  root: public
  downloads_dir: dl
  job_results_dir: results
  public_base: /assets
retention_seconds: 120
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "public", cfg.Static.Root)
	assert.Equal(t, "dl", cfg.Static.DownloadsDir)
	assert.Equal(t, "results", cfg.Static.JobResultsDir)
	assert.Equal(t, "/assets", cfg.Static.PublicBase)
	assert.Equal(t, 120, cfg.RetentionSeconds)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "static", cfg.Static.Root)
	assert.Equal(t, "downloads", cfg.Static.DownloadsDir)
	assert.Equal(t, "temp", cfg.Static.JobResultsDir)
	assert.Equal(t, "/static", cfg.Static.PublicBase)
	assert.Equal(t, 60, cfg.RetentionSeconds)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
