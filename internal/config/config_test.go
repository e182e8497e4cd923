package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapnode/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultBaseURL, cfg.Provider.BaseURL)
	assert.Equal(t, "tokens.txt", cfg.Files.Tokens)
	assert.Equal(t, "proxies.txt", cfg.Files.Proxies)
	assert.Equal(t, model.DefaultTaskIDs, cfg.Tasks)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, 5.0, cfg.Limits.QPS)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
provider:
  baseURL: http://127.0.0.1:8080/api
  timeoutMs: 1500
files:
  tokens: data/tokens.txt
limits:
  qps: -1
tasks: [a, b]
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/api", cfg.Provider.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Provider.Timeout())
	assert.Equal(t, "data/tokens.txt", cfg.Files.Tokens)
	assert.Equal(t, "proxies.txt", cfg.Files.Proxies)
	assert.Equal(t, -1.0, cfg.Limits.QPS)
	assert.Equal(t, 5, cfg.Limits.Burst)
	assert.Equal(t, []string{"a", "b"}, cfg.Tasks)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "log:\n  level: chatty\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "tasks: [\"a\", \"\"]\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "provider: [not, a, map]\n"))
	require.Error(t, err)
}

func TestDefaultTasksAreCopied(t *testing.T) {
	cfg := Default()
	cfg.Tasks[0] = "changed"
	assert.Equal(t, "task_7", model.DefaultTaskIDs[0])
}
