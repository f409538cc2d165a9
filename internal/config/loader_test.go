package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9191
  mode: release
database:
  host: db.example.com
  user: pipeline
  password: secret
llm:
  model: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	// Defaults fill the rest.
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultChemistryBaseURL, cfg.Chemistry.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadInvalidConfigFailsValidation(t *testing.T) {
	path := writeTempConfig(t, `
server:
  mode: staging
database:
  user: pipeline
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("MOLFORGE_DATABASE_USER", "envuser")
	t.Setenv("MOLFORGE_DATABASE_HOST", "env-db")
	t.Setenv("MOLFORGE_SERVER_PORT", "8900")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "envuser", cfg.Database.User)
	assert.Equal(t, "env-db", cfg.Database.Host)
	assert.Equal(t, 8900, cfg.Server.Port)
}

func TestMustLoadPanicsOnError(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustLoad("/nonexistent/config.yaml")
	})
}
