package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8484, cfg.Server.Port)
	assert.Equal(t, "GB", cfg.TMDB.Region)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 5, cfg.TMDB.Timeout)
	assert.Equal(t, DefaultProviders, cfg.Providers.Allowed)
	assert.Empty(t, cfg.TMDB.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COUCHPICK_TMDB_APIKEY", "secret")
	t.Setenv("COUCHPICK_SERVER_PORT", "9000")
	t.Setenv("COUCHPICK_TMDB_REGION", "IE")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.TMDB.APIKey)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "IE", cfg.TMDB.Region)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9191
tmdb:
  apikey: from-file
providers:
  allowed:
    - Netflix
    - BBC iPlayer
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.TMDB.APIKey)
	assert.Equal(t, []string{"Netflix", "BBC iPlayer"}, cfg.Providers.Allowed)
	// Untouched values keep their defaults
	assert.Equal(t, "GB", cfg.TMDB.Region)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrAPIKeyRequired)

	cfg.TMDB.APIKey = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8484}
	assert.Equal(t, "127.0.0.1:8484", cfg.Address())
}
