package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/turngate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 18*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 300*time.Second, cfg.SignInTimeout)
	assert.False(t, cfg.AuthEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TURNGATE_CONNECTION_NAME", "entra")
	t.Setenv("TURNGATE_ENDPOINT", "https://recommender.example.com/suggest")
	t.Setenv("TURNGATE_AUTH_REQUIRED", "true")
	t.Setenv("TURNGATE_QUERY_TIMEOUT", "9s")

	cfg := Default().FromEnv()

	assert.Equal(t, "entra", cfg.ConnectionName)
	assert.Equal(t, "https://recommender.example.com/suggest", cfg.Endpoint)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, 9*time.Second, cfg.QueryTimeout)
	assert.True(t, cfg.AuthEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvIgnoresUnsetAndMalformed(t *testing.T) {
	t.Setenv("TURNGATE_AUTH_REQUIRED", "definitely")
	t.Setenv("TURNGATE_QUERY_TIMEOUT", "soon")

	cfg := Default().FromEnv()

	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, 18*time.Second, cfg.QueryTimeout)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	content := "connection_name: entra\nendpoint: https://svc.example.com/suggest\nquery_timeout: 12s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "entra", cfg.ConnectionName)
	assert.Equal(t, 12*time.Second, cfg.QueryTimeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, 300*time.Second, cfg.SignInTimeout)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"auth required without connection", func(c *Config) { c.AuthRequired = true }, "connection_name"},
		{"bad endpoint", func(c *Config) { c.Endpoint = "not a url" }, "endpoint"},
		{"bad profile endpoint", func(c *Config) { c.ProfileEndpoint = "::::" }, "profile_endpoint"},
		{"zero query timeout", func(c *Config) { c.QueryTimeout = 0 }, "query_timeout"},
		{"negative sign-in timeout", func(c *Config) { c.SignInTimeout = -time.Second }, "sign_in_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *core.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.wantErr, cfgErr.Field)
		})
	}
}

func TestValidate_MissingConnectionAloneDegrades(t *testing.T) {
	cfg := Default()
	cfg.Endpoint = "https://svc.example.com/suggest"
	// No connection name: authentication degrades to disabled, not an error.
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.AuthEnabled())
}
