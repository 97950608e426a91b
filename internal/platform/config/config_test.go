// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/expensa/internal/platform/config"
)

/*
TestLoad_Defaults verifies the client defaults when nothing is set.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.APIBaseURL)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, config.BackendFile, cfg.TokenBackend)
	assert.Equal(t, "auth_token", cfg.TokenKey)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.RateLimitRPS)
}

/*
TestLoad_Overrides maps environment variables onto the schema.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EXPENSA_API_BASE_URL", "https://api.example.com/v2")
	t.Setenv("EXPENSA_TOKEN_BACKEND", "sqlite")
	t.Setenv("EXPENSA_TOKEN_PATH", "/tmp/creds.db")
	t.Setenv("EXPENSA_HTTP_TIMEOUT", "3s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v2", cfg.APIBaseURL)
	assert.Equal(t, config.BackendSQLite, cfg.TokenBackend)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)

	path, err := cfg.ResolvedTokenPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/creds.db", path)
}

/*
TestValidate rejects inconsistent settings.
*/
func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			APIBaseURL:   "http://localhost:8080/api/v1",
			APIPrefix:    "/api",
			TokenBackend: config.BackendMemory,
			TokenKey:     "auth_token",
		}
	}

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"relative_base_url", func(c *config.Config) { c.APIBaseURL = "/api/v1" }},
		{"prefix_without_slash", func(c *config.Config) { c.APIPrefix = "api" }},
		{"empty_token_key", func(c *config.Config) { c.TokenKey = "" }},
		{"redis_without_url", func(c *config.Config) { c.TokenBackend = config.BackendRedis }},
		{"postgres_without_url", func(c *config.Config) { c.TokenBackend = config.BackendPostgres }},
		{"unknown_backend", func(c *config.Config) { c.TokenBackend = "floppy" }},
		{"negative_rps", func(c *config.Config) { c.RateLimitRPS = -1 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

/*
TestResolvedTokenPath_Default places the slot under the user config dir.
*/
func TestResolvedTokenPath_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)

	cfg := config.Config{TokenBackend: config.BackendSQLite}
	path, err := cfg.ResolvedTokenPath()
	require.NoError(t, err)

	assert.Equal(t, "credentials.db", filepath.Base(path))
	assert.Equal(t, "expensa", filepath.Base(filepath.Dir(path)))
}

/*
TestLoadServer_SecretLength rejects short signing secrets.
*/
func TestLoadServer_SecretLength(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := config.LoadServer()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-much-longer-development-secret")
	cfg, err := config.LoadServer()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
}
