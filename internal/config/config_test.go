package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDERS", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("REDIS_TIMEOUT_MS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	assert.Equal(t, 5*time.Minute, cfg.Auth.Lockout())
	assert.Equal(t, []string{"gemini", "openai", "groq"}, cfg.Assistant.Providers)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.Timeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDERS", " Groq, ,gemini ")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("AUTH_MAX_FAILED_LOGINS", "not-a-number")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("AI_PROVIDER_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"groq", "gemini"}, cfg.Assistant.Providers)
	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	assert.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Assistant.Timeout())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}
