package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")
	t.Setenv("TRUST_PROXY", "")

	cfg := Load()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 10, cfg.RateLimit.LoginLimit)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Server.TrustProxy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "3600")
	t.Setenv("LOGIN_RATE_WINDOW", "90s")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example,")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "access", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, 90*time.Second, cfg.RateLimit.LoginWindow)
	assert.False(t, cfg.Cookie.Secure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Server.TrustProxy)
}

func TestGetDurationEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, getDurationEnv("SOME_DURATION", time.Minute))
}
