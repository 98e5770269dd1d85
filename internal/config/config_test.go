package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ADDR", "DATABASE_URL", "SESSION_TTL", "LOG_LEVEL", "REDIS_ADDR",
		"REDIS_PASSWORD", "LOGIN_RATE_LIMIT", "LOGIN_RATE_WINDOW",
		"OIDC_ISSUER", "OIDC_CLIENT_ID", "OIDC_CLIENT_SECRET", "OIDC_REDIRECT_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Empty(t, c.DatabaseURL)
	assert.Equal(t, 30*24*time.Hour, c.SessionTTL)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10, c.LoginRateLimit)
	assert.Equal(t, time.Minute, c.LoginRateWindow)
	assert.False(t, c.SSOEnabled())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/contacts")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("OIDC_ISSUER", "https://id.example.com")
	t.Setenv("OIDC_CLIENT_ID", "contactbook")

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "postgres://localhost/contacts", c.DatabaseURL)
	assert.Equal(t, time.Hour, c.SessionTTL)
	assert.Equal(t, 3, c.LoginRateLimit)
	assert.True(t, c.SSOEnabled())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":9000")
	t.Setenv("SESSION_TTL", "1h")

	c, err := Load([]string{"-addr", ":7000", "-session-ttl", "15m", "-login-rate-limit", "0"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Addr)
	assert.Equal(t, 15*time.Minute, c.SessionTTL)
	assert.Equal(t, 0, c.LoginRateLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "bad ttl env", env: map[string]string{"SESSION_TTL": "soon"}},
		{name: "bad window env", env: map[string]string{"LOGIN_RATE_WINDOW": "x"}},
		{name: "bad limit env", env: map[string]string{"LOGIN_RATE_LIMIT": "ten"}},
		{name: "non-positive ttl", args: []string{"-session-ttl", "0s"}},
		{name: "negative limit", args: []string{"-login-rate-limit", "-1"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.args)
			assert.Error(t, err)
		})
	}
}
