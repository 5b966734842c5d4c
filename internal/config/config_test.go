package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 6, cfg.UsersPageSize)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10000, cfg.SessionMax)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("API_BASE_URL", "http://localhost:9000/api/v1")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("USERS_PAGE_SIZE", "12")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "http://localhost:9000/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 12, cfg.UsersPageSize)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":   {"SESSION_SECRET": ""},
		"bad env":          {"APP_ENV": "staging"},
		"bad timeout":      {"API_TIMEOUT": "soon"},
		"negative ttl":     {"SESSION_TTL": "-1m"},
		"page size zero":   {"USERS_PAGE_SIZE": "0"},
		"page size string": {"USERS_PAGE_SIZE": "six"},
		"session max zero": {"SESSION_MAX": "0"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", "secret")
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}
