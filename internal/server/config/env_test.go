package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, c *Config)
	}{
		{
			name: "PORT becomes bind address",
			env:  map[string]string{"PORT": "8080"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, ":8080", c.EndpointAddrHTTP)
			},
		},
		{
			name: "CARBON_HTTP_ADDR wins over PORT",
			env:  map[string]string{"PORT": "8080", "CARBON_HTTP_ADDR": "127.0.0.1:9000"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "127.0.0.1:9000", c.EndpointAddrHTTP)
			},
		},
		{
			name: "legacy names",
			env:  map[string]string{"DATABASE_URL": "dsn", "JWT_SECRET": "jwt", "CLIENT_ORIGIN": "http://app"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "dsn", c.DatabaseDSN)
				assert.Equal(t, "jwt", c.SecretKey)
				assert.Equal(t, "http://app", c.AllowedOrigin)
			},
		},
		{
			name: "CARBON_ names win over legacy ones",
			env:  map[string]string{"JWT_SECRET": "jwt", "CARBON_SECRET_KEY": "carbon"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "carbon", c.SecretKey)
			},
		},
		{
			name: "durations and logging",
			env: map[string]string{
				"CARBON_REQUEST_TIMEOUT":       "3s",
				"CARBON_LEADERBOARD_CACHE_TTL": "2m",
				"CARBON_LOG_LEVEL":             "debug",
				"CARBON_LOG_FORMAT":            "text",
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 3*time.Second, c.RequestTimeout)
				assert.Equal(t, 2*time.Minute, c.LeaderboardCacheTTL)
				assert.Equal(t, "debug", c.LogLevel)
				assert.Equal(t, "text", c.LogFormat)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			c := &Config{}
			c.LoadDefaults()
			parseEnv(c, nil)
			tt.check(t, c)
		})
	}
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	clearEnv(t)
	t.Setenv("CARBON_REQUEST_TIMEOUT", "soon")

	c := &Config{}
	require.Panics(t, func() { parseEnv(c, nil) })
}

func TestParseEnv_DotenvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is set, even to "".
	require.NoError(t, os.Unsetenv("CARBON_SECRET_KEY"))
	// Process environment beats the file.
	t.Setenv("CARBON_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CARBON_SECRET_KEY=dotenv-secret\nCARBON_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CARBON_SECRET_KEY") })

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c, []string{"-env", path})

	assert.Equal(t, "dotenv-secret", c.SecretKey)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestParseEnv_MissingDotenvFilePanics(t *testing.T) {
	clearEnv(t)
	c := &Config{}
	require.Panics(t, func() { parseEnv(c, []string{"-env", filepath.Join(t.TempDir(), "nope.env")}) })
}
