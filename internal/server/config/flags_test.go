package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "3s",
				"-ttl", "2m", "-l", "debug", "-f", "text", "-o", "http://app",
			},
			expected: &Config{
				EndpointAddrHTTP:    "127.0.0.1:9090",
				DatabaseDSN:         "db",
				SecretKey:           "secret",
				RequestTimeout:      3 * time.Second,
				LeaderboardCacheTTL: 2 * time.Minute,
				LogLevel:            "debug",
				LogFormat:           "text",
				AllowedOrigin:       "http://app",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "-env", ".env", "-s=k", "-test.v"},
			expected: &Config{SecretKey: "k"},
		},
		{
			name:        "bad duration panics",
			args:        []string{"-t", "later"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
