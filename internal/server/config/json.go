package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/carbontrack/internal/flagx"
	"github.com/dmitrijs2005/carbontrack/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which accepts both strings
// such as "10s" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http"`
	DatabaseDSN         string         `json:"database_dsn"`
	SecretKey           string         `json:"secret_key"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	LeaderboardCacheTTL timex.Duration `json:"leaderboard_cache_ttl"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
	AllowedOrigin       string         `json:"allowed_origin"`
}

// parseJson loads the JSON file named by -c or -config into config. Only
// keys present with non-empty values replace what is already set. A missing
// flag means no file is loaded; an unreadable or invalid file panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.LogFormat, c.LogFormat)
	overlay(&config.AllowedOrigin, c.AllowedOrigin)
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.LeaderboardCacheTTL.Duration > 0 {
		config.LeaderboardCacheTTL = c.LeaderboardCacheTTL.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
