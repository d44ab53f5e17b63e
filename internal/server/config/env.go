package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/carbontrack/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A dotenv file named
// by -env, or ./.env when present, is loaded first; variables already set in
// the process environment are not overridden by it.
//
// Recognised variables:
//
//	PORT                          listen on ":$PORT"
//	CARBON_HTTP_ADDR              full bind address, wins over PORT
//	DATABASE_URL, CARBON_DATABASE_DSN
//	JWT_SECRET, CARBON_SECRET_KEY
//	CARBON_REQUEST_TIMEOUT        Go duration, e.g. "10s"
//	CARBON_LEADERBOARD_CACHE_TTL  Go duration
//	CARBON_LOG_LEVEL, CARBON_LOG_FORMAT
//	CLIENT_ORIGIN, CARBON_ALLOWED_ORIGIN
//
// When both names of a pair are set the CARBON_ one wins. Malformed
// durations panic, like malformed JSON config files.
func parseEnv(config *Config, args []string) {
	if path := flagx.EnvFile(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v := os.Getenv("PORT"); v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	setString(&config.EndpointAddrHTTP, "CARBON_HTTP_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_URL", "CARBON_DATABASE_DSN")
	setString(&config.SecretKey, "JWT_SECRET", "CARBON_SECRET_KEY")
	setDuration(&config.RequestTimeout, "CARBON_REQUEST_TIMEOUT")
	setDuration(&config.LeaderboardCacheTTL, "CARBON_LEADERBOARD_CACHE_TTL")
	setString(&config.LogLevel, "CARBON_LOG_LEVEL")
	setString(&config.LogFormat, "CARBON_LOG_FORMAT")
	setString(&config.AllowedOrigin, "CLIENT_ORIGIN", "CARBON_ALLOWED_ORIGIN")
}

func setString(dst *string, names ...string) {
	for _, n := range names {
		if v, ok := os.LookupEnv(n); ok && v != "" {
			*dst = v
		}
	}
}

func setDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
