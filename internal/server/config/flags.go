package config

import (
	"flag"

	"github.com/dmitrijs2005/carbontrack/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":3000")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   request timeout (e.g., "10s")
//	-ttl duration leaderboard cache TTL
//	-l string     log level
//	-f string     log format, "json" or "text"
//	-o string     allowed CORS origin
//
// The function first filters args to only the flags it recognizes using
// flagx.FilterArgs, so -c and -env handled elsewhere do not collide.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-ttl", "-l", "-f", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.RequestTimeout, "t", config.RequestTimeout, "request timeout")
	fs.DurationVar(&config.LeaderboardCacheTTL, "ttl", config.LeaderboardCacheTTL, "leaderboard cache TTL")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")
	fs.StringVar(&config.AllowedOrigin, "o", config.AllowedOrigin, "allowed CORS origin")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
