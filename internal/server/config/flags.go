package config

import (
	"flag"
	"os"
	"time"

	"github.com/ulak-labs/ulak/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l int      lockout window after failed logins, minutes
//	-f int      failed login attempts before lockout
//	-b string   storage backend ("local" or "s3")
//	-o string   storage directory (local backend and S3 spool)
//
// Arguments are filtered through flagx.FilterArgs first, so flags owned by
// other parsers (like -c/-config) do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-f", "-b", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	lockout := fs.Int("l", int(config.LockoutDuration.Minutes()), "login lockout window (in minutes)")
	fs.IntVar(&config.MaxFailedLoginAttempts, "f", config.MaxFailedLoginAttempts, "failed login attempts before lockout")

	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (local or s3)")
	fs.StringVar(&config.StorageDir, "o", config.StorageDir, "storage directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.LockoutDuration = time.Duration(*lockout) * time.Minute
}
