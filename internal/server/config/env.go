package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays settings from environment variables, loading an optional
// .env file first. Unset variables leave the current value untouched.
func parseEnv(cfg *Config) {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	setString := func(key string, target *string) {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}
	setInt := func(key string, target *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}
	setMinutes := func(key string, target *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*target = time.Duration(n) * time.Minute
			}
		}
	}

	setString("ULAK_ADDR", &cfg.EndpointAddr)
	setString("ULAK_API_PREFIX", &cfg.APIPrefix)
	setString("DATABASE_URL", &cfg.DatabaseDSN)
	setString("JWT_SECRET", &cfg.SecretKey)
	setMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", &cfg.AccessTokenValidityDuration)
	setInt("MAX_FAILED_LOGIN_ATTEMPTS", &cfg.MaxFailedLoginAttempts)
	setMinutes("LOCKOUT_MINUTES", &cfg.LockoutDuration)

	setString("STORAGE_TYPE", &cfg.StorageBackend)
	setString("STORAGE_DIR", &cfg.StorageDir)
	setString("S3_BUCKET", &cfg.S3Bucket)
	setString("S3_REGION", &cfg.S3Region)
	setString("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	setString("S3_ACCESS_KEY", &cfg.S3AccessKey)
	setString("S3_SECRET_KEY", &cfg.S3SecretKey)

	if v, ok := os.LookupEnv("IP_ALLOWLIST"); ok {
		cfg.IPAllowlist = splitList(v)
	}
	if v, ok := os.LookupEnv("IP_BLOCKLIST"); ok {
		cfg.IPBlocklist = splitList(v)
	}
}
