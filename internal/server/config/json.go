package config

import (
	"encoding/json"
	"os"

	"github.com/ulak-labs/ulak/internal/flagx"
	"github.com/ulak-labs/ulak/internal/timex"
)

// JSONConfig is the DTO for the optional JSON config file. Duration fields
// accept both "15m" strings and integer nanoseconds.
type JSONConfig struct {
	EndpointAddr string `json:"endpoint_addr"`
	APIPrefix    string `json:"api_prefix"`
	DatabaseDSN  string `json:"database_dsn"`

	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	MaxFailedLoginAttempts      int            `json:"max_failed_login_attempts"`
	LockoutDuration             timex.Duration `json:"lockout_duration"`

	StorageBackend string `json:"storage_backend"`
	StorageDir     string `json:"storage_dir"`

	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`

	IPAllowlist []string `json:"ip_allowlist"`
	IPBlocklist []string `json:"ip_blocklist"`
}

// parseJSON overlays values from the JSON file named by -c/-config, if any.
// Zero-valued fields leave the current setting untouched. An unreadable or
// invalid file panics; a broken explicit config is a startup failure.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.APIPrefix != "" {
		config.APIPrefix = c.APIPrefix
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.MaxFailedLoginAttempts != 0 {
		config.MaxFailedLoginAttempts = c.MaxFailedLoginAttempts
	}
	if c.LockoutDuration.Duration != 0 {
		config.LockoutDuration = c.LockoutDuration.Duration
	}
	if c.StorageBackend != "" {
		config.StorageBackend = c.StorageBackend
	}
	if c.StorageDir != "" {
		config.StorageDir = c.StorageDir
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.S3AccessKey != "" {
		config.S3AccessKey = c.S3AccessKey
	}
	if c.S3SecretKey != "" {
		config.S3SecretKey = c.S3SecretKey
	}
	if c.IPAllowlist != nil {
		config.IPAllowlist = c.IPAllowlist
	}
	if c.IPBlocklist != nil {
		config.IPBlocklist = c.IPBlocklist
	}
}
