package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"server"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetArgs(t)

	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 60*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 5, cfg.MaxFailedLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.LockoutDuration)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, "storage", cfg.StorageDir)
}

func TestLoadConfig_EnvOverlay(t *testing.T) {
	resetArgs(t)
	t.Setenv("ULAK_ADDR", ":9090")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	t.Setenv("STORAGE_TYPE", StorageS3)
	t.Setenv("S3_BUCKET", "transfers")
	t.Setenv("IP_BLOCKLIST", "10.0.0.1, 10.0.0.2,")

	cfg := LoadConfig()

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
	assert.Equal(t, "transfers", cfg.S3Bucket)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.IPBlocklist)
}

func TestLoadConfig_JSONOverlay(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "conf-*.json")
	require.NoError(t, err)
	_, err = file.WriteString(`{
		"endpoint_addr": ":7070",
		"access_token_validity_duration": "45m",
		"lockout_duration": "5m",
		"ip_allowlist": ["192.0.2.1"]
	}`)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	resetArgs(t, "-c", file.Name())

	cfg := LoadConfig()

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 5*time.Minute, cfg.LockoutDuration)
	assert.Equal(t, []string{"192.0.2.1"}, cfg.IPAllowlist)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, 5, cfg.MaxFailedLoginAttempts)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
}

func TestLoadConfig_FlagsWinOverJSON(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "conf-*.json")
	require.NoError(t, err)
	_, err = file.WriteString(`{"endpoint_addr": ":7070", "secret_key": "json-secret"}`)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	resetArgs(t, "-c", file.Name(), "-a", ":6060", "-t", "90", "-b", StorageS3)

	cfg := LoadConfig()

	assert.Equal(t, ":6060", cfg.EndpointAddr)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, 90*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
}

func TestLoadConfig_BrokenJSONPanics(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "conf-*.json")
	require.NoError(t, err)
	_, err = file.WriteString(`{not json`)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	resetArgs(t, "-c", file.Name())

	assert.Panics(t, func() { LoadConfig() })
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b "))
	assert.Equal(t, []string{"a", "b"}, splitList("a,,b,"))
}
