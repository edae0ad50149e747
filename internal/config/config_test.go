package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var keys = []string{
	"PORT", "DATABASE_URL", "SECRET_KEY", "SESSION_TTL", "SECURE_COOKIES", "BCRYPT_COST",
	"DB_MAX_OPEN", "DB_MAX_IDLE", "DB_MAX_LIFETIME", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "dev", cfg.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, 25, cfg.DBMaxOpen)
	assert.Equal(t, 300*time.Second, cfg.DBMaxLifetime)
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("SESSION_TTL", "30")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("DB_MAX_LIFETIME", "60")
	t.Setenv("DATABASE_URL", "postgres://localhost/quill")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, time.Minute, cfg.DBMaxLifetime)
	assert.Equal(t, "postgres://localhost/quill", cfg.DatabaseURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, val := range map[string]string{
		"SESSION_TTL":    "forever",
		"DB_MAX_OPEN":    "many",
		"BCRYPT_COST":    "99",
		"SECURE_COOKIES": "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	loaded, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_FORMAT=json\n"), 0o600))

	// godotenv does not override variables that already exist, even empty ones.
	require.NoError(t, os.Unsetenv("LOG_FORMAT"))
	loaded, err = LoadEnvFile(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}
