// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaughan-dsouza/quill/internal/utils"
)

type Config struct {
	Port        string
	DatabaseURL string

	// SecretKey signs session cookies.
	SecretKey     string
	SessionTTL    time.Duration
	SecureCookies bool
	BcryptCost    int

	DBMaxOpen     int
	DBMaxIdle     int
	DBMaxLifetime time.Duration

	LogLevel  string
	LogFormat string
}

// LoadEnvFile loads key=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("config: load %s: %w", path, err)
	}
	return true, nil
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "4000"),
		DatabaseURL: getenv("DATABASE_URL", ""),
		SecretKey:   getenv("SECRET_KEY", "dev"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.SessionTTL, err = utils.ParseTTL(os.Getenv("SESSION_TTL"), 24*time.Hour); err != nil {
		return nil, fmt.Errorf("config: SESSION_TTL: %w", err)
	}
	if cfg.SecureCookies, err = strconv.ParseBool(getenv("SECURE_COOKIES", "false")); err != nil {
		return nil, fmt.Errorf("config: SECURE_COOKIES: %w", err)
	}
	if cfg.BcryptCost, err = getint("BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.DBMaxOpen, err = getint("DB_MAX_OPEN", 25); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdle, err = getint("DB_MAX_IDLE", 25); err != nil {
		return nil, err
	}
	lifetime, err := getint("DB_MAX_LIFETIME", 300) // seconds
	if err != nil {
		return nil, err
	}
	cfg.DBMaxLifetime = time.Duration(lifetime) * time.Second

	return cfg, nil
}

// helper to read env with default
func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
