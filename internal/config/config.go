// Package config reads runtime settings from the environment.
//
// An optional .env file in the working directory is loaded first; variables
// already set in the real environment win over it. Every setting has a default
// so a bare `go run ./cmd/server` works out of the box.
//
//	PORT             8080
//	STORAGE_BACKEND  sqlite | redis | memory     (default sqlite)
//	DB_PATH          data/notes.db               (sqlite only)
//	REDIS_URL        redis://localhost:6379/0    (redis only)
//	REDIS_PREFIX     notekeeper:                 (redis only)
//	LOG_LEVEL        debug | info | warn | error (default info)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/notekeeper/internal/apperror"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Port           int
	StorageBackend string
	DBPath         string
	RedisURL       string
	RedisPrefix    string
	LogLevel       string
}

// Load reads .env (if present) and the environment. A missing .env is fine;
// an unreadable one is not.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:           getEnvAsInt("PORT", 8080),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendSQLite),
		DBPath:         getEnv("DB_PATH", "data/notes.db"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix:    getEnv("REDIS_PREFIX", "notekeeper:"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return apperror.ValidationFailed("PORT", fmt.Sprintf("port %d is out of range", c.Port))
	}

	switch c.StorageBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			return apperror.ValidationFailed("DB_PATH", "must not be empty for the sqlite backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return apperror.ValidationFailed("REDIS_URL", "must not be empty for the redis backend")
		}
	case BackendMemory:
	default:
		return apperror.ValidationFailed("STORAGE_BACKEND",
			fmt.Sprintf("unknown backend %q (want sqlite, redis or memory)", c.StorageBackend))
	}

	if _, err := c.SlogLevel(); err != nil {
		return apperror.ValidationFailed("LOG_LEVEL", err.Error())
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "INFO", "warn+2", ...).
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt falls back when the variable is unset. A value that is set but
// not a number becomes 0, which Validate rejects.
func getEnvAsInt(key string, fallback int) int {
	strValue, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(strValue)
	if err != nil {
		return 0
	}
	return value
}
