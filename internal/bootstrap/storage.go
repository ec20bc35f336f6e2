// Package bootstrap turns a config.Config into live dependencies.
//
// Both entry points (cmd/server and cmd/notes) go through here, so the choice
// of storage backend is made in exactly one place.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/notekeeper/internal/config"
	"github.com/sakif/notekeeper/internal/repository"
	"github.com/sakif/notekeeper/internal/repository/memory"
	"github.com/sakif/notekeeper/internal/repository/redis"
	"github.com/sakif/notekeeper/internal/repository/sqlite"
	"github.com/sakif/notekeeper/internal/service"
)

// OpenStore connects to the backend named by cfg.StorageBackend.
// The caller owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.KVStore, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		// sqlite creates the file but not its directory.
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("bootstrap: creating database directory %s: %w", dir, err)
		}
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: opening sqlite: %w", err)
		}
		logger.Info("storage ready", slog.String("backend", "sqlite"), slog.String("path", cfg.DBPath))
		return db, nil

	case config.BackendRedis:
		store, err := redis.New(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: connecting to redis: %w", err)
		}
		logger.Info("storage ready", slog.String("backend", "redis"), slog.String("prefix", cfg.RedisPrefix))
		return store, nil

	case config.BackendMemory:
		logger.Warn("storage is in-memory, notes will not survive a restart")
		return memory.New(), nil
	}

	return nil, fmt.Errorf("bootstrap: unknown storage backend %q", cfg.StorageBackend)
}

// OpenEngine opens the configured store and loads an Engine from it.
// On success the caller must Close the returned store when done.
func OpenEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service.Engine, repository.KVStore, error) {
	kv, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	engine, err := service.NewEngine(ctx, kv, logger)
	if err != nil {
		kv.Close()
		return nil, nil, fmt.Errorf("bootstrap: loading engine: %w", err)
	}
	return engine, kv, nil
}
