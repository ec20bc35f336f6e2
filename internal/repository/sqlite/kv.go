package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/notekeeper/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// If *DB stops satisfying repository.KVStore, this line fails to compile.
var _ repository.KVStore = (*DB)(nil)

// Load returns the value stored under key.
//
// sql.ErrNoRows is not a failure here: it simply means nothing was saved yet,
// which the KVStore contract reports as found=false.
func (db *DB) Load(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`,
		key,
	).Scan(&value)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sqlite: loading key %s: %w", key, err)
	}

	return value, true, nil
}

// Save inserts or replaces the value stored under key.
//
// UPSERT:
// "INSERT ... ON CONFLICT(key) DO UPDATE" keeps a single row per key without a
// separate existence check, and is atomic on its own.
func (db *DB) Save(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving key %s: %w", key, err)
	}

	return nil
}
