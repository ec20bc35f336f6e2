// Package repository defines the storage contract the note engine persists through.
//
// THE PERSISTENCE ADAPTER:
// The engine never talks to a database directly. It only needs a durable
// key-value medium with two operations: read the text stored under a key, and
// overwrite it. Anything that can do that (SQLite, Redis, an in-memory map in
// tests) can back the engine:
//
//	repository/sqlite  → a single-file database, the default
//	repository/redis   → a Redis server (local or remote)
//	repository/memory  → process memory, lost on exit
package repository

import (
	"context"
)

// Fixed logical keys. The values match the keys earlier browser-based versions
// of the app used, so exported data keeps its meaning.
const (
	NotesKey = "notes_app_data"
	ThemeKey = "notes_app_theme"
)

// KVStore is a minimal durable key-value medium.
//
// Load reports found=false (and a nil error) when nothing is stored under key.
// Save replaces whatever was stored before.
type KVStore interface {
	Load(ctx context.Context, key string) (value string, found bool, err error)
	Save(ctx context.Context, key, value string) error
	Close() error
}
