// Package memory implements repository.KVStore in process memory.
//
// Nothing survives a restart. It backs STORAGE_BACKEND=memory (a scratch
// session) and stands in for a real medium in handler and CLI tests.
package memory

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/sakif/notekeeper/internal/repository"
)

var _ repository.KVStore = (*Store)(nil)

// Store keeps values in a go-cache instance with expiration disabled.
type Store struct {
	cache *cache.Cache
}

// New creates an empty Store.
func New() *Store {
	// NoExpiration plus a zero cleanup interval: entries live until overwritten
	// and no janitor goroutine is started.
	return &Store{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *Store) Load(_ context.Context, key string) (string, bool, error) {
	v, found := s.cache.Get(key)
	if !found {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *Store) Save(_ context.Context, key, value string) error {
	s.cache.Set(key, value, cache.NoExpiration)
	return nil
}

// Close drops every stored value.
func (s *Store) Close() error {
	s.cache.Flush()
	return nil
}
