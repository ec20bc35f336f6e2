// Package redis implements repository.KVStore on a Redis server.
//
// Each logical key is stored as a plain Redis string under a configurable
// prefix ("notekeeper:notes_app_data"), so several apps can share one server.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sakif/notekeeper/internal/repository"
)

var _ repository.KVStore = (*Store)(nil)

// Store wraps a go-redis client.
type Store struct {
	client *goredis.Client
	prefix string
}

// New connects to the server described by url and verifies it with PING.
//
// url is normally a redis:// URL. A bare "host:port" is accepted too and used
// as the address directly.
func New(ctx context.Context, url, prefix string) (*Store, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		opt = &goredis.Options{Addr: url}
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: pinging %s: %w", opt.Addr, err)
	}

	return NewWithClient(client, prefix), nil
}

// NewWithClient wraps an existing client. The Store takes ownership and closes
// it in Close.
func NewWithClient(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Load(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		// goredis.Nil is the "no such key" reply, not a failure.
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis: loading key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Save(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis: saving key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
