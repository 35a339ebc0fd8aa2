package store

import (
	"context"
	"fmt"
	"sort"

	backend "github.com/redis/go-redis/v9"
)

// defaultRedisPrefix namespaces procflow keys in a shared redis.
const defaultRedisPrefix = "procflow:process:"

// RedisStore persists process documents in Redis, suitable for a team
// sharing processes through a common instance. Each process lives under a
// prefixed key, with a set indexing the stored names.
type RedisStore struct {
	client *backend.Client
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore creates a store connected to the given address.
func NewRedisStore(addr, password string, db int, opts ...RedisOption) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient creates a store from an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(name string) string { return s.prefix + name }

func (s *RedisStore) indexKey() string { return s.prefix + "index" }

// Put saves a process document under its name.
func (s *RedisStore) Put(ctx context.Context, name string, data []byte) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(name), data, 0)
	pipe.SAdd(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save to redis: %w", err)
	}
	return nil
}

// Get retrieves a process document by name.
func (s *RedisStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load from redis: %w", err)
	}
	return data, nil
}

// List returns the names of all stored processes, sorted.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list from redis: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a stored process.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	removed, err := s.client.Del(ctx, s.key(name)).Result()
	if err != nil {
		return fmt.Errorf("delete from redis: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	if err := s.client.SRem(ctx, s.indexKey(), name).Err(); err != nil {
		return fmt.Errorf("update index: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
