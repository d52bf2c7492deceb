package cart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store is a durable key-value slot for one serialized snapshot (the cart
// or the favorites set of a single session). Load reports ok=false when
// nothing has been saved yet; callers treat that as an empty collection.
type Store interface {
	Load() ([]byte, bool, error)
	Save(data []byte) error
	Delete() error
}

// MemoryStore keeps the snapshot in memory. Used in tests and for
// sessions that do not need to survive a restart.
type MemoryStore struct {
	data []byte
	ok   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]byte, bool, error) {
	if !s.ok {
		return nil, false, nil
	}
	cp := make([]byte, len(s.data))
	copy(cp, s.data)
	return cp, true, nil
}

func (s *MemoryStore) Save(data []byte) error {
	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.ok = true
	return nil
}

func (s *MemoryStore) Delete() error {
	s.data = nil
	s.ok = false
	return nil
}

// FileStore persists the snapshot as a JSON file on disk, the CLI
// equivalent of the browser's local storage. A missing file loads as
// empty; last write wins if two processes share the file.
type FileStore struct {
	path string
}

func NewFileStore(dir, key string) *FileStore {
	return &FileStore{path: filepath.Join(dir, key+".json")}
}

func (s *FileStore) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, true, nil
}

func (s *FileStore) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", s.path, err)
	}
	return nil
}

// RedisStore persists the snapshot in Redis, keyed per session, expiring
// after the session TTL. Used when a redis address is configured so carts
// survive across nodes.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Load() ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load %s from redis: %w", s.key, err)
	}
	return data, true, nil
}

func (s *RedisStore) Save(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save %s to redis: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Delete() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from redis: %w", s.key, err)
	}
	return nil
}
