package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/segue/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// SettingsStore implements ports.SettingsStore using Redis.
// Writes are durable on return, so it does not implement ports.DebouncedFlusher.
type SettingsStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*SettingsStore)

// WithTTL sets the expiration of stored blobs. Zero (the default) never expires.
func WithTTL(ttl time.Duration) Option {
	return func(s *SettingsStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *SettingsStore) {
		s.prefix = prefix
	}
}

// New creates a new Redis settings store with options.
func New(address, password string, db int, opts ...Option) *SettingsStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis settings store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *SettingsStore {
	store := &SettingsStore{
		client: client,
		prefix: "segue:settings:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *SettingsStore) key(key string) string {
	return s.prefix + key
}

// Save persists the blob as JSON.
func (s *SettingsStore) Save(ctx context.Context, key string, blob map[string]any) error {
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the blob.
func (s *SettingsStore) Load(ctx context.Context, key string) (map[string]any, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	blob := make(map[string]any)
	if err := json.Unmarshal([]byte(val), &blob); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return blob, nil
}

// Ping checks connectivity.
func (s *SettingsStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *SettingsStore) Close() error {
	return s.client.Close()
}
