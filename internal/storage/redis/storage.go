// Package redis keeps records in Redis, one string value per record key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/ofelia/internal/storage"
)

// Config holds connection settings
type Config struct {
	URL          string // e.g. redis://localhost:6379/0
	PoolSize     int
	MinIdleConns int
	// KeyPrefix namespaces every record key so several deployments can share one server.
	// Empty stores keys as-is.
	KeyPrefix string
	// ConnectTimeout bounds the startup ping
	ConnectTimeout time.Duration
}

// DefaultConfig returns the settings used when only REDIS_URL is given
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		KeyPrefix:      "ofelia",
		ConnectTimeout: 5 * time.Second,
	}
}

// Storage implements storage.KV on a Redis client
type Storage struct {
	client *redis.Client
	prefix string
}

var _ storage.KV = (*Storage)(nil)

// New connects and pings the server, failing fast when it is unreachable
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	s := NewWithClient(redis.NewClient(opts), cfg)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return s, nil
}

// NewWithClient wraps an existing client without pinging it
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, prefix: cfg.KeyPrefix}
}

// Ping checks the server is reachable
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool
func (s *Storage) Close() error {
	return s.client.Close()
}

// Get returns storage.ErrKeyNotFound for a missing key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set writes without expiry; records live until replaced
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Storage) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
