// Package redis provides a Redis-backed CMS cache shared across instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/uslusolutions/clinicweb/internal/services/web/storage"
)

// DefaultKeyPrefix namespaces cache keys.
const DefaultKeyPrefix = "clinicweb:cms:"

const pingTimeout = 5 * time.Second

// Store keeps cache entries in Redis. Expiry is delegated to key TTLs.
type Store struct {
	client    *goredis.Client
	keyPrefix string
}

var _ storage.CacheStore = (*Store)(nil)

// Open connects to the Redis server at rawURL (redis:// or rediss://) and
// verifies the connection.
func Open(ctx context.Context, rawURL string) (*Store, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := goredis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewWithClient(client, ""), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Store{client: client, keyPrefix: keyPrefix}
}

// Get returns the payload stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry: %w", err)
	}
	return payload, true, nil
}

// Set stores payload under key with ttl.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("cache key is required")
	}
	if ttl <= 0 {
		return errors.New("cache ttl must be positive")
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set cache entry: %w", err)
	}
	return nil
}

// Purge is a no-op; Redis expires keys itself.
func (s *Store) Purge(context.Context) (int64, error) {
	return 0, nil
}

// Close closes the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
