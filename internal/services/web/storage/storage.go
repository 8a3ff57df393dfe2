// Package storage defines the CMS response cache contract.
package storage

import (
	"context"
	"time"
)

// CacheStore persists encoded CMS responses with a time to live.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Purge drops expired entries and reports how many were removed.
	Purge(ctx context.Context) (int64, error)
	Close() error
}
