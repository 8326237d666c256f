package cache

// Package cache provides the catalog read cache.

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Provider is a string-valued KV cache with per-key TTLs. Values are
// JSON-encoded catalog payloads.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// ProductKey caches a single product with its sizes and tiers.
func ProductKey(productID string) string {
	return fmt.Sprintf("catalog:product:%s", productID)
}

// ProductListKey caches the active-product listing.
func ProductListKey() string {
	return "catalog:products"
}
