package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	productKeyPrefix = "catalog:product:"
	listKey          = "catalog:products"
)

// Cache wraps Redis helpers for JSON payloads.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client or non-positive ttl disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !c.enabled() || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.enabled() || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Delete drops keys from the cache.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// CachedStore serves reads from Redis and falls through to the wrapped store.
// Cache failures are logged and never fail the read.
type CachedStore struct {
	Store  Store
	Cache  *Cache
	Logger zerolog.Logger
}

// Get returns a product by id.
func (s CachedStore) Get(ctx context.Context, id string) (Product, error) {
	key := productKeyPrefix + id
	var p Product
	if ok, err := s.Cache.GetJSON(ctx, key, &p); err != nil {
		s.Logger.Warn().Err(err).Str("key", key).Msg("catalog cache read")
	} else if ok {
		return p, nil
	}
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if err := s.Cache.SetJSON(ctx, key, p); err != nil {
		s.Logger.Warn().Err(err).Str("key", key).Msg("catalog cache write")
	}
	return p, nil
}

// List returns all products.
func (s CachedStore) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if ok, err := s.Cache.GetJSON(ctx, listKey, &products); err != nil {
		s.Logger.Warn().Err(err).Str("key", listKey).Msg("catalog cache read")
	} else if ok {
		return products, nil
	}
	products, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetJSON(ctx, listKey, products); err != nil {
		s.Logger.Warn().Err(err).Str("key", listKey).Msg("catalog cache write")
	}
	return products, nil
}

// Upsert writes through and invalidates the cached entries.
func (s CachedStore) Upsert(ctx context.Context, p Product) error {
	if err := s.Store.Upsert(ctx, p); err != nil {
		return err
	}
	if err := s.Cache.Delete(ctx, productKeyPrefix+p.ID, listKey); err != nil {
		s.Logger.Warn().Err(err).Str("product_id", p.ID).Msg("catalog cache invalidate")
	}
	return nil
}
