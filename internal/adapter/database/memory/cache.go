package memory

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"taskapp/internal/core/port"
)

// CacheRepository is an in-process cache for single-instance deployments.
type CacheRepository struct {
	cache *gocache.Cache
}

func NewCacheRepository(defaultTTL time.Duration) port.CacheRepository {
	return &CacheRepository{
		cache: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (cr *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cr.cache.Set(key, value, ttl)
	return nil
}

func (cr *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := cr.cache.Get(key)

	if !found {
		return nil, nil
	}

	return value.([]byte), nil
}

func (cr *CacheRepository) Delete(ctx context.Context, key string) error {
	cr.cache.Delete(key)
	return nil
}

func (cr *CacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range cr.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			cr.cache.Delete(key)
		}
	}

	return nil
}

func (cr *CacheRepository) Close() error {
	cr.cache.Flush()
	return nil
}
