package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taskapp/internal/core/port"
)

// CacheRepository backs the cache port with redis so multiple instances
// share one invalidation domain.
type CacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(ctx context.Context, url string) (port.CacheRepository, error) {
	opts, err := redis.ParseURL(url)

	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &CacheRepository{client: client}, nil
}

func (cr *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return cr.client.Set(ctx, key, value, ttl).Err()
}

func (cr *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := cr.client.Get(ctx, key).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return value, nil
}

func (cr *CacheRepository) Delete(ctx context.Context, key string) error {
	return cr.client.Del(ctx, key).Err()
}

func (cr *CacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64

	for {
		keys, next, err := cr.client.Scan(ctx, cursor, prefix+"*", 100).Result()

		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := cr.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		if next == 0 {
			return nil
		}

		cursor = next
	}
}

func (cr *CacheRepository) Close() error {
	return cr.client.Close()
}
