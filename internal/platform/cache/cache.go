package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small get/set surface over whatever backing store is configured.
// A miss is reported as ("", nil) so callers fall through to the source of
// truth without branching on a sentinel error.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}

type redisCache struct {
	client      *redis.Client
	serviceName string
}

func NewRedisCache(addr, serviceName string) Cache {
	return &redisCache{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

func (r *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	return value, nil
}

func (r *redisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, operation, key)
}

// nopCache is used when no redis address is configured; every Get is a miss.
type nopCache struct{}

func NewNopCache() Cache { return nopCache{} }

func (nopCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}

func (nopCache) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (nopCache) GenerateKey(operation, key string) string {
	return operation + ":" + key
}
