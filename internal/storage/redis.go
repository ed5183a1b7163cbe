package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists blobs in redis, for deployments where the profile is
// shared between hosts. Values carry no TTL; this is the durable medium,
// not a cache.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context, key string) (json.RawMessage, Status) {
	data, err := r.client.Get(ctx, blobKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, StatusAbsent
	}
	if err != nil {
		log.Printf("storage: redis get %q failed: %v", key, err)
		return nil, StatusAbsent
	}
	return data, StatusOK
}

func (r *RedisStore) Save(ctx context.Context, key string, blob json.RawMessage) Status {
	if err := r.client.Set(ctx, blobKey(key), []byte(blob), 0).Err(); err != nil {
		log.Printf("storage: redis set %q failed: %v", key, err)
		return StatusFailed
	}
	return StatusOK
}

func (r *RedisStore) Clear(ctx context.Context, key string) Status {
	if err := r.client.Del(ctx, blobKey(key)).Err(); err != nil {
		log.Printf("storage: redis del %q failed: %v", key, err)
		return StatusFailed
	}
	return StatusOK
}

func blobKey(key string) string {
	return fmt.Sprintf("storefront:%s", key)
}
