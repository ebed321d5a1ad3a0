package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is a thin wrapper around go-redis used as a read-through cache
// for the static catalogs (tags, ingredients). The cache is strictly an
// accelerator: every accessor falls back to the database on miss or on any
// redis error, so a dead redis never changes API semantics.
type RedisClient struct {
	inner *redis.Client
}

const (
	// Catalogs are immutable after import, a long TTL is safe.
	CatalogCacheTTL = time.Hour
)

var ctx = context.Background()

func GetRedisClient() *RedisClient {
	return &RedisClient{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		})}
}

// GetCachedJSON reads key and unmarshals it into dest. Returns false on
// cache miss or any redis/unmarshal failure.
func (r *RedisClient) GetCachedJSON(key string, dest interface{}) bool {
	if r == nil {
		return false
	}
	raw, err := r.inner.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

// SetCachedJSON stores v under key with the catalog TTL. Failures are
// ignored, the next read simply goes to the database again.
func (r *RedisClient) SetCachedJSON(key string, v interface{}) {
	if r == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.inner.Set(ctx, key, raw, CatalogCacheTTL)
}
