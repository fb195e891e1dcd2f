// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"counselbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
)

// RevokedTokenPrefix namespaces revoked-token markers in the auth cache.
const RevokedTokenPrefix = "revoked:"

// InitRedis initializes both Redis clients.
func InitRedis() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Printf("WARNING: Redis cache unavailable: %v", err)
	}
	if _, err := AuthCacheClient.Ping(ctx).Result(); err != nil {
		log.Printf("WARNING: Redis auth cache unavailable: %v", err)
	}
}

// RevokeToken marks a token hash as revoked for the given TTL.
func RevokeToken(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if AuthCacheClient == nil {
		return nil
	}
	return AuthCacheClient.Set(ctx, RevokedTokenPrefix+tokenHash, "1", ttl).Err()
}

// IsTokenRevoked reports whether a token hash has been revoked. Cache errors
// fail open; revocation is an extra guard, not the primary auth check.
func IsTokenRevoked(ctx context.Context, tokenHash string) bool {
	if AuthCacheClient == nil {
		return false
	}
	_, err := AuthCacheClient.Get(ctx, RevokedTokenPrefix+tokenHash).Result()
	return err == nil
}
