// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"anchorsite/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds in-flight booking wizard sessions and the
	// one-shot booking snapshots handed to the confirmation screen.
	SessionCacheClient *redis.Client
	// DataCacheClient holds read-through caches (Sunday lunch menu, reviews).
	DataCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client backing wizard sessions.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Sessions): %v", err)
	}
}

// GetSessionCacheClient returns the session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitDataCache initializes the Redis client for read-through caches.
func InitDataCache() {
	DataCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DataCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetDataCacheClient returns the data cache client.
func GetDataCacheClient() *redis.Client {
	if DataCacheClient == nil {
		InitDataCache()
	}
	return DataCacheClient
}
