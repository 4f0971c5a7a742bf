package cache

import (
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from a URL or plain host:port
// address. An empty or unparseable URL yields nil, which the caches treat
// as "caching disabled".
func NewRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}

	if !strings.HasPrefix(redisURL, "redis://") && !strings.HasPrefix(redisURL, "rediss://") {
		return redis.NewClient(&redis.Options{Addr: redisURL})
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("Invalid Redis URL, caching disabled", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}
