package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ashishpimple94/hostel-backend/config"
)

// Redis is nil when REDIS_ADDR is unset; callers must treat the cache as
// optional and fall through to the database.
var Redis *redis.Client

func ConnectRedis(cfg *config.Config) error {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}
	Redis = client
	return nil
}
