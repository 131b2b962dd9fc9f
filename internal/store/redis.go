package store

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisKV implements KV on a Redis server. Values never expire on their own;
// expiry bookkeeping lives in the block records themselves.
type RedisKV struct {
	client *redis.Client
}

var _ KV = (*RedisKV)(nil)

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisKV connects to Redis and verifies the connection.
func NewRedisKV(cfg RedisConfig) (*RedisKV, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisKV{client: client}, nil
}

func redisKey(chatKey, storeKey string) string {
	return "blocklist:" + chatKey + ":" + storeKey
}

func (s *RedisKV) Get(ctx context.Context, chatKey, storeKey string) ([]byte, error) {
	value, err := s.client.Get(ctx, redisKey(chatKey, storeKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *RedisKV) Set(ctx context.Context, chatKey, storeKey string, value []byte) error {
	return s.client.Set(ctx, redisKey(chatKey, storeKey), value, 0).Err()
}

func (s *RedisKV) Close() error {
	return s.client.Close()
}
