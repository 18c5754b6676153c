package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trainhub-session/internal/common/config"
	"trainhub-session/internal/models"
)

// RedisStore keeps the token pair under two keys derived from a prefix,
// matching the two durable entries the web client kept in local storage.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Redis-backed token store.
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &RedisStore{client: rdb, keyPrefix: cfg.KeyPrefix}
}

// NewRedisStoreFromClient wraps an existing client, used by tests.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStore) accessKey() string  { return s.keyPrefix + ":accessToken" }
func (s *RedisStore) refreshKey() string { return s.keyPrefix + ":refreshToken" }

func (s *RedisStore) Load(ctx context.Context) (*models.TokenPair, error) {
	access, err := s.client.Get(ctx, s.accessKey()).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	refresh, err := s.client.Get(ctx, s.refreshKey()).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *RedisStore) Save(ctx context.Context, pair *models.TokenPair) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.accessKey(), pair.Access, 0)
	pipe.Set(ctx, s.refreshKey(), pair.Refresh, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.accessKey(), s.refreshKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
