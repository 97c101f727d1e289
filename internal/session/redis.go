package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

const keyPrefix = "blogicum:revoked:"

// RedisStore хранит отозванные токены в Redis с TTL до истечения токена
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping().Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	err := s.client.WithContext(ctx).Set(keyPrefix+tokenID, "1", ttl).Err()
	if err != nil {
		return fmt.Errorf("could not revoke token: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.WithContext(ctx).Exists(keyPrefix + tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("could not check token: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
