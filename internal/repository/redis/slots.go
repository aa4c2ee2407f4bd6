package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/config"
	"github.com/caffeinecoffee/storefront/internal/repository"
)

const keyPrefix = "storefront:"

type SlotStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewConnection opens a redis client and checks it answers
func NewConnection(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewSlotStore creates a slot store on top of a redis client
func NewSlotStore(client *redis.Client, logger *zap.Logger) *SlotStore {
	return &SlotStore{
		client: client,
		logger: logger,
	}
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, slotKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

func (s *SlotStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, slotKey(key), value, ttl).Err(); err != nil {
		s.logger.Error("Failed to write slot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *SlotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, slotKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *SlotStore) Close() error {
	return s.client.Close()
}

func slotKey(key string) string {
	return keyPrefix + key
}
