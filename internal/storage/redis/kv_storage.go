package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

// KVStorage implements the KeyValueStorage interface for Redis
type KVStorage struct {
	client *redis.Client
	logger arbor.ILogger
}

var _ interfaces.KeyValueStorage = (*KVStorage)(nil)

// NewKVStorage creates a Redis-backed KVStorage instance. The
// connection is verified with a ping so an unreachable server surfaces
// at startup rather than on first use.
func NewKVStorage(logger arbor.ILogger, config *common.RedisConfig) (*KVStorage, error) {
	dialTimeout := 2 * time.Second
	if d, err := time.ParseDuration(config.ConnectTimeout); err == nil && d > 0 {
		dialTimeout = d
	}

	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Addr, err)
	}

	logger.Debug().Str("addr", config.Addr).Int("db", config.DB).Msg("Connected to Redis")

	return &KVStorage{
		client: client,
		logger: logger,
	}, nil
}

// Get retrieves a value by key
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", interfaces.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key: %w", err)
	}
	return value, nil
}

// Set inserts or updates a key/value pair. A zero TTL stores the value
// without expiry.
func (s *KVStorage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key/value: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Keys returns all keys with the given prefix. Uses SCAN rather than
// KEYS so large keyspaces do not block the server.
func (s *KVStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		batch, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Ping verifies the server is reachable
func (s *KVStorage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the client connection
func (s *KVStorage) Close() error {
	return s.client.Close()
}
