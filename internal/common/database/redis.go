// internal/common/database/redis.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/intent"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the connection behind Redis list training sources.
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("database.redis.address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})
	return &RedisClient{Client: rdb}, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.Client.Options().Addr, err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

func (c *RedisClient) GetClient() *redis.Client {
	return c.Client
}

// AppendTrainingRecords pushes records as JSON objects onto the tail of the
// list at key, in order, and returns the new list length.
func (c *RedisClient) AppendTrainingRecords(ctx context.Context, key string, records ...intent.TrainingRecord) (int64, error) {
	if len(records) == 0 {
		return c.Client.LLen(ctx, key).Result()
	}
	values := make([]interface{}, 0, len(records))
	for _, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return 0, err
		}
		values = append(values, string(raw))
	}
	n, err := c.Client.RPush(ctx, key, values...).Result()
	if err != nil {
		return 0, fmt.Errorf("rpush %s: %w", key, err)
	}
	return n, nil
}
