package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/garnizeh/ustabul/pkg/models"
)

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// RedisPublisher publishes each notification as JSON on Channel(user_id).
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, n *models.Notification) error {
	payload, err := encode(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.rdb.Publish(ctx, Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", Channel(n.UserID), err)
	}
	return nil
}
