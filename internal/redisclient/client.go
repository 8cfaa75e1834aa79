package redisclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when an item has no cached availability.
var ErrCacheMiss = errors.New("availability not cached")

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetAvailability caches an item's availability
func (c *Client) SetAvailability(ctx context.Context, itemUUID string, availability int) error {
	return c.rdb.Set(ctx, availabilityKey(itemUUID), availability, 0).Err()
}

// SetAvailabilityBatch caches availability for many items in one round trip
func (c *Client) SetAvailabilityBatch(ctx context.Context, availability map[string]int) error {
	if len(availability) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for itemUUID, count := range availability {
		pipe.Set(ctx, availabilityKey(itemUUID), count, 0)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// GetAvailability retrieves an item's cached availability
func (c *Client) GetAvailability(ctx context.Context, itemUUID string) (int, error) {
	val, err := c.rdb.Get(ctx, availabilityKey(itemUUID)).Result()
	if err == redis.Nil {
		return 0, ErrCacheMiss
	}
	if err != nil {
		return 0, err
	}

	availability, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt availability value for item %s: %w", itemUUID, err)
	}
	return availability, nil
}

// InvalidateAvailability drops an item's cached availability
func (c *Client) InvalidateAvailability(ctx context.Context, itemUUID string) error {
	return c.rdb.Del(ctx, availabilityKey(itemUUID)).Err()
}

func availabilityKey(itemUUID string) string {
	return fmt.Sprintf("availability:%s", itemUUID)
}
