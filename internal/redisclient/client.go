package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/reserve_copy.lua
var reserveCopyScript string

//go:embed scripts/release_copy.lua
var releaseCopyScript string

// ErrCopyNotCached means the copy status is not present in Redis and
// the caller should fall back to the database.
var ErrCopyNotCached = errors.New("copy status not cached")

type Client struct {
	rdb           *redis.Client
	reserveScript *redis.Script
	releaseScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
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

	return &Client{
		rdb:           rdb,
		reserveScript: redis.NewScript(reserveCopyScript),
		releaseScript: redis.NewScript(releaseCopyScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func copyKey(inventoryID int64) string {
	return fmt.Sprintf("copy:%d", inventoryID)
}

// ReserveCopy atomically flips a copy to checked_out using a Lua script.
// Returns true when the reservation won, false when the copy is already
// checked out, and ErrCopyNotCached when Redis does not know the copy.
func (c *Client) ReserveCopy(ctx context.Context, inventoryID int64) (bool, error) {
	result, err := c.reserveScript.Run(ctx, c.rdb, []string{copyKey(inventoryID)}).Result()
	if err != nil {
		return false, fmt.Errorf("reserve copy script failed: %w", err)
	}

	code, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}

	switch code {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, ErrCopyNotCached
	}
}

// ReleaseCopy atomically flips a copy back to available (compensation).
// Releasing an already available copy reports false.
func (c *Client) ReleaseCopy(ctx context.Context, inventoryID int64) (bool, error) {
	result, err := c.releaseScript.Run(ctx, c.rdb, []string{copyKey(inventoryID)}).Result()
	if err != nil {
		return false, fmt.Errorf("release copy script failed: %w", err)
	}

	code, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}

	switch code {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, ErrCopyNotCached
	}
}

// SetCopyStatus overwrites the cached status of a copy
func (c *Client) SetCopyStatus(ctx context.Context, inventoryID int64, status string) error {
	return c.rdb.Set(ctx, copyKey(inventoryID), status, 0).Err()
}

// GetCopyStatus retrieves the cached status of a copy
func (c *Client) GetCopyStatus(ctx context.Context, inventoryID int64) (string, error) {
	status, err := c.rdb.Get(ctx, copyKey(inventoryID)).Result()
	if err == redis.Nil {
		return "", ErrCopyNotCached
	}
	return status, err
}
