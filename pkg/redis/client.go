// Package redis is a thin wrapper around go-redis/v9 exposing the
// write-then-publish pattern pkg/telemetry needs: every update to a hash
// field is paired with a notification on that hash's key so subscribers
// know which field changed without re-reading the whole hash.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client owns one Redis connection.
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// New connects to addr and verifies it with a PING before returning.
func New(addr, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: connect: %w", err)
	}

	return &Client{client: client, ctx: ctx}, nil
}

// WriteAndPublishString HSets field=value on key and publishes field's name
// on key's channel, in one pipelined round trip.
func (c *Client) WriteAndPublishString(key, field, value string) error {
	pipe := c.client.Pipeline()
	pipe.HSet(c.ctx, key, field, value)
	pipe.Publish(c.ctx, key, field)
	_, err := pipe.Exec(c.ctx)
	return err
}

// WriteAndPublishInt is WriteAndPublishString for integer values.
func (c *Client) WriteAndPublishInt(key, field string, value int) error {
	return c.WriteAndPublishString(key, field, fmt.Sprintf("%d", value))
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
