package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/config"
)

type Client struct {
	Cli    *redis.Client
	prefix string
}

func NewRedis(cfg *config.Config) (*Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Cli: r, prefix: cfg.Redis.Prefix}, nil
}

func (c *Client) Close() error { return c.Cli.Close() }

func (c *Client) typingKey(convID, userID string) string {
	return fmt.Sprintf("%s:typing:%s:%s", c.prefix, convID, userID)
}

// SetTyping marks userID as typing in the conversation. The TTL enforces
// liveness on the server: an indicator left behind by a vanished client
// expires on its own instead of sticking.
func (c *Client) SetTyping(ctx context.Context, convID, userID string, ttl time.Duration) error {
	return c.Cli.Set(ctx, c.typingKey(convID, userID), "1", ttl).Err()
}

func (c *Client) ClearTyping(ctx context.Context, convID, userID string) error {
	return c.Cli.Del(ctx, c.typingKey(convID, userID)).Err()
}

// TypingUsers returns the ids of users currently typing in the conversation.
func (c *Client) TypingUsers(ctx context.Context, convID string) ([]string, error) {
	pattern := fmt.Sprintf("%s:typing:%s:*", c.prefix, convID)
	var out []string
	iter := c.Cli.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		idx := strings.LastIndex(key, ":")
		if idx >= 0 && idx+1 < len(key) {
			out = append(out, key[idx+1:])
		}
	}
	return out, iter.Err()
}
