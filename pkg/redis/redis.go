package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes the transcript-store connection, sourced from REDIS_*
// environment variables. Timeouts are in seconds.
type Config struct {
	URL          string `split_words:"true" required:"true"`
	DialTimeout  int    `split_words:"true" default:"5"`
	ReadTimeout  int    `split_words:"true" default:"3"`
	WriteTimeout int    `split_words:"true" default:"3"`
	PoolSize     int    `split_words:"true" default:"10"`
}

// Connect parses the URL, applies the configured timeouts and verifies the
// server is reachable before handing the client out. The ping runs under the
// caller's context bounded by the dial timeout, so a dead store fails startup
// fast instead of on the first turn.
func (c *Config) Connect(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.DialTimeout = time.Duration(c.DialTimeout) * time.Second
	opts.ReadTimeout = time.Duration(c.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(c.WriteTimeout) * time.Second
	if c.PoolSize > 0 {
		opts.PoolSize = c.PoolSize
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
