// Package cache keeps VIES lookup results in Redis.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/go-vat/vies"
)

const defaultPingTimeout = 3 * time.Second

// NewUniversal builds the underlying client; tests replace it.
var NewUniversal = func(opt *redis.UniversalOptions) redis.UniversalClient {
	return redis.NewUniversalClient(opt)
}

// Client is a Redis-backed vies.Cache that owns its connection.
type Client struct {
	*Results
	rdb redis.UniversalClient
}

var _ vies.Cache = (*Client)(nil)

// Open connects according to cfg and pings the server once. Invalid
// configuration fails before any dial.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	opt, err := cfg.options()
	if err != nil {
		return nil, err
	}

	rdb := NewUniversal(opt)
	if err := ping(ctx, rdb, cfg.DialTimeout); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", strings.Join(opt.Addrs, ","), err)
	}
	return &Client{Results: NewResults(rdb, cfg), rdb: rdb}, nil
}

// Ping is used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *Client) Close() error { return c.rdb.Close() }

func ping(ctx context.Context, rdb redis.UniversalClient, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return rdb.Ping(ctx).Err()
}
