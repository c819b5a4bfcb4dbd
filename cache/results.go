package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/go-vat/vies"
)

// Store is the subset of redis.Cmdable used by Results.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Results is a vies.Cache storing results as JSON with a fixed TTL.
type Results struct {
	store  Store
	prefix string
	ttl    time.Duration
}

var _ vies.Cache = (*Results)(nil)

func NewResults(store Store, cfg Config) *Results {
	return &Results{store: store, prefix: cfg.keyPrefix(), ttl: cfg.ttl()}
}

func (r *Results) Get(ctx context.Context, key string) (vies.Result, bool, error) {
	raw, err := r.store.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return vies.Result{}, false, nil
	}
	if err != nil {
		return vies.Result{}, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	var res vies.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return vies.Result{}, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return res, true, nil
}

func (r *Results) Set(ctx context.Context, key string, res vies.Result) error {
	res.Cached = false
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}
