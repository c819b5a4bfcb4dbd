package vies

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/vortex-fintech/go-vat/logger"
)

// Cache stores VIES results by Request.Key. A miss is (Result{}, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, r Result) error
}

// CachedChecker serves repeated lookups from a Cache and collapses concurrent
// lookups of the same number into one upstream call. Cache failures are
// logged and otherwise ignored; errors are never cached.
type CachedChecker struct {
	next  Checker
	cache Cache
	group singleflight.Group
	log   logger.LoggerInterface
}

var _ Checker = (*CachedChecker)(nil)

func NewCached(next Checker, cache Cache, log logger.LoggerInterface) *CachedChecker {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedChecker{next: next, cache: cache, log: log}
}

func (c *CachedChecker) Check(ctx context.Context, req Request) (Result, error) {
	key := req.Key()

	if c.cache != nil {
		r, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.log.Warnw("vies: cache get failed", "country", req.CountryCode, "error", err)
		case ok:
			r.Cached = true
			return r, nil
		}
	}

	// The first caller's context drives the shared upstream call.
	v, err, _ := c.group.Do(key, func() (any, error) {
		r, err := c.next.Check(ctx, req)
		if err != nil {
			return Result{}, err
		}
		if c.cache != nil {
			if err := c.cache.Set(ctx, key, r); err != nil {
				c.log.Warnw("vies: cache set failed", "country", req.CountryCode, "error", err)
			}
		}
		return r, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}
