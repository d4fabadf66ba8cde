package reference

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/infrastructure/retry"
	"github.com/labellens/backend/internal/logger"
)

const keyPrefix = "ref:"

// cachedResult is the stored form of a lookup, hit or miss
type cachedResult struct {
	Found bool     `json:"found"`
	Info  []string `json:"info,omitempty"`
}

// CachedLookupConfig configures a CachedLookup
type CachedLookupConfig struct {
	// TTL applies to both found and not-found results
	TTL    time.Duration
	Retry  retry.Config
	Logger logger.Logger
}

// CachedLookup remembers results of another ReferenceLookup and retries its
// transient failures. Cache faults are logged and never fail a lookup.
type CachedLookup struct {
	next   domain.ReferenceLookup
	cache  domain.CacheRepository
	ttl    time.Duration
	retry  retry.Config
	logger logger.Logger
}

// NewCachedLookup wraps next. A nil cache disables caching but keeps retries.
func NewCachedLookup(next domain.ReferenceLookup, cache domain.CacheRepository, config CachedLookupConfig) *CachedLookup {
	log := config.Logger
	if log == nil {
		log = logger.NewNop()
	}
	rc := config.Retry
	if rc.IsRetryable == nil {
		rc.IsRetryable = IsRetryable
	}
	rc.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warn("Retrying reference lookup",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Error(err),
		)
	}

	return &CachedLookup{
		next:   next,
		cache:  cache,
		ttl:    config.TTL,
		retry:  rc,
		logger: log,
	}
}

// IsRetryable reports whether a scraper failure may succeed on another attempt
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryableStatus) || retry.IsTransient(err)
}

func (c *CachedLookup) Lookup(ctx context.Context, token string) ([]string, bool, error) {
	key := keyPrefix + token

	if res, ok := c.fromCache(ctx, key); ok {
		return res.Info, res.Found, nil
	}

	var res cachedResult
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		info, found, err := c.next.Lookup(ctx, token)
		if err != nil {
			return err
		}
		res = cachedResult{Found: found, Info: info}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	c.toCache(ctx, key, res)
	return res.Info, res.Found, nil
}

func (c *CachedLookup) fromCache(ctx context.Context, key string) (cachedResult, bool) {
	var res cachedResult
	if c.cache == nil {
		return res, false
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.logger.Warn("Reference cache read failed", logger.String("key", key), logger.Error(err))
		}
		return res, false
	}

	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("Discarding corrupt reference cache entry", logger.String("key", key), logger.Error(err))
		_ = c.cache.Delete(ctx, key)
		return res, false
	}
	return res, true
}

func (c *CachedLookup) toCache(ctx context.Context, key string, res cachedResult) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Reference cache write failed", logger.String("key", key), logger.Error(err))
	}
}
