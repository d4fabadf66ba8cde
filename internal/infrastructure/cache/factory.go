package cache

import (
	"context"
	"fmt"

	"github.com/labellens/backend/internal/domain"
)

// Backend names accepted by New
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
	TypeSQLite = "sqlite"
)

const redisKeyPrefix = "labellens:"

// Options selects and configures a cache backend
type Options struct {
	Type       string
	RedisURL   string
	SQLitePath string
}

// New opens the backend named by opts.Type
func New(ctx context.Context, opts Options) (domain.CacheRepository, error) {
	switch opts.Type {
	case TypeMemory, "":
		return NewMemoryCache(), nil
	case TypeRedis:
		return NewRedisCache(ctx, opts.RedisURL, redisKeyPrefix)
	case TypeSQLite:
		return OpenSQLiteCache(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown cache type %q", opts.Type)
	}
}
