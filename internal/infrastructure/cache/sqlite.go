package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/labellens/backend/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteCache persists entries in a local SQLite file so lookups survive restarts.
// Expired rows are purged on open and then periodically until Close.
type SQLiteCache struct {
	db   *sql.DB
	now  func() time.Time
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// OpenSQLiteCache opens (or creates) the cache database at path
func OpenSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	return openSQLiteCache(ctx, path, cleanupInterval)
}

func openSQLiteCache(ctx context.Context, path string, purgeEvery time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", domain.ErrCacheUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enable wal: %v", domain.ErrCacheUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %v", domain.ErrCacheUnavailable, err)
	}

	c := &SQLiteCache{
		db:   db,
		now:  time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if _, err := c.Purge(ctx); err != nil {
		db.Close()
		return nil, err
	}
	go c.purgeLoop(purgeEvery)
	return c, nil
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if expiresAt != 0 && c.now().UnixNano() > expiresAt {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

// Set upserts value. A non-positive ttl never expires.
func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = c.now().Add(ttl).UnixNano()
	}
	if value == nil {
		value = []byte{}
	}

	_, err := c.db.ExecContext(ctx, `
INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *SQLiteCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if errors.Is(err, domain.ErrCacheMiss) {
		return false, nil
	}
	return err == nil, err
}

// Purge deletes expired rows and reports how many were removed
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at != 0 AND expires_at < ?`, c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return res.RowsAffected()
}

// Close stops the purge loop and closes the database
func (c *SQLiteCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	<-c.done
	return c.db.Close()
}

func (c *SQLiteCache) purgeLoop(every time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), every)
			_, _ = c.Purge(ctx)
			cancel()
		}
	}
}
