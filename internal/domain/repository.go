package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for caching operations. Values are
// opaque bytes; callers own the encoding. Get returns ErrCacheMiss for absent
// or expired keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// TextExtractor turns an uploaded image into raw text (the OCR collaborator)
type TextExtractor interface {
	ExtractText(ctx context.Context, image io.Reader) (string, error)
}

// ReferenceLookup performs the exact, case-insensitive fallback lookup for a
// token missing from the dataset. found is false when no table row matches.
type ReferenceLookup interface {
	Lookup(ctx context.Context, token string) (info []string, found bool, err error)
}

// DatasetProvider hands out the currently loaded dataset
type DatasetProvider interface {
	Current() *Dataset
}

// ChartRenderer renders a tally as an image
type ChartRenderer interface {
	Render(tally Tally) ([]byte, error)
	ContentType() string
}
