package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labellens/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value []byte
		ttl   time.Duration
	}{
		{name: "json payload", key: "ref:sugar", value: []byte(`{"found":true,"info":["sweet"]}`), ttl: time.Minute},
		{name: "empty value", key: "ref:empty", value: []byte{}, ttl: time.Minute},
		{name: "no expiry", key: "ref:forever", value: []byte("x"), ttl: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(tt.value) {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	now = now.Add(2 * time.Minute)

	if _, err := cache.Get(ctx, "k"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
	if ok, _ := cache.Exists(ctx, "k"); ok {
		t.Error("Exists() = true for expired key")
	}

	cache.removeExpired()
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", cache.Len())
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	_ = cache.Set(ctx, "k", []byte("abc"), time.Minute)
	got, _ := cache.Get(ctx, "k")
	got[0] = 'z'

	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through Get result: %q", again)
	}
}

func TestMemoryCache_DeleteAndMiss(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	if _, err := cache.Get(ctx, "missing"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}

	_ = cache.Set(ctx, "k", []byte("v"), time.Minute)
	if ok, _ := cache.Exists(ctx, "k"); !ok {
		t.Error("Exists() = false, want true")
	}

	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := cache.Exists(ctx, "k"); ok {
		t.Error("Exists() = true after Delete")
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache()
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
