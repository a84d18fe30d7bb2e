package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Builds run with --no-cache or cache.backend=none
// use it so the runner never has to check for a nil cache.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

// Clear reports zero removed entries.
func (*NullCache) Clear(context.Context) (int, error) { return 0, nil }

func (*NullCache) Close() error { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
