// Package cache stores built forests so that repeated runs over the same
// relation input can skip assembly and grafting.
//
// Three backends share the [Cache] interface:
//
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys come from a [Keyer]. The default keyer derives forest keys from a
// hash of the relation input plus the build options that change the output.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with hit == false and a nil error. Backend failures are
// returned as errors; callers treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for cached entries.
const (
	// TTLForest is how long a built forest stays cached. Built output only
	// depends on its key, so entries expire to bound disk usage, not to
	// refresh stale data.
	TTLForest = 7 * 24 * time.Hour

	// TTLTerm is how long a single rendered term (DOT, JSON) stays cached.
	TTLTerm = 24 * time.Hour
)

// ForestKeyOpts are the build options that influence a built forest.
type ForestKeyOpts struct {
	Graft   bool `json:"graft"`
	Version int  `json:"version"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ForestKey returns the key of the forest built from input.
	ForestKey(inputHash string, opts ForestKeyOpts) string

	// TermKey returns the key of one rendered term of a built forest.
	TermKey(forestKey, id, format string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ForestKey implements [Keyer].
func (DefaultKeyer) ForestKey(inputHash string, opts ForestKeyOpts) string {
	return hashKey("forest", inputHash, opts)
}

// TermKey implements [Keyer].
func (DefaultKeyer) TermKey(forestKey, id, format string) string {
	return fmt.Sprintf("term:%s:%s:%s", Hash([]byte(forestKey))[:16], format, id)
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
