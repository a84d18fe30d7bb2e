// Package config loads etymograph settings from defaults, a config file,
// the environment and command-line flags, in increasing order of precedence.
//
// Config files are YAML (etymograph.yaml, etymograph.yml) or TOML
// (etymograph.toml). Environment variables use the ETYMOGRAPH_ prefix, with
// a double underscore separating sections:
//
//	ETYMOGRAPH_WORKERS=8
//	ETYMOGRAPH_STORE__BACKEND=sqlite
//	ETYMOGRAPH_CACHE__REDIS_ADDR=localhost:6379
package config

import (
	"runtime"
	"slices"
	"time"

	"github.com/matzehuels/etymograph/pkg/errors"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Defaults.
const (
	DefaultStorePath = "terms"
	DefaultDatabase  = "etymograph"
	DefaultAddr      = ":8080"
	DefaultChunkSize = 10000
	DefaultCacheTTL  = 7 * 24 * time.Hour
)

// Config is the merged configuration.
type Config struct {
	Input     string `koanf:"input"`
	Output    string `koanf:"output"`
	Workers   int    `koanf:"workers"`
	ChunkSize int    `koanf:"chunk_size"`
	Graft     bool   `koanf:"graft"`

	Store StoreConfig `koanf:"store"`
	Cache CacheConfig `koanf:"cache"`
	Serve ServeConfig `koanf:"serve"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// StoreConfig selects where built terms are persisted.
type StoreConfig struct {
	Backend  string `koanf:"backend"`
	Path     string `koanf:"path"`     // directory (file) or database file (sqlite)
	URI      string `koanf:"uri"`      // mongo connection string
	Database string `koanf:"database"` // mongo database
}

// CacheConfig selects the build cache.
type CacheConfig struct {
	Backend   string        `koanf:"backend"`
	Dir       string        `koanf:"dir"`
	RedisAddr string        `koanf:"redis_addr"`
	TTL       time.Duration `koanf:"ttl"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

func defaults() map[string]any {
	return map[string]any{
		"workers":        runtime.NumCPU(),
		"chunk_size":     DefaultChunkSize,
		"graft":          true,
		"store.backend":  BackendFile,
		"store.path":     DefaultStorePath,
		"store.database": DefaultDatabase,
		"cache.backend":  CacheFile,
		"cache.ttl":      DefaultCacheTTL.String(),
		"serve.addr":     DefaultAddr,
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be at least 1, got %d", c.Workers)
	}
	if c.ChunkSize < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	if !slices.Contains([]string{BackendFile, BackendSQLite, BackendMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.uri is required for the mongo backend")
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis cache")
	}
	return nil
}
