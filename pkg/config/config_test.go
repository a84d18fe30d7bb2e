package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/etymograph/pkg/errors"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntP("workers", "j", 1, "")
	fs.String("store", "", "")
	fs.String("store-path", "", "")
	fs.String("redis-addr", "", "")
	fs.Bool("no-cache", false, "")
	fs.Bool("graft", true, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
	assert.True(t, cfg.Graft)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Empty(t, cfg.File)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "etymograph.yaml", `
input: relations.csv
workers: 3
store:
  backend: sqlite
  path: terms.db
cache:
  ttl: 1h
`)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "etymograph.yaml", cfg.File)
	assert.Equal(t, "relations.csv", cfg.Input)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "terms.db", cfg.Store.Path)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, DefaultDatabase, cfg.Store.Database, "unset keys keep defaults")
}

func TestLoadTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", `
chunk_size = 500
graft = false

[store]
backend = "mongo"
uri = "mongodb://localhost:27017"

[serve]
addr = ":9000"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.False(t, cfg.Graft)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.URI)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "etymograph.yml", "workers: 2\nstore:\n  path: from-file\n")
	t.Setenv("ETYMOGRAPH_WORKERS", "4")
	t.Setenv("ETYMOGRAPH_STORE__PATH", "from-env")
	t.Setenv("ETYMOGRAPH_CACHE__REDIS_ADDR", "localhost:6379")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--workers", "8"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers, "flags beat env")
	assert.Equal(t, "from-env", cfg.Store.Path, "env beats file")
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.True(t, cfg.Graft, "unchanged flags do not override")
}

func TestLoadFlagMapping(t *testing.T) {
	chdir(t, t.TempDir())
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--store", "sqlite", "--store-path", "x.db", "--no-cache", "--graft=false"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "x.db", cfg.Store.Path)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.False(t, cfg.Graft)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	bad := writeFile(t, dir, "bad.toml", "workers = [")
	_, err = Load(bad, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Workers:   1,
			ChunkSize: 10,
			Store:     StoreConfig{Backend: BackendFile},
			Cache:     CacheConfig{Backend: CacheNone},
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, false},
		{"zero chunk", func(c *Config) { c.ChunkSize = 0 }, false},
		{"unknown store", func(c *Config) { c.Store.Backend = "postgres" }, false},
		{"mongo without uri", func(c *Config) { c.Store.Backend = BackendMongo }, false},
		{"mongo with uri", func(c *Config) { c.Store.Backend = BackendMongo; c.Store.URI = "mongodb://x" }, true},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, false},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
			}
		})
	}
}
