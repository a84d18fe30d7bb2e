package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/etymograph/pkg/buildinfo"
	"github.com/matzehuels/etymograph/pkg/cache"
	"github.com/matzehuels/etymograph/pkg/config"
	"github.com/matzehuels/etymograph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "etymograph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Etymograph builds etymology trees from relation tables",
		Long: `Etymograph turns a table of etymological relations into a forest of
ancestry trees, stores it, and lets you browse, analyse and export it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./etymograph.{yaml,yml,toml})")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.chainCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig merges the config file, the environment and the flags of cmd.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	return cfg, nil
}

// addStoreFlags registers the flags selecting the term store.
func addStoreFlags(fs *pflag.FlagSet) {
	fs.String("store", "", "store backend: file (default), sqlite, mongo")
	fs.String("store-path", "", "store directory (file) or database file (sqlite)")
	fs.String("mongo-uri", "", "MongoDB connection string")
	fs.String("database", "", "MongoDB database name")
}

// addCacheFlags registers the flags selecting the build cache.
func addCacheFlags(fs *pflag.FlagSet) {
	fs.String("cache", "", "cache backend: file (default), redis, none")
	fs.String("cache-dir", "", "cache directory (default: ~/.cache/etymograph)")
	fs.String("redis-addr", "", "Redis address for the redis cache")
	fs.Bool("no-cache", false, "disable caching")
}

// =============================================================================
// Backends
// =============================================================================

// openStore opens the configured term store.
func (c *CLI) openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	c.Logger.Debug("opening store", "backend", cfg.Store.Backend, "path", cfg.Store.Path)
	return store.Open(ctx, cfg.Store, cfg.ChunkSize)
}

// newCache opens the configured cache. A file cache that cannot be created
// degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.RedisAddr, Prefix: appName + ":"})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache unavailable, caching disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/etymograph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
