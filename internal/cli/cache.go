package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/etymograph/pkg/cache"
	"github.com/matzehuels/etymograph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the build cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	addCacheFlags(cmd.PersistentFlags())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached builds and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.CacheNone {
				printInfo("Caching is disabled")
				return nil
			}

			cc, err := c.newCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Cache is empty")
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.CacheRedis:
				fmt.Println("redis://" + cfg.Cache.RedisAddr)
				return nil
			case config.CacheNone:
				printInfo("Caching is disabled")
				return nil
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Println(dir)
			return nil
		},
	}
}
