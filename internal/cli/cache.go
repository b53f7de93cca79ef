package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository and registry response cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Long:  "Remove all cached responses from the configured backend (file or redis).",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case config.CacheRedis:
				backend, err := c.newCache(cmd.Context())
				if err != nil {
					return err
				}
				defer backend.Close()
				n, err := backend.(*cache.RedisCache).Clear(cmd.Context())
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Redis: %s", c.Config.Redis.Addr)
				return nil
			case config.CacheMemory, config.CacheNone:
				printInfo("The %s cache backend keeps nothing between runs", c.Config.Cache.Backend)
				return nil
			}

			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
