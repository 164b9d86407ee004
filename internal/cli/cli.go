// Package cli implements the copperline command-line interface.
//
// This package provides commands for autorouting board documents, running
// design rule checks, visualizing the ratsnest, and serving the engine over
// HTTP. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - route: Autoroute the ratsnest connections of a board document
//   - drc: Run design rule checks and report violations
//   - ratsnest: Render the unrouted connectivity as DOT or SVG
//   - serve: Run the routing and DRC HTTP service
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/copperline/copperline/pkg/buildinfo"
	"github.com/copperline/copperline/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "copperline"
)

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
	Config *Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "copperline",
		Short:        "Copperline autoroutes and verifies PCB layouts",
		Long:         `Copperline is a PCB engineering tool: it autoroutes the unrouted connections of a board document with a grid-based wave expansion router and verifies layouts against manufacturing design rules.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to copperline.toml (default: ./copperline.toml, then XDG config)")

	// Register all subcommands
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.drcCommand())
	root.AddCommand(c.ratsnestCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache creates the cache backend selected by configuration. The noCache
// flag and any backend setup failure both degrade to the null cache so a
// broken cache never blocks routing.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Backend == CacheBackendNone {
		return cache.NewNullCache()
	}

	if c.Config.Cache.Backend == CacheBackendRedis {
		var backend cache.Cache
		err := cache.RetryWithBackoff(ctx, func() error {
			b, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
			if err != nil {
				return cache.Retryable(err)
			}
			backend = b
			return nil
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", c.Config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return backend
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	backend, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return backend
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/copperline/).
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
