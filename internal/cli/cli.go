// Package cli implements the eclaireur command-line interface.
//
// # Commands
//
//   - graph: Build the dependency map of an entry point and render it
//   - deps: Print the dependency map as JSON
//   - tree: Print or browse the cluster tree
//   - serve: Serve the dependency map over HTTP
//   - cache: Manage the extraction cache
//
// # Configuration
//
// Commands read eclaireur.toml from the working directory, or the file named
// by --config. Flags override file settings.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eclaireur/pkg/buildinfo"
	"github.com/matzehuels/eclaireur/pkg/cache"
	"github.com/matzehuels/eclaireur/pkg/config"
	"github.com/matzehuels/eclaireur/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "eclaireur"

// cacheSchema prefixes cache keys. Bump it when the cached encoding changes.
const cacheSchema = "v1:"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
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
		Short: "Eclaireur maps the import graph of a source tree",
		Long: `Eclaireur follows module imports from an entry point, groups the files it
finds into nested folder clusters and renders the result as DOT, Mermaid or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, cacheSchema), c.Logger), nil
}

// newCache opens the cache backend named in cfg. An unreachable Redis server
// is an error; an unusable cache directory silently disables caching.
func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.CacheRedis {
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the file cache directory: the configured one, else the
// per-user cache directory (~/.cache/eclaireur on Linux).
func cacheDir(cfg config.Cache) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}
