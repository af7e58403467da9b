package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/eclaireur/pkg/cache"
	"github.com/matzehuels/eclaireur/pkg/config"
	"github.com/matzehuels/eclaireur/pkg/pipeline"
	"github.com/matzehuels/eclaireur/pkg/server"
)

type serveFlags struct {
	buildFlags
	addr string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve [entry]",
		Short: "Serve the dependency map over HTTP",
		Long: `Serve the dependency map of an entry point over HTTP. Each request rebuilds
the map, so responses follow edits to the source tree.

Routes:
  GET /api/dependencies    {"file": ["import", ...]} in discovery order
  GET /api/graph.dot       DOT source (also .mmd, .mermaid, .svg, .png, .pdf)
  GET /healthz             liveness`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := flags.load(cmd, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = flags.addr
			}

			// Entries live in memory unless a shared Redis is configured.
			var cc cache.Cache
			switch {
			case flags.noCache || cfg.Cache.Backend == config.CacheNone:
				cc = cache.NewNullCache()
			case cfg.Cache.Backend == config.CacheRedis:
				cc, err = newCache(ctx, cfg.Cache, false)
			default:
				cc, err = cache.NewMemoryCache(cache.DefaultMemoryEntries)
			}
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, cacheSchema), logger)
			defer runner.Close()

			opts := options(cfg)
			opts.Logger = logger

			printInfo("Serving %s on %s", StyleHighlight.Render(relToCwd(cfg.Entry, cfg.Root)), StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
			return server.New(runner, opts, logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default: config server.addr or :8080)")

	return cmd
}

// displayAddr turns a listen address into something a browser accepts.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
