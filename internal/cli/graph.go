package cli

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eclaireur/pkg/config"
	"github.com/matzehuels/eclaireur/pkg/errors"
	"github.com/matzehuels/eclaireur/pkg/pipeline"
	"github.com/matzehuels/eclaireur/pkg/render"
)

type graphFlags struct {
	buildFlags
	formats []string
	output  string
	refresh bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:   "graph [entry]",
		Short: "Render the dependency graph of an entry point",
		Long: `Build the dependency map of an entry point, cluster it by folder and render it.

Without --format, the renderers listed in the config file are used. With
several formats, --output names a base path and each format adds its own
extension.`,
		Example: `  eclaireur graph src/main.ts -f dot -o graph.dot
  eclaireur graph src/main.ts -f mermaid,svg -o docs/deps
  eclaireur graph -x 're:\.spec\.' --abstract src/vendor`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&flags.formats, "format", "f", nil, "output formats: dot, mermaid, svg, png, pdf")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if omitted)")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached specifiers and artifacts")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, args []string, flags *graphFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := flags.load(cmd, args)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	outputs, err := resolveOutputs(runner.Registry, cfg.Renderers, flags.formats, flags.output)
	if err != nil {
		return err
	}

	opts := options(cfg)
	opts.Logger = logger
	opts.Refresh = flags.refresh
	for _, out := range outputs {
		if !slices.Contains(opts.Formats, out.Format) {
			opts.Formats = append(opts.Formats, out.Format)
		}
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Building dependency map...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		if errors.IsFatalBuild(err) {
			spinner.StopWithError("Build failed")
		} else {
			spinner.Stop()
		}
		return err
	}
	spinner.Stop()

	if err := runner.Write(result, outputs, cmd.OutOrStdout()); err != nil {
		return err
	}
	prog.done("Mapped %d files", result.Map.Len())

	printSuccess("Dependency graph of %s", StyleHighlight.Render(relToCwd(cfg.Entry, cfg.Root)))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	for _, out := range outputs {
		if out.Path != "" {
			printFile(out.Path)
		}
	}
	printUnmatched(result.Map.Unmatched())
	return nil
}

// resolveOutputs pairs formats with destinations. Explicit formats win over
// the configured renderers.
func resolveOutputs(reg *render.Registry, configured []config.Output, formats []string, output string) ([]pipeline.Output, error) {
	if len(formats) == 0 {
		if output != "" && len(configured) == 1 {
			return []pipeline.Output{{Format: configured[0].Format, Path: output}}, nil
		}
		outs := make([]pipeline.Output, 0, len(configured))
		for _, r := range configured {
			outs = append(outs, pipeline.Output{Format: r.Format, Path: r.Output})
		}
		for _, o := range outs {
			if _, err := reg.Get(o.Format); err != nil {
				return nil, err
			}
		}
		return outs, nil
	}

	outs := make([]pipeline.Output, 0, len(formats))
	for _, f := range formats {
		r, err := reg.Get(f)
		if err != nil {
			return nil, err
		}
		path := output
		if path != "" && len(formats) > 1 {
			path = strings.TrimSuffix(output, filepath.Ext(output)) + r.Extension()
		}
		outs = append(outs, pipeline.Output{Format: f, Path: path})
	}
	return outs, nil
}

// printUnmatched warns about files kept as leaves because no extractor
// accepted them.
func printUnmatched(keys []string) {
	if len(keys) == 0 {
		return
	}
	printWarning("%d files had no matching extractor and were kept as leaves", len(keys))
	for _, k := range keys {
		printDetail("%s", k)
	}
}

// relToCwd shortens an absolute entry path for display.
func relToCwd(entry, root string) string {
	if !filepath.IsAbs(entry) {
		return entry
	}
	if rel, err := filepath.Rel(root, entry); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return entry
}
