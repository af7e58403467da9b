package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/eclaireur/pkg/cache"
	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/deps"
	"github.com/matzehuels/eclaireur/pkg/errors"
	eio "github.com/matzehuels/eclaireur/pkg/io"
	"github.com/matzehuels/eclaireur/pkg/observability"
	"github.com/matzehuels/eclaireur/pkg/render"
	"github.com/matzehuels/eclaireur/pkg/scope"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, registry and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *render.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Registry: DefaultRegistry(),
		Logger:   logger,
	}
}

// Execute runs the complete build → cluster → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := r.validate(&opts); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Build
	buildStart := time.Now()
	m, err := r.Build(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.Sorted {
		m = m.Sorted()
	}
	result.Map = m
	result.MapHash = m.Hash()
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = m.Len()
	result.Stats.EdgeCount = m.EdgeCount()
	result.Stats.Unmatched = len(m.Unmatched())

	logger.Info("built dependency map",
		"nodes", m.Len(),
		"edges", m.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Cluster
	clusterStart := time.Now()
	result.Tree = cluster.Build(m.Keys())
	result.Stats.ClusterTime = time.Since(clusterStart)
	result.Stats.ClusterCount = result.Tree.Len()
	observability.Pipeline().OnClusterComplete(ctx, result.Tree.Len(), result.Stats.ClusterTime)

	logger.Debug("clustered", "clusters", result.Tree.Len(), "duration", result.Stats.ClusterTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, m, result.Tree, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build compiles the scope, abstraction folders and extractors of opts and
// walks the dependency map.
func (r *Runner) Build(ctx context.Context, opts Options) (*deps.Map, error) {
	if err := r.validate(&opts); err != nil {
		return nil, err
	}

	sc, err := opts.ScopeConfig().Compile(opts.Root)
	if err != nil {
		return nil, err
	}
	abs, err := scope.NewAbstractions(opts.Root, opts.AbstractFolders)
	if err != nil {
		return nil, err
	}
	extractors, err := Extractors(opts.Extractors, opts.Extensions, opts.Aliases)
	if err != nil {
		return nil, err
	}

	buildOpts := deps.Options{
		Extractors:   extractors,
		Scope:        sc,
		Abstractions: abs,
		FileSystem:   opts.FileSystem,
		Keyer:        r.Keyer,
		Concurrency:  opts.Concurrency,
		CacheTTL:     opts.CacheTTL,
		Logger: func(format string, args ...any) {
			opts.Logger.Warnf(format, args...)
		},
	}
	if !opts.Refresh {
		buildOpts.Cache = r.Cache
	}
	return deps.Build(ctx, opts.Entry, opts.Root, buildOpts)
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts when all of them are present. It reports whether the cache served
// the whole request.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *deps.Map, tree *cluster.Tree, opts Options) (map[string][]byte, bool, error) {
	if err := r.validate(&opts); err != nil {
		return nil, false, err
	}
	for _, f := range opts.Formats {
		if !r.Registry.Has(f) {
			_, err := r.Registry.Get(f)
			return nil, false, err
		}
	}

	// Cluster shape follows insertion order, so artifacts are keyed by the
	// exact serialized map rather than by its order-insensitive hash.
	var buf bytes.Buffer
	if err := eio.WriteJSON(m, &buf); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize map for cache key")
	}
	mapKey := cache.Hash(buf.Bytes())
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(mapKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, "artifact")
				break
			}
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, r.Registry, m, tree, opts.Formats)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(mapKey, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Output is one artifact destination. An empty Path means stdout.
type Output struct {
	Format string
	Path   string
}

// Write stores the artifacts of result at their output paths, creating
// parent directories as needed. Artifacts without a path go to stdout.
func (r *Runner) Write(result *Result, outputs []Output, stdout io.Writer) error {
	for _, out := range outputs {
		data, ok := result.Artifacts[out.Format]
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "no %s artifact in result", out.Format)
		}
		if out.Path == "" {
			if _, err := stdout.Write(data); err != nil {
				return fmt.Errorf("write stdout: %w", err)
			}
			continue
		}
		if dir := filepath.Dir(out.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(out.Path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out.Path, err)
		}
		r.Logger.Debug("wrote artifact", "format", out.Format, "path", out.Path, "bytes", len(data))
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// validate applies defaults and the runner's logger.
func (r *Runner) validate(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
