package deps

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/eclaireur/pkg/errors"
	"github.com/matzehuels/eclaireur/pkg/observability"
)

// Build walks the imports reachable from entryPoint and returns the
// dependency map keyed relative to root.
//
// A relative entryPoint is resolved against root. Build fails with
// ENTRYPOINT_EXCLUDED if the entry point is out of scope, and with
// EXTRACTION_FAILED if any file cannot be read or extracted; no partial map is
// returned in either case.
func Build(ctx context.Context, entryPoint, root string, opts Options) (*Map, error) {
	opts = opts.WithDefaults()

	if err := errors.ValidatePath(root); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(entryPoint); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve root %q", root)
	}
	entry := entryPoint
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(absRoot, entry)
	}
	entry = normalize(entry)

	if !opts.Scope.Contains(entry) {
		return nil, errors.New(errors.ErrCodeEntrypointExcluded, "entry point %s is not included in scope", entryPoint)
	}

	b := &builder{
		root:    normalize(absRoot),
		opts:    opts,
		m:       NewMap(),
		visited: make(map[string]struct{}),
	}
	b.xopts = ExtractOptions{FileSystem: opts.FileSystem, Root: b.root}
	if opts.Cache != nil {
		b.xopts.Specifiers = &specifierCache{opts: opts}
	}
	b.forward = NewForward(opts.Extractors, b.xopts)
	if opts.Concurrency > 0 {
		b.sem = semaphore.NewWeighted(int64(opts.Concurrency))
	}

	opts.Hooks.OnBuildStart(ctx, entry)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	b.g = g
	g.Go(func() error { return b.visit(gctx, entry, 0) })
	err = g.Wait()

	opts.Hooks.OnBuildComplete(ctx, entry, b.m.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return b.m, nil
}

type builder struct {
	root    string
	opts    Options
	xopts   ExtractOptions
	forward Forward
	sem     *semaphore.Weighted
	g       *errgroup.Group

	mu      sync.Mutex
	m       *Map
	visited map[string]struct{}
}

func (b *builder) visit(ctx context.Context, path string, depth int) error {
	key, full, folder := b.key(path)

	b.mu.Lock()
	if _, seen := b.visited[path]; seen {
		b.mu.Unlock()
		return nil
	}
	b.visited[path] = struct{}{}
	b.m.Add(key, full, folder)
	b.mu.Unlock()

	if b.opts.Scope.Limited(depth) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	imports, err := b.extract(ctx, path)
	if err != nil {
		return err
	}

	for _, imp := range imports {
		imp = normalize(imp)
		if !b.opts.Scope.Contains(imp) {
			continue
		}
		if impKey, _, _ := b.key(imp); impKey != key {
			b.mu.Lock()
			b.m.AddDependency(key, impKey)
			b.mu.Unlock()
		}
		b.g.Go(func() error { return b.visit(ctx, imp, depth+1) })
	}
	return nil
}

// key returns the map key of path, the absolute path the key stands for and
// whether the key is an abstraction folder.
func (b *builder) key(path string) (key, full string, folder bool) {
	full = path
	if f, ok := b.opts.Abstractions.Lookup(path); ok {
		full, folder = f, true
	}
	rel, err := filepath.Rel(b.root, full)
	if err != nil {
		return full, full, folder
	}
	return filepath.ToSlash(rel), full, folder
}

func (b *builder) rel(path string) string {
	if rel, err := filepath.Rel(b.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func (b *builder) extract(ctx context.Context, path string) ([]string, error) {
	if b.sem != nil {
		if err := b.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer b.sem.Release(1)
	}

	contents, err := b.opts.FileSystem.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "read %s", b.rel(path))
	}

	info := NewFileInfo(path, contents)
	ex, ok := Select(b.opts.Extractors, info)
	if !ok {
		b.mu.Lock()
		b.m.AddUnmatched(b.rel(path))
		b.mu.Unlock()
		b.opts.Logger("no extractor matched %s, keeping it as a leaf", b.rel(path))
		b.opts.Hooks.OnUnmatched(ctx, path)
		return nil, nil
	}

	start := time.Now()
	imports, err := ex.ExtractImports(ctx, info, b.forward, b.xopts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "extract %s with %s", b.rel(path), ex.Name())
	}
	b.opts.Hooks.OnFileExtracted(ctx, path, ex.Name(), len(imports), time.Since(start))
	return imports, nil
}

// specifierCache stores parse results in Options.Cache. Read and write
// failures are logged and fall back to parsing.
type specifierCache struct {
	opts Options
}

func (c *specifierCache) Specifiers(ctx context.Context, parser string, contents []byte, parse func() ([]string, error)) ([]string, error) {
	key := c.opts.Keyer.SpecifiersKey(parser, contents)
	if specs, hit := c.get(ctx, key); hit {
		return specs, nil
	}
	specs, err := parse()
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, specs)
	return specs, nil
}

func (c *specifierCache) get(ctx context.Context, key string) ([]string, bool) {
	data, hit, err := c.opts.Cache.Get(ctx, key)
	if err != nil {
		c.opts.Logger("cache read failed: %v", err)
		return nil, false
	}
	var specs []string
	if !hit || json.Unmarshal(data, &specs) != nil {
		observability.Cache().OnCacheMiss(ctx, "specifiers")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "specifiers")
	return specs, true
}

func (c *specifierCache) set(ctx context.Context, key string, specs []string) {
	if specs == nil {
		specs = []string{}
	}
	data, err := json.Marshal(specs)
	if err != nil {
		return
	}
	if err := c.opts.Cache.Set(ctx, key, data, c.opts.CacheTTL); err != nil {
		c.opts.Logger("cache write failed: %v", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "specifiers", len(data))
}

func normalize(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
