// Package javascript extracts module imports from JavaScript and TypeScript
// sources.
//
// Sources are parsed with tree-sitter. The extractor collects the string
// specifiers of static imports, re-exports, dynamic import() calls and
// require() calls, skipping type-only imports and exports. Specifiers are then
// resolved against the filesystem:
//
//   - relative and absolute specifiers, with extension inference and
//     index file lookup
//   - aliases such as "@" -> "src", relative to the project root
//   - bare package specifiers through node_modules
//
// Node builtin modules ("fs", "node:path") and specifiers that do not resolve
// are dropped. When the build has a cache, only the parsed specifiers are
// cached; resolution runs on every build.
package javascript

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/eclaireur/pkg/deps"
)

// Name identifies the extractor in logs and prefixes its cache parser names.
const Name = "javascript"

// SourceExtensions lists the file extensions the extractor parses.
var SourceExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// DefaultExtensions lists the extensions tried, in order, when a specifier
// omits one.
var DefaultExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".vue"}

// Options configures the extractor.
type Options struct {
	Extensions []string          // Resolution extensions (default: DefaultExtensions)
	Aliases    map[string]string // Specifier prefix to folder relative to root
}

// Extractor implements [deps.Extractor] for JavaScript and TypeScript.
type Extractor struct {
	extensions []string
	aliases    []alias
}

// New creates an extractor.
func New(opts Options) *Extractor {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return &Extractor{
		extensions: normalizeExtensions(exts),
		aliases:    newAliases(opts.Aliases),
	}
}

// Name returns "javascript".
func (e *Extractor) Name() string { return Name }

// Valid reports whether the file has a JavaScript or TypeScript extension.
func (e *Extractor) Valid(info deps.FileInfo) bool {
	return slices.Contains(SourceExtensions, info.Extension)
}

// ExtractImports parses the file and returns the resolved absolute paths of
// its imports in source order.
func (e *Extractor) ExtractImports(ctx context.Context, info deps.FileInfo, _ deps.Forward, opts deps.ExtractOptions) ([]string, error) {
	// The grammar depends on the extension, so it is part of the parser name.
	specs, err := opts.ParseSpecifiers(ctx, Name+info.Extension, info.Contents, func() ([]string, error) {
		return Specifiers(ctx, info.Contents, info.Extension)
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", info.Filename, err)
	}

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = deps.OSFileSystem{}
	}
	r := resolver{
		fs:         fsys,
		root:       opts.Root,
		extensions: e.extensions,
		aliases:    e.aliases,
	}

	seen := make(map[string]struct{}, len(specs))
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		path, ok := r.resolve(info.Dirname, spec)
		if !ok {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

var _ deps.Extractor = (*Extractor)(nil)
