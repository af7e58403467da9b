package deps

import (
	"context"
	"path/filepath"
	"regexp"
)

// FileInfo is the normalized file metadata handed to extractors.
type FileInfo struct {
	Path      string // Absolute path
	Filename  string // Base name, e.g. "App.vue"
	Dirname   string // Absolute directory
	Extension string // Extension with dot, e.g. ".vue"
	Contents  []byte
}

// NewFileInfo derives the metadata fields from path.
func NewFileInfo(path string, contents []byte) FileInfo {
	return FileInfo{
		Path:      path,
		Filename:  filepath.Base(path),
		Dirname:   filepath.Dir(path),
		Extension: filepath.Ext(path),
		Contents:  contents,
	}
}

// Forward delegates embedded content, such as the script block of a template,
// back to extractor selection. It does not read files and does not recurse
// into the returned imports.
type Forward func(ctx context.Context, info FileInfo) ([]string, error)

// ExtractOptions carries the capabilities available to extractors.
type ExtractOptions struct {
	FileSystem FileSystem
	Root       string
	Specifiers SpecifierCache // Memoizes parse results (optional)
}

// SpecifierCache memoizes the raw import specifiers parsed from source text.
// Only the parse step may be cached. Resolving specifiers to paths depends on
// extractor settings and on the files present at build time, so extractors
// resolve on every call.
type SpecifierCache interface {
	// Specifiers returns the cached specifiers of contents for parser, or
	// calls parse and stores its result.
	Specifiers(ctx context.Context, parser string, contents []byte, parse func() ([]string, error)) ([]string, error)
}

// ParseSpecifiers runs parse through o.Specifiers when one is set. parser
// names the grammar, so sources parsed differently must use different names.
func (o ExtractOptions) ParseSpecifiers(ctx context.Context, parser string, contents []byte, parse func() ([]string, error)) ([]string, error) {
	if o.Specifiers == nil {
		return parse()
	}
	return o.Specifiers.Specifiers(ctx, parser, contents, parse)
}

// Extractor turns file contents into resolved absolute import paths.
// Implementations must be safe for concurrent use, and should parse through
// [ExtractOptions.ParseSpecifiers] so that builds with a cache skip the parse.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string
	// Valid reports whether the extractor handles the file.
	Valid(info FileInfo) bool
	// ExtractImports returns the absolute paths imported by the file.
	ExtractImports(ctx context.Context, info FileInfo, forward Forward, opts ExtractOptions) ([]string, error)
}

// ExtractorConfig pairs an extractor with an optional path test.
type ExtractorConfig struct {
	Test      *regexp.Regexp // nil matches every path
	Extractor Extractor
}

// Select returns the first configured extractor whose test matches the path
// and which reports the file as valid.
func Select(configs []ExtractorConfig, info FileInfo) (Extractor, bool) {
	for _, c := range configs {
		if c.Extractor == nil {
			continue
		}
		if c.Test != nil && !c.Test.MatchString(info.Path) {
			continue
		}
		if c.Extractor.Valid(info) {
			return c.Extractor, true
		}
	}
	return nil, false
}

// NewForward returns a Forward over configs. Content no extractor accepts
// yields no imports.
func NewForward(configs []ExtractorConfig, opts ExtractOptions) Forward {
	var forward Forward
	forward = func(ctx context.Context, info FileInfo) ([]string, error) {
		ex, ok := Select(configs, info)
		if !ok {
			return nil, nil
		}
		return ex.ExtractImports(ctx, info, forward, opts)
	}
	return forward
}

// ExtractorFunc adapts plain functions to the Extractor interface.
type ExtractorFunc struct {
	ID      string
	IsValid func(FileInfo) bool
	Extract func(ctx context.Context, info FileInfo, forward Forward, opts ExtractOptions) ([]string, error)
}

// Name returns f.ID.
func (f ExtractorFunc) Name() string { return f.ID }

// Valid calls f.IsValid; a nil IsValid accepts everything.
func (f ExtractorFunc) Valid(info FileInfo) bool {
	return f.IsValid == nil || f.IsValid(info)
}

// ExtractImports calls f.Extract.
func (f ExtractorFunc) ExtractImports(ctx context.Context, info FileInfo, forward Forward, opts ExtractOptions) ([]string, error) {
	if f.Extract == nil {
		return nil, nil
	}
	return f.Extract(ctx, info, forward, opts)
}
