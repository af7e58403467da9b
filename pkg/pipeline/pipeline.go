// Package pipeline provides the build → cluster → render pipeline for
// eclaireur.
//
// The CLI and the HTTP server both run dependency maps through this package so
// that scope compilation, extractor selection, caching and rendering behave the
// same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Walk imports from the entry point into a [deps.Map]
//  2. Cluster: Group the map keys into a [cluster.Tree]
//  3. Render: Emit the map and tree into each requested output format
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Root:    ".",
//	    Entry:   "src/main.ts",
//	    Formats: []string{"dot", "mermaid"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dot := result.Artifacts["dot"]
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eclaireur/pkg/cache"
	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/deps"
	"github.com/matzehuels/eclaireur/pkg/errors"
	"github.com/matzehuels/eclaireur/pkg/scope"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatDOT

// Format constants for output formats.
const (
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
)

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Root            string            `json:"root,omitempty"`
	Entry           string            `json:"entry"`
	Include         []string          `json:"include,omitempty"`
	Exclude         []string          `json:"exclude,omitempty"`
	MaxDepth        int               `json:"max_depth,omitempty"`
	AbstractFolders []string          `json:"abstract_folders,omitempty"`
	Extractors      []string          `json:"extractors,omitempty"`
	Extensions      []string          `json:"extensions,omitempty"`
	Aliases         map[string]string `json:"aliases,omitempty"`
	Concurrency     int               `json:"concurrency,omitempty"`
	Refresh         bool              `json:"refresh,omitempty"` // Ignore cached specifiers and artifacts
	CacheTTL        time.Duration     `json:"-"`                 // Lifetime of cached specifiers

	// Render options
	Formats []string `json:"formats,omitempty"`
	Sorted  bool     `json:"sorted,omitempty"` // Sort keys and dependencies before clustering

	// Runtime options (not serialized)
	FileSystem deps.FileSystem `json:"-"`
	Logger     *log.Logger     `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Map is the dependency map, sorted if Options.Sorted was set.
	Map *deps.Map

	// MapHash is the order-insensitive content hash of Map.
	MapHash string

	// Tree is the cluster tree built from Map's keys.
	Tree *cluster.Tree

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	ClusterCount int
	Unmatched    int
	BuildTime    time.Duration
	ClusterTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits of the render stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Entry == "" {
		return errors.New(errors.ErrCodeInvalidInput, "entry point is required")
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth must be >= 0, got %d", o.MaxDepth)
	}
	if o.Root == "" {
		o.Root = "."
	}
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve root %q", o.Root)
	}
	o.Root = root

	if len(o.Extractors) == 0 {
		o.Extractors = DefaultExtractors()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ScopeConfig returns the scope section of the options.
func (o *Options) ScopeConfig() scope.Config {
	return scope.Config{MaxDepth: o.MaxDepth, Include: o.Include, Exclude: o.Exclude}
}

// ArtifactKeyOpts returns cache key options for rendering format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Sorted: o.Sorted}
}
