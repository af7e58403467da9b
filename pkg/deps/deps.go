package deps

import (
	"time"

	"github.com/matzehuels/eclaireur/pkg/cache"
	"github.com/matzehuels/eclaireur/pkg/observability"
	"github.com/matzehuels/eclaireur/pkg/scope"
)

// Options configures a dependency build.
type Options struct {
	Extractors   []ExtractorConfig        // Ordered; first match wins
	Scope        scope.Scope              // Include/exclude/max depth
	Abstractions *scope.Abstractions      // Folders collapsed into one node (optional)
	FileSystem   FileSystem               // Defaults to OSFileSystem
	Cache        cache.Cache              // Parsed specifiers cache (optional)
	Keyer        cache.Keyer              // Defaults to cache.DefaultKeyer
	CacheTTL     time.Duration            // Defaults to cache.TTLSpecifiers
	Concurrency  int                      // Max concurrent extractions (0 = unbounded)
	Hooks        observability.BuildHooks // Defaults to the global build hooks
	Logger       func(string, ...any)     // Progress/warning callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.FileSystem == nil {
		opts.FileSystem = OSFileSystem{}
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.TTLSpecifiers
	}
	if opts.Concurrency < 0 {
		opts.Concurrency = 0
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.Build()
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
