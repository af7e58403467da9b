package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eclaireur/pkg/config"
	"github.com/matzehuels/eclaireur/pkg/errors"
	"github.com/matzehuels/eclaireur/pkg/pipeline"
)

// buildFlags are the flags shared by every command that builds a map.
type buildFlags struct {
	config      string
	root        string
	include     []string
	exclude     []string
	maxDepth    int
	abstract    []string
	extractors  []string
	aliases     map[string]string
	concurrency int
	sorted      bool
	noCache     bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "config file (default: ./"+config.DefaultFileName+" if present)")
	fl.StringVar(&f.root, "root", "", "project root (default: config root or .)")
	fl.StringSliceVarP(&f.include, "include", "i", nil, "only follow paths matching these globs (re:<regexp> for regexps)")
	fl.StringSliceVarP(&f.exclude, "exclude", "x", nil, "never follow paths matching these globs")
	fl.IntVarP(&f.maxDepth, "max-depth", "d", 0, "maximum import depth (0 = unlimited)")
	fl.StringSliceVarP(&f.abstract, "abstract", "a", nil, "folders collapsed into a single node")
	fl.StringSliceVar(&f.extractors, "extractors", nil, "extractors to enable (javascript, vue)")
	fl.StringToStringVar(&f.aliases, "alias", nil, "import alias, e.g. @=src")
	fl.IntVar(&f.concurrency, "concurrency", 0, "maximum concurrent extractions (0 = unbounded)")
	fl.BoolVar(&f.sorted, "sorted", false, "sort keys and dependencies for stable output")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the extraction cache")
}

// load reads the configuration file and applies flag overrides. The entry
// point comes from args when given, resolved against the working directory.
func (f *buildFlags) load(cmd *cobra.Command, args []string) (*config.Config, error) {
	path := f.config
	if path == "" {
		path = config.Find(".")
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("root") {
		cfg.Root = f.root
	}
	if fl.Changed("include") {
		cfg.Scope.Include = f.include
	}
	if fl.Changed("exclude") {
		cfg.Scope.Exclude = f.exclude
	}
	if fl.Changed("max-depth") {
		cfg.Scope.MaxDepth = f.maxDepth
	}
	if fl.Changed("abstract") {
		cfg.AbstractFolders = f.abstract
	}
	if fl.Changed("extractors") {
		cfg.Extractors.Enabled = f.extractors
	}
	if fl.Changed("alias") {
		if cfg.Extractors.Aliases == nil {
			cfg.Extractors.Aliases = make(map[string]string)
		}
		for k, v := range f.aliases {
			cfg.Extractors.Aliases[k] = v
		}
	}
	if fl.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if fl.Changed("sorted") {
		cfg.Sorted = f.sorted
	}

	if len(args) > 0 {
		entry, err := filepath.Abs(args[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve entry %q", args[0])
		}
		cfg.Entry = entry
	}
	if cfg.Entry == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no entry point: pass one or set entry in %s", config.DefaultFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// options converts a configuration into pipeline options.
func options(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Root:            cfg.Root,
		Entry:           cfg.Entry,
		Include:         cfg.Scope.Include,
		Exclude:         cfg.Scope.Exclude,
		MaxDepth:        cfg.Scope.MaxDepth,
		AbstractFolders: cfg.AbstractFolders,
		Extractors:      cfg.Extractors.Enabled,
		Extensions:      cfg.Extractors.Extensions,
		Aliases:         cfg.Extractors.Aliases,
		Concurrency:     cfg.Concurrency,
		Sorted:          cfg.Sorted,
		CacheTTL:        cfg.Cache.TTL,
	}
}
