// Package config loads eclaireur.toml project configuration.
//
// A configuration file names the entry point and root of a project, its scope
// and abstraction folders, the extractors to run, the outputs to render and
// the extraction cache backend:
//
//	root = "."
//	entry = "src/main.ts"
//	abstract_folders = ["src/vendor"]
//
//	[scope]
//	max_depth = 0
//	include = ["src/**"]
//	exclude = ["re:\\.test\\."]
//
//	[extractors]
//	enabled = ["javascript", "vue"]
//	[extractors.aliases]
//	"@" = "src"
//
//	[[renderers]]
//	format = "dot"
//	output = "graph.dot"
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
//
// [Load] applies defaults for every omitted setting and validates the result.
// Relative roots are resolved against the directory holding the file.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/eclaireur/pkg/errors"
	"github.com/matzehuels/eclaireur/pkg/scope"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "eclaireur.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultCacheTTL bounds the lifetime of extraction cache entries.
const DefaultCacheTTL = 7 * 24 * time.Hour

// DefaultServerAddr is the listen address of "eclaireur serve".
const DefaultServerAddr = ":8080"

// KnownExtractors lists the extractor names accepted in extractors.enabled.
var KnownExtractors = []string{"javascript", "vue"}

// Config is the decoded configuration file.
type Config struct {
	Root            string       `toml:"root"`
	Entry           string       `toml:"entry"`
	AbstractFolders []string     `toml:"abstract_folders"`
	Concurrency     int          `toml:"concurrency"`
	Sorted          bool         `toml:"sorted"`
	Scope           scope.Config `toml:"scope"`
	Extractors      Extractors   `toml:"extractors"`
	Renderers       []Output     `toml:"renderers"`
	Cache           Cache        `toml:"cache"`
	Server          Server       `toml:"server"`
}

// Extractors selects and configures the extractors.
type Extractors struct {
	Enabled    []string          `toml:"enabled"`
	Extensions []string          `toml:"extensions"`
	Aliases    map[string]string `toml:"aliases"`
}

// Output is one renderer run and its destination. An empty Output writes to
// stdout.
type Output struct {
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// Cache configures the extraction cache.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads, defaults and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(c.Root) {
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve config dir")
		}
		c.Root = filepath.Join(dir, c.Root)
	}
	return c, nil
}

// Parse decodes TOML data, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Find returns the path of DefaultFileName in dir, or "" if there is none.
func Find(dir string) string {
	p := filepath.Join(dir, DefaultFileName)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p
	}
	return ""
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if len(c.Extractors.Enabled) == 0 {
		c.Extractors.Enabled = slices.Clone(KnownExtractors)
	}
	if len(c.Renderers) == 0 {
		c.Renderers = []Output{{Format: "dot"}}
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks value ranges and enumerations. Patterns are validated when
// the scope is compiled.
func (c *Config) Validate() error {
	if c.Scope.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scope.max_depth must be >= 0, got %d", c.Scope.MaxDepth)
	}
	if c.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be >= 0, got %d", c.Concurrency)
	}
	for _, name := range c.Extractors.Enabled {
		if !slices.Contains(KnownExtractors, name) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown extractor %q (available: %v)", name, KnownExtractors)
		}
	}
	for i, r := range c.Renderers {
		if r.Format == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "renderers[%d]: format is required", i)
		}
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must be positive")
	}
	for _, f := range c.AbstractFolders {
		if filepath.IsAbs(f) {
			return errors.New(errors.ErrCodeInvalidConfig, "abstract folder %q must be relative to root", f)
		}
	}
	return nil
}
