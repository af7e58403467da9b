package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eclaireur/pkg/config"
	"github.com/matzehuels/eclaireur/pkg/errors"
	"github.com/matzehuels/eclaireur/pkg/pipeline"
)

func parseBuildFlags(t *testing.T, argv ...string) (*buildFlags, *cobra.Command) {
	t.Helper()
	var f buildFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(argv); err != nil {
		t.Fatalf("ParseFlags(%v): %v", argv, err)
	}
	return &f, cmd
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigWithOverrides(t *testing.T) {
	path := writeConfig(t, `
entry = "src/main.ts"
sorted = true

[scope]
max_depth = 2
exclude = ["re:\\.spec\\."]

[extractors.aliases]
"~" = "lib"

[cache]
ttl = "1h"
`)
	f, cmd := parseBuildFlags(t, "--config", path, "--max-depth", "5", "--alias", "@=src", "--concurrency", "4")

	cfg, err := f.load(cmd, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Entry != "src/main.ts" {
		t.Errorf("Entry = %q", cfg.Entry)
	}
	if cfg.Root != filepath.Dir(path) {
		t.Errorf("Root = %q, want config dir %q", cfg.Root, filepath.Dir(path))
	}
	if cfg.Scope.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want flag value 5", cfg.Scope.MaxDepth)
	}
	if !slices.Equal(cfg.Scope.Exclude, []string{`re:\.spec\.`}) {
		t.Errorf("Exclude = %v, want file value", cfg.Scope.Exclude)
	}
	if cfg.Extractors.Aliases["@"] != "src" || cfg.Extractors.Aliases["~"] != "lib" {
		t.Errorf("Aliases = %v, want file and flag aliases merged", cfg.Extractors.Aliases)
	}
	if !cfg.Sorted || cfg.Concurrency != 4 {
		t.Errorf("Sorted = %v, Concurrency = %d", cfg.Sorted, cfg.Concurrency)
	}

	opts := options(cfg)
	if opts.Entry != "src/main.ts" || opts.MaxDepth != 5 || opts.CacheTTL != time.Hour {
		t.Errorf("options() = %+v", opts)
	}
}

func TestLoadEntryArgument(t *testing.T) {
	path := writeConfig(t, `entry = "src/main.ts"`)
	f, cmd := parseBuildFlags(t, "--config", path)

	cfg, err := f.load(cmd, []string{"other.ts"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want, _ := filepath.Abs("other.ts")
	if cfg.Entry != want {
		t.Errorf("Entry = %q, want %q", cfg.Entry, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		args []string
		code errors.Code
	}{
		{"no entry", []string{"--root", "."}, nil, errors.ErrCodeInvalidInput},
		{"missing config", []string{"--config", "does-not-exist.toml"}, []string{"main.ts"}, errors.ErrCodeFileNotFound},
		{"negative depth", []string{"--max-depth=-1"}, []string{"main.ts"}, errors.ErrCodeInvalidConfig},
		{"unknown extractor", []string{"--extractors", "python"}, []string{"main.ts"}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cmd := parseBuildFlags(t, tt.argv...)
			_, err := f.load(cmd, tt.args)
			if !errors.Is(err, tt.code) {
				t.Errorf("load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestResolveOutputs(t *testing.T) {
	reg := pipeline.DefaultRegistry()
	configured := []config.Output{{Format: "dot", Output: "graph.dot"}, {Format: "mermaid"}}

	tests := []struct {
		name    string
		formats []string
		output  string
		want    []pipeline.Output
	}{
		{
			name: "configured renderers",
			want: []pipeline.Output{{Format: "dot", Path: "graph.dot"}, {Format: "mermaid"}},
		},
		{
			name:    "single format to stdout",
			formats: []string{"mermaid"},
			want:    []pipeline.Output{{Format: "mermaid"}},
		},
		{
			name:    "single format keeps output name",
			formats: []string{"svg"},
			output:  "out/deps.image",
			want:    []pipeline.Output{{Format: "svg", Path: "out/deps.image"}},
		},
		{
			name:    "several formats share a base name",
			formats: []string{"dot", "mmd"},
			output:  "out/deps.txt",
			want:    []pipeline.Output{{Format: "dot", Path: "out/deps.dot"}, {Format: "mmd", Path: "out/deps.mmd"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOutputs(reg, configured, tt.formats, tt.output)
			if err != nil {
				t.Fatalf("resolveOutputs: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("resolveOutputs() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := resolveOutputs(reg, configured, []string{"gif"}, ""); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v, want INVALID_FORMAT", err)
	}
}
