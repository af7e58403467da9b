package deps

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/eclaireur/pkg/cache"
	"github.com/matzehuels/eclaireur/pkg/errors"
	"github.com/matzehuels/eclaireur/pkg/scope"
)

// jsonExtractor reads files holding a JSON array of relative imports. With a
// base folder set, imports resolve against root/base instead of the file's
// directory.
type jsonExtractor struct {
	base string

	mu     sync.Mutex
	calls  map[string]int
	parses int
	fail   map[string]error
}

func newJSONExtractor() *jsonExtractor {
	return &jsonExtractor{calls: make(map[string]int), fail: make(map[string]error)}
}

func (e *jsonExtractor) Name() string { return "json" }

func (e *jsonExtractor) Valid(info FileInfo) bool { return info.Extension == ".js" }

func (e *jsonExtractor) ExtractImports(ctx context.Context, info FileInfo, forward Forward, opts ExtractOptions) ([]string, error) {
	e.mu.Lock()
	e.calls[info.Path]++
	err := e.fail[info.Path]
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rel, err := opts.ParseSpecifiers(ctx, "json", info.Contents, func() ([]string, error) {
		e.mu.Lock()
		e.parses++
		e.mu.Unlock()
		var specs []string
		err := json.Unmarshal(info.Contents, &specs)
		return specs, err
	})
	if err != nil {
		return nil, err
	}

	dir := info.Dirname
	if e.base != "" {
		dir = filepath.Join(opts.Root, e.base)
	}
	out := make([]string, 0, len(rel))
	for _, r := range rel {
		out = append(out, filepath.Join(dir, r))
	}
	return out, nil
}

func (e *jsonExtractor) parsed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parses
}

func (e *jsonExtractor) count(path string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[path]
}

func (e *jsonExtractor) total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		n += c
	}
	return n
}

// exampleTree is main.js -> app/{foo,bar}.js -> app/baz.js -> external/file.js.
func exampleTree() *MapFileSystem {
	return NewMapFileSystem(map[string]string{
		"/src/main.js":          `["./app/foo.js", "./app/bar.js"]`,
		"/src/app/foo.js":       `["./baz.js"]`,
		"/src/app/bar.js":       `["./baz.js"]`,
		"/src/app/baz.js":       `["../external/file.js"]`,
		"/src/external/file.js": `[]`,
	})
}

func build(t *testing.T, fsys FileSystem, ex Extractor, opts Options) (*Map, error) {
	t.Helper()
	opts.FileSystem = fsys
	if opts.Extractors == nil {
		opts.Extractors = []ExtractorConfig{{Extractor: ex}}
	}
	return Build(context.Background(), "/src/main.js", "/src", opts)
}

func assertMap(t *testing.T, m *Map, want map[string][]string) {
	t.Helper()
	if m.Len() != len(want) {
		t.Errorf("Len() = %d, want %d (keys %v)", m.Len(), len(want), m.Keys())
	}
	for key, deps := range want {
		got := m.Dependencies(key)
		if _, ok := m.Get(key); !ok {
			t.Errorf("missing key %q", key)
			continue
		}
		slices.Sort(got)
		slices.Sort(deps)
		if !slices.Equal(got, deps) {
			t.Errorf("Dependencies(%q) = %v, want %v", key, got, deps)
		}
	}
}

func TestBuildExample(t *testing.T) {
	ex := newJSONExtractor()
	m, err := build(t, exampleTree(), ex, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	assertMap(t, m, map[string][]string{
		"main.js":          {"app/foo.js", "app/bar.js"},
		"app/foo.js":       {"app/baz.js"},
		"app/bar.js":       {"app/baz.js"},
		"app/baz.js":       {"external/file.js"},
		"external/file.js": {},
	})

	if m.Keys()[0] != "main.js" {
		t.Errorf("first key = %q, want main.js", m.Keys()[0])
	}
	d, _ := m.Get("app/baz.js")
	if d.FullPath != "/src/app/baz.js" || d.IsFolder {
		t.Errorf("baz detail = %+v", d)
	}
	if got := ex.count("/src/app/baz.js"); got != 1 {
		t.Errorf("baz.js extracted %d times, want 1", got)
	}
}

func TestBuildAbstraction(t *testing.T) {
	abs, err := scope.NewAbstractions("/src", []string{"app"})
	if err != nil {
		t.Fatal(err)
	}
	ex := newJSONExtractor()
	m, err := build(t, exampleTree(), ex, Options{Abstractions: abs})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	assertMap(t, m, map[string][]string{
		"main.js":          {"app"},
		"app":              {"external/file.js"},
		"external/file.js": {},
	})

	d, _ := m.Get("app")
	if !d.IsFolder || d.FullPath != "/src/app" {
		t.Errorf("app detail = %+v, want folder /src/app", d)
	}
	for _, f := range []string{"/src/app/foo.js", "/src/app/bar.js", "/src/app/baz.js"} {
		if ex.count(f) != 1 {
			t.Errorf("%s extracted %d times, want 1", f, ex.count(f))
		}
	}
}

func TestBuildExclude(t *testing.T) {
	s := scope.Scope{}
	m, err := scope.Compile("/src", regexp.MustCompile(`app`))
	if err != nil {
		t.Fatal(err)
	}
	s.Exclude = []scope.Matcher{m}

	got, err := build(t, exampleTree(), newJSONExtractor(), Options{Scope: s})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertMap(t, got, map[string][]string{"main.js": {}})
}

func TestBuildIncludeExcludeWins(t *testing.T) {
	s, err := scope.Config{
		Include: []string{"**/*.js"},
		Exclude: []string{"external/**"},
	}.Compile("/src")
	if err != nil {
		t.Fatal(err)
	}

	m, err := build(t, exampleTree(), newJSONExtractor(), Options{Scope: s})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertMap(t, m, map[string][]string{
		"main.js":    {"app/foo.js", "app/bar.js"},
		"app/foo.js": {"app/baz.js"},
		"app/bar.js": {"app/baz.js"},
		"app/baz.js": {},
	})
}

func TestBuildEntrypointExcluded(t *testing.T) {
	s, _ := scope.Config{Exclude: []string{"main.js"}}.Compile("/src")
	ex := newJSONExtractor()

	m, err := build(t, exampleTree(), ex, Options{Scope: s})
	if m != nil {
		t.Error("expected nil map")
	}
	if !errors.Is(err, errors.ErrCodeEntrypointExcluded) {
		t.Fatalf("err = %v, want ENTRYPOINT_EXCLUDED", err)
	}
	if ex.total() != 0 {
		t.Error("no file should be extracted when the entry point is excluded")
	}
}

func TestBuildMaxDepth(t *testing.T) {
	tests := []struct {
		depth int
		want  map[string][]string
	}{
		{1, map[string][]string{
			"main.js":    {"app/foo.js", "app/bar.js"},
			"app/foo.js": {},
			"app/bar.js": {},
		}},
		{2, map[string][]string{
			"main.js":    {"app/foo.js", "app/bar.js"},
			"app/foo.js": {"app/baz.js"},
			"app/bar.js": {"app/baz.js"},
			"app/baz.js": {},
		}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("depth=%d", tt.depth), func(t *testing.T) {
			m, err := build(t, exampleTree(), newJSONExtractor(), Options{Scope: scope.Scope{MaxDepth: tt.depth}})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			assertMap(t, m, tt.want)
		})
	}
}

func TestBuildCycle(t *testing.T) {
	fsys := NewMapFileSystem(map[string]string{
		"/src/main.js": `["./a.js"]`,
		"/src/a.js":    `["./b.js"]`,
		"/src/b.js":    `["./a.js", "./main.js"]`,
	})
	ex := newJSONExtractor()

	m, err := build(t, fsys, ex, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertMap(t, m, map[string][]string{
		"main.js": {"a.js"},
		"a.js":    {"b.js"},
		"b.js":    {"a.js", "main.js"},
	})
	for _, f := range []string{"/src/main.js", "/src/a.js", "/src/b.js"} {
		if ex.count(f) != 1 {
			t.Errorf("%s extracted %d times, want 1", f, ex.count(f))
		}
	}
}

func TestBuildSelfImport(t *testing.T) {
	fsys := NewMapFileSystem(map[string]string{
		"/src/main.js":  `["./main.js", "./lib/a.js"]`,
		"/src/lib/a.js": `["./b.js"]`,
		"/src/lib/b.js": `["./a.js", "../main.js"]`,
	})
	abs, _ := scope.NewAbstractions("/src", []string{"lib"})

	m, err := build(t, fsys, newJSONExtractor(), Options{Abstractions: abs})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertMap(t, m, map[string][]string{
		"main.js": {"lib"},
		"lib":     {"main.js"},
	})
}

func TestBuildFirstAbstractionWins(t *testing.T) {
	abs, _ := scope.NewAbstractions("/src", []string{"app", "app/nested"})
	fsys := NewMapFileSystem(map[string]string{
		"/src/main.js":         `["./app/nested/x.js"]`,
		"/src/app/nested/x.js": `[]`,
	})

	m, err := build(t, fsys, newJSONExtractor(), Options{Abstractions: abs})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertMap(t, m, map[string][]string{"main.js": {"app"}, "app": {}})
}

func TestBuildExtractorErrorAborts(t *testing.T) {
	boom := stderrors.New("boom")
	ex := newJSONExtractor()
	ex.fail["/src/app/baz.js"] = boom

	m, err := build(t, exampleTree(), ex, Options{})
	if m != nil {
		t.Error("expected no partial map")
	}
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Fatalf("err = %v, want EXTRACTION_FAILED", err)
	}
	if !stderrors.Is(err, boom) {
		t.Errorf("err should wrap the extractor error: %v", err)
	}
	if !strings.Contains(err.Error(), "app/baz.js") {
		t.Errorf("err should name the failing file: %v", err)
	}
}

func TestBuildMissingFile(t *testing.T) {
	fsys := NewMapFileSystem(map[string]string{
		"/src/main.js": `["./missing.js"]`,
	})

	_, err := build(t, fsys, newJSONExtractor(), Options{})
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Fatalf("err = %v, want EXTRACTION_FAILED", err)
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("err should wrap fs.ErrNotExist: %v", err)
	}
}

func TestBuildUnmatchedIsLeaf(t *testing.T) {
	fsys := NewMapFileSystem(map[string]string{
		"/src/main.js":   `["./style.css", "./a.js"]`,
		"/src/style.css": `body {}`,
		"/src/a.js":      `[]`,
	})

	var mu sync.Mutex
	var logs []string
	logger := func(format string, args ...any) {
		mu.Lock()
		logs = append(logs, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	m, err := build(t, fsys, newJSONExtractor(), Options{Logger: logger})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertMap(t, m, map[string][]string{
		"main.js":   {"style.css", "a.js"},
		"style.css": {},
		"a.js":      {},
	})
	if got := m.Unmatched(); !slices.Equal(got, []string{"style.css"}) {
		t.Errorf("Unmatched() = %v, want [style.css]", got)
	}
	if len(logs) != 1 || !strings.Contains(logs[0], "style.css") {
		t.Errorf("logs = %v, want one warning about style.css", logs)
	}
}

func TestBuildForward(t *testing.T) {
	template := ExtractorFunc{
		ID:      "template",
		IsValid: func(info FileInfo) bool { return info.Extension == ".tpl" },
		Extract: func(ctx context.Context, info FileInfo, forward Forward, opts ExtractOptions) ([]string, error) {
			body := strings.TrimPrefix(string(info.Contents), "<script>")
			body = strings.TrimSuffix(body, "</script>")
			return forward(ctx, NewFileInfo(info.Path+".js", []byte(body)))
		},
	}
	fsys := NewMapFileSystem(map[string]string{
		"/src/main.js":        `["./view/page.tpl"]`,
		"/src/view/page.tpl":  `<script>["./helper.js"]</script>`,
		"/src/view/helper.js": `[]`,
	})
	ex := newJSONExtractor()

	m, err := build(t, fsys, nil, Options{Extractors: []ExtractorConfig{
		{Test: regexp.MustCompile(`\.tpl$`), Extractor: template},
		{Extractor: ex},
	}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertMap(t, m, map[string][]string{
		"main.js":        {"view/page.tpl"},
		"view/page.tpl":  {"view/helper.js"},
		"view/helper.js": {},
	})
}

func TestBuildCache(t *testing.T) {
	c, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	fsys := exampleTree()

	// foo.js and bar.js share their source, so one parse serves both.
	first := newJSONExtractor()
	m1, err := build(t, fsys, first, Options{Cache: c, Concurrency: 1})
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if first.parsed() != 4 {
		t.Errorf("first build parsed %d sources, want 4", first.parsed())
	}

	second := newJSONExtractor()
	m2, err := build(t, fsys, second, Options{Cache: c})
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if second.parsed() != 0 {
		t.Errorf("second build parsed %d sources, want 0", second.parsed())
	}
	if second.total() != 5 {
		t.Errorf("second build resolved %d files, want 5", second.total())
	}
	if m1.Hash() != m2.Hash() {
		t.Error("cached build should produce the same map")
	}
}

func TestBuildCacheResolvesWithCurrentSettings(t *testing.T) {
	c, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	fsys := NewMapFileSystem(map[string]string{
		"/src/main.js":     `["x.js"]`,
		"/src/app/x.js":    `[]`,
		"/src/shared/x.js": `[]`,
	})

	tests := []struct {
		base string
		want map[string][]string
	}{
		{"app", map[string][]string{"main.js": {"app/x.js"}, "app/x.js": {}}},
		{"shared", map[string][]string{"main.js": {"shared/x.js"}, "shared/x.js": {}}},
		{"app", map[string][]string{"main.js": {"app/x.js"}, "app/x.js": {}}},
	}
	for i, tt := range tests {
		ex := newJSONExtractor()
		ex.base = tt.base
		m, err := build(t, fsys, ex, Options{Cache: c})
		if err != nil {
			t.Fatalf("build %d (base %s): %v", i, tt.base, err)
		}
		assertMap(t, m, tt.want)
		if i > 0 && ex.parsed() != 0 {
			t.Errorf("build %d parsed %d files, want all from cache", i, ex.parsed())
		}
	}
}

func TestBuildConcurrencyLimit(t *testing.T) {
	m, err := build(t, exampleTree(), newJSONExtractor(), Options{Concurrency: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Len() != 5 {
		t.Errorf("Len() = %d, want 5", m.Len())
	}
}

func TestBuildContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, "/src/main.js", "/src", Options{
		FileSystem: exampleTree(),
		Extractors: []ExtractorConfig{{Extractor: newJSONExtractor()}},
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBuildRelativeEntryPoint(t *testing.T) {
	m, err := Build(context.Background(), "main.js", "/src", Options{
		FileSystem: exampleTree(),
		Extractors: []ExtractorConfig{{Extractor: newJSONExtractor()}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Len() != 5 {
		t.Errorf("Len() = %d, want 5", m.Len())
	}
}

func TestBuildContentIsDeterministic(t *testing.T) {
	var want string
	for i := 0; i < 20; i++ {
		m, err := build(t, exampleTree(), newJSONExtractor(), Options{})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if i == 0 {
			want = m.Hash()
			continue
		}
		if got := m.Hash(); got != want {
			t.Fatalf("run %d: content hash changed", i)
		}
	}
}
