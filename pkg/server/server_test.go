package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/eclaireur/pkg/cache"
	"github.com/matzehuels/eclaireur/pkg/deps"
	"github.com/matzehuels/eclaireur/pkg/observability"
	"github.com/matzehuels/eclaireur/pkg/pipeline"
)

func newTestServer(t *testing.T, entry string) *httptest.Server {
	t.Helper()
	mem, err := cache.NewMemoryCache(128)
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(mem, nil, nil)
	opts := pipeline.Options{
		Root:  "/src",
		Entry: entry,
		FileSystem: deps.NewMapFileSystem(map[string]string{
			"/src/main.js":    "import './app/foo.js'\nimport './app/bar.js'\n",
			"/src/app/foo.js": "import './baz.js'\n",
			"/src/app/bar.js": "import './baz.js'\n",
			"/src/app/baz.js": "export default 1\n",
		}),
	}
	srv := httptest.NewServer(New(runner, opts, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return resp, sb.String()
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "main.js")
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestDependencies(t *testing.T) {
	srv := newTestServer(t, "main.js")
	resp, body := get(t, srv.URL+"/api/dependencies?sorted=true")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got map[string][]string
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string][]string{
		"main.js":    {"app/bar.js", "app/foo.js"},
		"app/foo.js": {"app/baz.js"},
		"app/bar.js": {"app/baz.js"},
		"app/baz.js": {},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d: %v", len(got), len(want), got)
	}
	for k, deps := range want {
		if strings.Join(got[k], ",") != strings.Join(deps, ",") {
			t.Errorf("%s = %v, want %v", k, got[k], deps)
		}
	}

	// sorted keys keep their order in the object
	if strings.Index(body, `"app/bar.js"`) > strings.Index(body, `"main.js"`) {
		t.Errorf("keys not in sorted order: %s", body)
	}
}

func TestGraph(t *testing.T) {
	srv := newTestServer(t, "main.js")

	tests := []struct {
		path   string
		ctype  string
		substr string
	}{
		{"/api/graph.dot", "text/vnd.graphviz; charset=utf-8", `"main.js" -> "app/foo.js";`},
		{"/api/graph.mmd", "text/plain; charset=utf-8", "main_js --> app_foo_js"},
		{"/api/graph.mermaid", "text/plain; charset=utf-8", "flowchart LR"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.ctype {
				t.Errorf("Content-Type = %q", ct)
			}
			if resp.Header.Get("X-Eclaireur-Run") == "" {
				t.Error("missing run id header")
			}
			if !strings.Contains(body, tt.substr) {
				t.Errorf("body missing %q:\n%s", tt.substr, body)
			}
			if etag, want := resp.Header.Get("ETag"), strconv.Quote(cache.Hash([]byte(body))); etag != want {
				t.Errorf("ETag = %s, want %s", etag, want)
			}
		})
	}
}

func TestGraphETagFollowsBody(t *testing.T) {
	srv := newTestServer(t, "main.js")

	first, body1 := get(t, srv.URL+"/api/graph.dot?sorted=true")
	second, body2 := get(t, srv.URL+"/api/graph.dot?sorted=true")
	if body1 != body2 {
		t.Fatal("sorted output should be stable")
	}
	if first.Header.Get("ETag") != second.Header.Get("ETag") {
		t.Errorf("equal bodies got different ETags: %s, %s", first.Header.Get("ETag"), second.Header.Get("ETag"))
	}

	mermaid, _ := get(t, srv.URL+"/api/graph.mermaid?sorted=true")
	if mermaid.Header.Get("ETag") == first.Header.Get("ETag") {
		t.Error("different formats should not share an ETag")
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, "main.js")
	resp, body := get(t, srv.URL+"/api/graph.gif")
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "INVALID_FORMAT") {
		t.Errorf("graph.gif = %d %s", resp.StatusCode, body)
	}

	for _, path := range []string{"/api/dependencies?sorted=maybe", "/api/graph.dot?sorted=2"} {
		resp, body := get(t, srv.URL+path)
		if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "INVALID_INPUT") {
			t.Errorf("%s = %d %s", path, resp.StatusCode, body)
		}
	}

	missing := newTestServer(t, "missing.js")
	resp, body = get(t, missing.URL+"/api/dependencies")
	if resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(body, "EXTRACTION_FAILED") {
		t.Errorf("missing entry = %d %s", resp.StatusCode, body)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, "main.js")
	get(t, srv.URL+"/healthz")
	get(t, srv.URL+"/nope")

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.statuses) != 2 || h.statuses[0] != http.StatusOK || h.statuses[1] != http.StatusNotFound {
		t.Errorf("statuses = %v", h.statuses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, nil)
	s := New(runner, pipeline.Options{Entry: "main.js"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(2 * ShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
