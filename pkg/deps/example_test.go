package deps_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/eclaireur/pkg/deps"
)

func ExampleBuild() {
	fsys := deps.NewMapFileSystem(map[string]string{
		"/src/main.js": "./util.js",
		"/src/util.js": "",
	})
	lines := deps.ExtractorFunc{
		ID: "lines",
		Extract: func(_ context.Context, info deps.FileInfo, _ deps.Forward, _ deps.ExtractOptions) ([]string, error) {
			var out []string
			for _, l := range strings.Fields(string(info.Contents)) {
				out = append(out, filepath.Join(info.Dirname, l))
			}
			return out, nil
		},
	}

	m, _ := deps.Build(context.Background(), "main.js", "/src", deps.Options{
		FileSystem: fsys,
		Extractors: []deps.ExtractorConfig{{Extractor: lines}},
	})
	for _, k := range m.Keys() {
		fmt.Println(k, m.Dependencies(k))
	}
	// Output:
	// main.js [util.js]
	// util.js []
}
