// Package pkg provides the libraries behind eclaireur, a tool that maps the
// file-level import graph of a JavaScript, TypeScript or Vue project.
//
// # Overview
//
// Starting from an entry point, eclaireur follows every import that stays in
// scope, groups the files it finds into nested folder clusters and renders
// the result as DOT, Mermaid, SVG, PNG or PDF.
//
// # Architecture
//
// The data flow through eclaireur:
//
//	entry point + [scope] rules
//	         ↓
//	    [deps] package (extract imports file by file into a Map)
//	         ↓
//	    [cluster] package (group keys into folder clusters)
//	         ↓
//	    [render] package (emit into a DOT or Mermaid backend)
//	         ↓
//	    DOT/Mermaid/SVG/PNG/PDF output
//
// [pipeline] runs these stages with caching and is shared by the CLI and
// [server].
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Root:    "./web",
//	    Entry:   "src/main.ts",
//	    Formats: []string{"mermaid"},
//	    Sorted:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Artifacts["mermaid"])
//
// # Main Packages
//
// [deps] - The import walker and the insertion-ordered dependency Map.
// Language support lives in extractor subpackages: [deps/javascript] parses
// scripts with tree-sitter, [deps/vue] forwards single-file component
// scripts to it.
//
// [scope] - Include and exclude patterns (globs or regexps), depth limits and
// abstraction folders that collapse a directory into one node.
//
// [cluster] - The folder cluster tree built from map keys.
//
// [render] - The emission protocol shared by [render/dot] and
// [render/mermaid], plus conversion of DOT into SVG, PNG and PDF.
//
// [io] - JSON import and export of dependency maps.
//
// [cache] - File, memory, Redis and null caches for extracted imports and
// rendered artifacts.
//
// [config] - eclaireur.toml loading and validation.
//
// [server] - The HTTP API.
//
// [deps]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/deps
// [deps/javascript]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/deps/javascript
// [deps/vue]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/deps/vue
// [scope]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/scope
// [cluster]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/cluster
// [render]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/render/dot
// [render/mermaid]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/render/mermaid
// [io]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/eclaireur/pkg/server
package pkg
