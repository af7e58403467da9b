// Package deps builds the dependency map of a source tree by following module
// imports from an entry point.
//
// # Overview
//
// The package does not parse any source language. Parsing and module
// resolution belong to extractors ([Extractor]), selected per file by a
// first-match rule over an ordered list of [ExtractorConfig]. The reference
// extractors live in the javascript and vue subpackages.
//
// # Building a Map
//
// Use [Build] with an entry point and a root directory:
//
//	m, err := deps.Build(ctx, "src/main.ts", "/repo", deps.Options{
//	    Extractors: []deps.ExtractorConfig{
//	        {Test: regexp.MustCompile(`\.vue$`), Extractor: vue.New()},
//	        {Extractor: javascript.New(javascript.Options{})},
//	    },
//	    Scope: s,
//	})
//
// The builder:
//
//  1. Rejects an entry point outside the scope before any traversal
//  2. Visits every reachable file at most once, even through cycles
//  3. Collapses files under abstraction folders into a single node
//  4. Stops descending at [scope.Scope.MaxDepth]
//  5. Aborts the whole build on the first extraction failure
//
// Files no extractor accepts are kept as leaves and reported through
// [Map.Unmatched]; they are not errors.
//
// # Keys
//
// Map keys are slash-separated paths relative to the root, e.g.
// "app/foo.js". An abstraction folder's key is the folder itself, e.g. "app".
// [Detail.FullPath] holds the absolute path.
//
// # Ordering
//
// Imports are followed concurrently, so the insertion order of a [Map] may
// differ between runs while its key set and dependency sets do not.
// [Map.Sorted] returns a copy in canonical lexicographic order.
package deps
