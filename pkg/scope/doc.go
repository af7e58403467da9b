// Package scope compiles user-supplied path patterns into matchers and
// decides which files take part in a dependency build.
//
// # Patterns
//
// A pattern is either a glob string or a compiled [regexp.Regexp]:
//
//   - Glob strings are resolved against the project root and support the
//     doublestar syntax (*, **, ?, {a,b}, [...]). "./src/app/**" with root
//     "/repo" matches every file below /repo/src/app.
//   - Regular expressions are passed through unchanged and tested
//     unanchored against the absolute path, so /app/ matches any path
//     containing an "app" segment.
//
// Configuration files cannot hold compiled expressions; [Config] therefore
// accepts strings of the form "re:<expr>" as regular expressions.
//
// # Scope
//
// A file is in scope when it matches at least one include pattern (or no
// include list is configured) and none of the exclude patterns. Exclusion
// always wins.
//
// # Abstractions
//
// [Abstractions] maps declared folders to "folder and everything beneath it"
// matchers. [Abstractions.Lookup] returns the first declared folder matching
// a path, so declaration order decides between nested abstractions.
package scope
