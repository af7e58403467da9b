package scope

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/eclaireur/pkg/errors"
)

// RegexpPrefix marks a configuration string as a regular expression.
const RegexpPrefix = "re:"

// Matcher reports whether an absolute path matches a compiled pattern.
type Matcher interface {
	Match(path string) bool
	String() string
}

// Compile turns pattern into a Matcher relative to root.
//
// A string is treated as a glob and resolved against root unless it is
// already absolute. A *regexp.Regexp is used as-is. Any other type returns
// an INVALID_PATTERN error.
func Compile(root string, pattern any) (Matcher, error) {
	switch p := pattern.(type) {
	case *regexp.Regexp:
		if p == nil {
			return nil, errors.New(errors.ErrCodeInvalidPattern, "nil regular expression")
		}
		return regexpMatcher{re: p}, nil
	case string:
		return compileGlob(root, p)
	default:
		return nil, errors.New(errors.ErrCodeInvalidPattern, "unsupported pattern type %T", pattern)
	}
}

// CompileString compiles a configuration string. Strings prefixed with
// [RegexpPrefix] become regular expressions, everything else is a glob.
func CompileString(root, pattern string) (Matcher, error) {
	if expr, ok := strings.CutPrefix(pattern, RegexpPrefix); ok {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "compile %q", pattern)
		}
		return regexpMatcher{re: re}, nil
	}
	return compileGlob(root, pattern)
}

// CompileAll compiles every pattern, stopping at the first failure.
func CompileAll(root string, patterns []any) ([]Matcher, error) {
	out := make([]Matcher, 0, len(patterns))
	for _, p := range patterns {
		m, err := Compile(root, p)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// MatchAny reports whether any matcher accepts path.
func MatchAny(path string, matchers []Matcher) bool {
	for _, m := range matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

func compileGlob(root, pattern string) (Matcher, error) {
	if pattern == "" {
		return nil, errors.New(errors.ErrCodeInvalidPattern, "empty glob")
	}
	resolved := pattern
	if !filepath.IsAbs(pattern) {
		resolved = filepath.Join(root, pattern)
	}
	resolved = filepath.ToSlash(resolved)
	if !doublestar.ValidatePattern(resolved) {
		return nil, errors.New(errors.ErrCodeInvalidPattern, "invalid glob %q", pattern)
	}
	return globMatcher{pattern: resolved}, nil
}

type globMatcher struct {
	pattern string
}

func (g globMatcher) Match(path string) bool {
	ok, err := doublestar.Match(g.pattern, filepath.ToSlash(path))
	return err == nil && ok
}

func (g globMatcher) String() string { return g.pattern }

type regexpMatcher struct {
	re *regexp.Regexp
}

func (r regexpMatcher) Match(path string) bool { return r.re.MatchString(path) }

func (r regexpMatcher) String() string { return fmt.Sprintf("/%s/", r.re) }

// folderMatcher accepts a folder and every path beneath it.
type folderMatcher struct {
	folder string
}

func (f folderMatcher) Match(path string) bool {
	path = filepath.ToSlash(path)
	return path == f.folder || strings.HasPrefix(path, f.folder+"/")
}

func (f folderMatcher) String() string { return f.folder + "/**" }
