package scope

import (
	"path/filepath"

	"github.com/matzehuels/eclaireur/pkg/errors"
)

// Scope bounds which files a dependency build traverses.
// The zero value includes everything with no depth limit.
type Scope struct {
	MaxDepth int       // Stop descending at this depth (0 = unlimited)
	Include  []Matcher // nil includes every file
	Exclude  []Matcher // Always wins over Include
}

// Contains reports whether path is in scope.
func (s Scope) Contains(path string) bool {
	return (s.Include == nil || MatchAny(path, s.Include)) && !MatchAny(path, s.Exclude)
}

// Limited reports whether depth has reached MaxDepth.
func (s Scope) Limited(depth int) bool {
	return s.MaxDepth > 0 && depth >= s.MaxDepth
}

// Config is the serializable form of a Scope.
type Config struct {
	MaxDepth int      `toml:"max_depth" json:"max_depth,omitempty"`
	Include  []string `toml:"include" json:"include,omitempty"`
	Exclude  []string `toml:"exclude" json:"exclude,omitempty"`
}

// Compile resolves the configured patterns against root.
// A nil Include list stays nil so that every file is included; an empty
// but non-nil list includes nothing.
func (c Config) Compile(root string) (Scope, error) {
	if c.MaxDepth < 0 {
		return Scope{}, errors.New(errors.ErrCodeInvalidConfig, "max_depth must not be negative (got %d)", c.MaxDepth)
	}
	s := Scope{MaxDepth: c.MaxDepth}
	if c.Include != nil {
		s.Include = make([]Matcher, 0, len(c.Include))
		for _, p := range c.Include {
			m, err := CompileString(root, p)
			if err != nil {
				return Scope{}, err
			}
			s.Include = append(s.Include, m)
		}
	}
	for _, p := range c.Exclude {
		m, err := CompileString(root, p)
		if err != nil {
			return Scope{}, err
		}
		s.Exclude = append(s.Exclude, m)
	}
	return s, nil
}

// Abstractions maps declared folders to matchers over their subtree.
// Lookup order follows declaration order.
type Abstractions struct {
	folders  []string
	matchers []Matcher
}

// NewAbstractions builds the abstraction table for folders relative to root.
func NewAbstractions(root string, folders []string) (*Abstractions, error) {
	a := &Abstractions{}
	for _, f := range folders {
		if err := errors.ValidateRelativePath(f); err != nil {
			return nil, err
		}
		abs := filepath.ToSlash(filepath.Join(root, f))
		a.folders = append(a.folders, abs)
		a.matchers = append(a.matchers, folderMatcher{folder: abs})
	}
	return a, nil
}

// Lookup returns the first declared folder whose subtree contains path.
func (a *Abstractions) Lookup(path string) (string, bool) {
	if a == nil {
		return "", false
	}
	for i, m := range a.matchers {
		if m.Match(path) {
			return a.folders[i], true
		}
	}
	return "", false
}

// Folders returns the absolute abstraction folders in declaration order.
func (a *Abstractions) Folders() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.folders...)
}

// Len returns the number of declared folders.
func (a *Abstractions) Len() int {
	if a == nil {
		return 0
	}
	return len(a.folders)
}
