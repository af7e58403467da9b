package deps

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/eclaireur/pkg/cache"
)

// Detail describes one node of a dependency map.
type Detail struct {
	FullPath string // Absolute path of the file or abstraction folder
	IsFolder bool   // Key denotes an abstraction folder

	deps  []string
	index map[string]struct{}
}

// Dependencies returns the node's dependency keys in insertion order.
func (d *Detail) Dependencies() []string {
	return slices.Clone(d.deps)
}

// DependsOn reports whether key is a direct dependency.
func (d *Detail) DependsOn(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Edge is a dependency from Source to Target, both map keys.
type Edge struct {
	Source string
	Target string
}

// Map is an insertion-ordered mapping from node key to [Detail].
type Map struct {
	keys      []string
	details   map[string]*Detail
	unmatched []string
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{details: make(map[string]*Detail)}
}

// Add inserts key if absent and returns its detail. Existing entries are
// returned unchanged.
func (m *Map) Add(key, fullPath string, isFolder bool) *Detail {
	if d, ok := m.details[key]; ok {
		return d
	}
	d := &Detail{FullPath: fullPath, IsFolder: isFolder, index: make(map[string]struct{})}
	m.details[key] = d
	m.keys = append(m.keys, key)
	return d
}

// AddDependency records that from depends on to. Self-dependencies and
// duplicates are ignored, as are unknown source keys. It reports whether an
// edge was added.
func (m *Map) AddDependency(from, to string) bool {
	if from == to {
		return false
	}
	d, ok := m.details[from]
	if !ok {
		return false
	}
	if _, dup := d.index[to]; dup {
		return false
	}
	d.index[to] = struct{}{}
	d.deps = append(d.deps, to)
	return true
}

// AddUnmatched records a file no extractor accepted.
func (m *Map) AddUnmatched(key string) {
	m.unmatched = append(m.unmatched, key)
}

// Len returns the number of nodes.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the node keys in insertion order.
func (m *Map) Keys() []string { return slices.Clone(m.keys) }

// Get returns the detail for key.
func (m *Map) Get(key string) (*Detail, bool) {
	d, ok := m.details[key]
	return d, ok
}

// Dependencies returns the dependency keys of key, or nil if key is absent.
func (m *Map) Dependencies(key string) []string {
	if d, ok := m.details[key]; ok {
		return d.Dependencies()
	}
	return nil
}

// Edges returns every dependency edge, grouped by source in map order.
func (m *Map) Edges() []Edge {
	var edges []Edge
	for _, k := range m.keys {
		for _, dep := range m.details[k].deps {
			edges = append(edges, Edge{Source: k, Target: dep})
		}
	}
	return edges
}

// EdgeCount returns the number of dependency edges.
func (m *Map) EdgeCount() int {
	n := 0
	for _, d := range m.details {
		n += len(d.deps)
	}
	return n
}

// Unmatched returns the keys of files no extractor accepted, sorted.
func (m *Map) Unmatched() []string {
	out := slices.Clone(m.unmatched)
	slices.Sort(out)
	return out
}

// Sorted returns a copy with keys and dependencies in lexicographic order.
func (m *Map) Sorted() *Map {
	out := NewMap()
	keys := m.Keys()
	slices.Sort(keys)
	for _, k := range keys {
		src := m.details[k]
		d := out.Add(k, src.FullPath, src.IsFolder)
		deps := src.Dependencies()
		slices.Sort(deps)
		for _, dep := range deps {
			d.index[dep] = struct{}{}
		}
		d.deps = deps
	}
	out.unmatched = slices.Clone(m.unmatched)
	return out
}

// Hash returns a digest of the map content that ignores insertion order.
func (m *Map) Hash() string {
	type entry struct {
		Key      string   `json:"k"`
		IsFolder bool     `json:"f,omitempty"`
		Deps     []string `json:"d,omitempty"`
	}
	s := m.Sorted()
	entries := make([]entry, 0, s.Len())
	for _, k := range s.keys {
		d := s.details[k]
		entries = append(entries, entry{Key: k, IsFolder: d.IsFolder, Deps: d.deps})
	}
	data, _ := json.Marshal(entries)
	return cache.Hash(data)
}
