// Package cluster groups dependency map keys into a tree of directory
// clusters for rendering.
//
// Every key contributes its directory (dirname plus a trailing slash, "./"
// for files at the root). Directories are inserted in key order:
//
//  1. A directory that already has a cluster is skipped.
//  2. Otherwise the nearest ancestor cluster becomes the parent, and existing
//     children of that parent that live below the new directory move under it.
//  3. If a remaining sibling shares a leading path segment with the new
//     directory, an intermediate cluster for the common prefix is created and
//     both end up beneath it.
//
// The resulting shape depends on insertion order. Pass sorted keys for a
// reproducible tree.
package cluster

import (
	"path"
	"strings"
)

// RootPath is the cluster of files at the root of the project.
const RootPath = "./"

// Cluster is one directory grouping.
type Cluster struct {
	Path string // Directory with trailing slash, e.g. "src/app/"

	parent   *Cluster
	children []*Cluster
}

// Parent returns the enclosing cluster, or nil at the top level.
func (c *Cluster) Parent() *Cluster { return c.parent }

// Children returns the nested clusters in insertion order.
func (c *Cluster) Children() []*Cluster {
	return append([]*Cluster(nil), c.children...)
}

// Label is the cluster path relative to its parent, without trailing slash.
func (c *Cluster) Label() string {
	p := c.Path
	if c.parent != nil {
		p = strings.TrimPrefix(p, c.parent.Path)
	}
	if p == RootPath {
		return "."
	}
	return strings.TrimSuffix(p, "/")
}

// Tree is an arena of clusters addressed by path.
type Tree struct {
	nodes map[string]*Cluster
	roots []*Cluster
}

// Dir returns the cluster path for a map key.
func Dir(key string) string {
	return path.Dir(key) + "/"
}

// Build creates the cluster tree for keys, consumed in order.
func Build(keys []string) *Tree {
	t := &Tree{nodes: make(map[string]*Cluster)}
	for _, k := range keys {
		t.insert(Dir(k))
	}
	return t
}

// Roots returns the top-level clusters in insertion order.
func (t *Tree) Roots() []*Cluster {
	return append([]*Cluster(nil), t.roots...)
}

// Get returns the cluster at path.
func (t *Tree) Get(path string) (*Cluster, bool) {
	c, ok := t.nodes[path]
	return c, ok
}

// ClusterOf returns the cluster holding key.
func (t *Tree) ClusterOf(key string) (*Cluster, bool) {
	return t.Get(Dir(key))
}

// Len returns the number of clusters.
func (t *Tree) Len() int { return len(t.nodes) }

// Walk visits every cluster depth-first, parents before children, siblings in
// insertion order. depth is 0 for top-level clusters.
func (t *Tree) Walk(fn func(c *Cluster, depth int)) {
	var walk func(cs []*Cluster, depth int)
	walk = func(cs []*Cluster, depth int) {
		for _, c := range cs {
			fn(c, depth)
			walk(c.children, depth+1)
		}
	}
	walk(t.roots, 0)
}

func (t *Tree) insert(dir string) {
	var parent *Cluster
	parentPath := ""
	if found, exact := nearest(t.roots, dir); found != nil {
		if exact {
			return
		}
		parent, parentPath = found, found.Path
	}

	c := &Cluster{Path: dir}
	siblings := t.childList(parent)

	kept := make([]*Cluster, 0, len(*siblings))
	for _, s := range *siblings {
		if strings.HasPrefix(s.Path, dir) {
			s.parent = c
			c.children = append(c.children, s)
		} else {
			kept = append(kept, s)
		}
	}
	*siblings = kept

	if len(kept) > 0 {
		sections := strings.Split(dir[len(parentPath):], "/")
		for i := len(sections) - 1; i >= 1; i-- {
			common := strings.Join(sections[:i], "/") + "/"
			sib := firstWithPrefix(kept, parentPath, i, common)
			if sib == nil {
				continue
			}

			mid := &Cluster{Path: parentPath + common, parent: parent, children: []*Cluster{sib}}
			*siblings = append(remove(*siblings, sib), mid)
			sib.parent = mid
			t.nodes[mid.Path] = mid

			parent = mid
			siblings = &mid.children
			break
		}
	}

	c.parent = parent
	*siblings = append(*siblings, c)
	t.nodes[dir] = c
}

func (t *Tree) childList(c *Cluster) *[]*Cluster {
	if c == nil {
		return &t.roots
	}
	return &c.children
}

// nearest finds the cluster at dir, or the deepest cluster whose path is a
// prefix of dir. exact reports which one was found.
func nearest(cs []*Cluster, dir string) (c *Cluster, exact bool) {
	for _, c := range cs {
		if c.Path == dir {
			return c, true
		}
		if strings.HasPrefix(dir, c.Path) {
			if n, exact := nearest(c.children, dir); n != nil {
				return n, exact
			}
			return c, false
		}
	}
	return nil, false
}

// firstWithPrefix returns the first sibling whose first n path segments below
// parentPath equal common.
func firstWithPrefix(siblings []*Cluster, parentPath string, n int, common string) *Cluster {
	for _, s := range siblings {
		segs := strings.Split(s.Path[len(parentPath):], "/")
		if len(segs) > n {
			segs = segs[:n]
		}
		if strings.Join(segs, "/")+"/" == common {
			return s
		}
	}
	return nil
}

func remove(cs []*Cluster, target *Cluster) []*Cluster {
	out := cs[:0]
	for _, c := range cs {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}
