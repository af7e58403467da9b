package render

import (
	"path"

	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/deps"
)

// Root graph identity passed to CreateGraph.
const (
	GraphID    = "eclaireur dependency tree"
	GraphLabel = "Eclaireur Dependency Tree"
)

// ClusterIDPrefix prefixes cluster ids, as Graphviz requires for subgraphs
// drawn as boxes.
const ClusterIDPrefix = "cluster_"

// Backend builds one output format. G is the back end's graph handle type,
// shared by the root graph and its clusters.
type Backend[G any] interface {
	CreateGraph(id, label string) G
	CreateCluster(parent G, id, label string) G
	CreateNode(parent G, id, label string, style []Attr)
	CreateEdge(parent G, source, target string)
	StyleTransformers() StyleTransformers
	Render(g G) ([]byte, error)
}

// Emit drives b with the clusters, nodes and edges of m and returns the root
// graph handle.
func Emit[G any](m *deps.Map, tree *cluster.Tree, b Backend[G]) G {
	root := b.CreateGraph(GraphID, GraphLabel)

	handles := make(map[string]G, tree.Len())
	tree.Walk(func(c *cluster.Cluster, _ int) {
		if c.Path == cluster.RootPath {
			handles[c.Path] = root
			return
		}
		parent := root
		if p := c.Parent(); p != nil {
			parent = handles[p.Path]
		}
		handles[c.Path] = b.CreateCluster(parent, ClusterIDPrefix+c.Path, c.Label())
	})

	handleOf := func(dir string) G {
		if h, ok := handles[dir]; ok {
			return h
		}
		return root
	}

	transformers := b.StyleTransformers()
	nodeDir := make(map[string]string, m.Len())
	for _, key := range m.Keys() {
		d, _ := m.Get(key)
		dir := cluster.Dir(key)
		nodeDir[key] = dir
		b.CreateNode(handleOf(dir), key, path.Base(key), TransformStyles(StyleFor(key, d), transformers))
	}

	for _, e := range m.Edges() {
		parent := root
		src, srcOK := nodeDir[e.Source]
		if dst, ok := nodeDir[e.Target]; srcOK && ok && src == dst {
			parent = handleOf(src)
		}
		b.CreateEdge(parent, e.Source, e.Target)
	}

	return root
}
