package mermaid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/eclaireur/pkg/render"
)

// Graph is the root flowchart or a subgraph.
type Graph struct {
	id        string
	label     string
	root      bool
	subgraphs []*Graph
	nodes     []node
	edges     []edge
}

type node struct {
	id    string
	label string
	style []render.Attr
}

type edge struct {
	source string
	target string
}

// Backend builds Mermaid flowcharts. A Backend holds the id mapping of one
// render and must not be reused across renders.
type Backend struct {
	ids  map[string]string
	used map[string]bool
}

// New creates a Mermaid back end.
func New() *Backend {
	return &Backend{ids: make(map[string]string), used: make(map[string]bool)}
}

// Renderer returns the Mermaid renderer, registered as "mermaid".
func Renderer() render.Renderer {
	return render.New("mermaid", ".mmd", func() render.Backend[*Graph] { return New() })
}

// CreateGraph creates the root flowchart.
func (b *Backend) CreateGraph(id, label string) *Graph {
	return &Graph{id: id, label: label, root: true}
}

// CreateCluster adds a subgraph to parent.
func (b *Backend) CreateCluster(parent *Graph, id, label string) *Graph {
	g := &Graph{id: b.ID(id), label: label}
	parent.subgraphs = append(parent.subgraphs, g)
	return g
}

// CreateNode declares a node inside parent.
func (b *Backend) CreateNode(parent *Graph, id, label string, style []render.Attr) {
	parent.nodes = append(parent.nodes, node{id: b.ID(id), label: label, style: style})
}

// CreateEdge adds an edge to parent.
func (b *Backend) CreateEdge(parent *Graph, source, target string) {
	parent.edges = append(parent.edges, edge{source: b.ID(source), target: b.ID(target)})
}

// StyleTransformers maps styles to Mermaid CSS properties.
func (*Backend) StyleTransformers() render.StyleTransformers {
	return render.StyleTransformers{
		Fill:        func(v string) render.Attr { return render.Attr{Name: "fill", Value: v} },
		Stroke:      func(v string) render.Attr { return render.Attr{Name: "stroke", Value: v} },
		Color:       func(v string) render.Attr { return render.Attr{Name: "color", Value: v} },
		StrokeWidth: func(v float64) render.Attr { return render.Attr{Name: "stroke-width", Value: render.FormatWidth(v) + "px"} },
	}
}

// ID returns the Mermaid token for a raw id, allocating one on first use.
func (b *Backend) ID(raw string) string {
	if id, ok := b.ids[raw]; ok {
		return id
	}
	base := sanitize(raw)
	id := base
	for n := 2; b.used[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	b.ids[raw] = id
	b.used[id] = true
	return id
}

// reserved words break the flowchart parser when used as bare ids.
var reserved = map[string]bool{
	"end":       true,
	"graph":     true,
	"subgraph":  true,
	"flowchart": true,
	"style":     true,
	"class":     true,
	"classDef":  true,
	"click":     true,
	"direction": true,
	"linkStyle": true,
}

func sanitize(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	s := sb.String()
	if s == "" || reserved[s] {
		s = "n_" + s
	}
	return s
}

// Render serializes g as a fenced Mermaid flowchart.
func (*Backend) Render(g *Graph) ([]byte, error) {
	if g == nil || !g.root {
		return nil, fmt.Errorf("mermaid: render requires the root graph")
	}
	lines := []string{"```mermaid"}
	lines = appendGraph(lines, g, 0)
	lines = append(lines, "```")
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

func appendGraph(lines []string, g *Graph, depth int) []string {
	if g.root {
		lines = append(lines, line(depth, "flowchart LR"))
	} else {
		lines = append(lines,
			line(depth, fmt.Sprintf("subgraph %s[%s]", g.id, quote(g.label))),
			line(depth+1, "direction LR"),
		)
		if len(g.subgraphs) > 0 {
			lines = append(lines, "")
		}
	}

	for _, s := range g.subgraphs {
		lines = appendGraph(lines, s, depth+1)
	}

	if len(g.nodes) > 0 {
		lines = append(lines, "")
	}
	for _, n := range g.nodes {
		lines = append(lines, line(depth+1, fmt.Sprintf("%s{{%s}}", n.id, quote(n.label))))
		if len(n.style) > 0 {
			lines = append(lines, line(depth+1, fmt.Sprintf("style %s %s", n.id, styleString(n.style))))
		}
	}

	if len(g.edges) > 0 {
		lines = append(lines, "")
	}
	for _, e := range g.edges {
		lines = append(lines, line(depth+1, e.source+" --> "+e.target))
	}

	if !g.root {
		lines = append(lines, line(depth, "end"))
	}
	return lines
}

func line(depth int, s string) string {
	return strings.Repeat("  ", depth) + s
}

// quote wraps a label in double quotes, using Mermaid's entity for embedded
// quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "#quot;") + `"`
}

func styleString(attrs []render.Attr) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Name+":"+a.Value)
	}
	return strings.Join(parts, ",")
}

var _ render.Backend[*Graph] = (*Backend)(nil)
