package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/eclaireur/pkg/render"
)

// Graph is the root graph or a cluster.
type Graph struct {
	id       string
	label    string
	root     bool
	clusters []*Graph
	nodes    []node
	edges    []edge
}

type node struct {
	id    string
	label string
	attrs []render.Attr
}

type edge struct {
	source string
	target string
}

// Backend builds DOT graphs.
type Backend struct{}

// New creates a DOT back end.
func New() *Backend { return &Backend{} }

// CreateGraph creates the root digraph.
func (*Backend) CreateGraph(id, label string) *Graph {
	return &Graph{id: id, label: label, root: true}
}

// CreateCluster adds a subgraph to parent.
func (*Backend) CreateCluster(parent *Graph, id, label string) *Graph {
	c := &Graph{id: id, label: label}
	parent.clusters = append(parent.clusters, c)
	return c
}

// CreateNode declares a node inside parent.
func (*Backend) CreateNode(parent *Graph, id, label string, style []render.Attr) {
	parent.nodes = append(parent.nodes, node{id: id, label: label, attrs: style})
}

// CreateEdge adds an edge to parent.
func (*Backend) CreateEdge(parent *Graph, source, target string) {
	parent.edges = append(parent.edges, edge{source: source, target: target})
}

// StyleTransformers maps styles to Graphviz node attributes.
func (*Backend) StyleTransformers() render.StyleTransformers {
	return render.StyleTransformers{
		Fill:        func(v string) render.Attr { return render.Attr{Name: "fillcolor", Value: v} },
		Color:       func(v string) render.Attr { return render.Attr{Name: "fontcolor", Value: v} },
		Stroke:      func(v string) render.Attr { return render.Attr{Name: "color", Value: v} },
		StrokeWidth: func(v float64) render.Attr { return render.Attr{Name: "penwidth", Value: render.FormatWidth(v)} },
	}
}

// Render serializes g as DOT source.
func (*Backend) Render(g *Graph) ([]byte, error) {
	if g == nil || !g.root {
		return nil, fmt.Errorf("dot: render requires the root graph")
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.id)
	writeDefaults(&buf)
	writeBody(&buf, g, 1)
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Theme attributes of the root graph and the node and edge defaults.
var (
	graphAttrs = []render.Attr{
		{Name: "bgcolor", Value: "#1d252e"},
		{Name: "rankdir", Value: "LR"},
		{Name: "fontname", Value: "Helvetica-bold"},
		{Name: "style", Value: "filled, rounded"},
		{Name: "fillcolor", Value: "#ffffff11"},
		{Name: "color", Value: "#ffffff33"},
		{Name: "fontcolor", Value: "#ffffff"},
	}
	nodeAttrs = []render.Attr{
		{Name: "shape", Value: "box"},
		{Name: "style", Value: "filled, rounded"},
		{Name: "fontname", Value: "Helvetica"},
		{Name: "color", Value: "#aaaaaa"},
		{Name: "fillcolor", Value: "transparent"},
		{Name: "fontcolor", Value: "#aaaaaa"},
		{Name: "height", Value: "0"},
	}
	edgeAttrs = []render.Attr{
		{Name: "arrowhead", Value: "normal"},
		{Name: "arrowsize", Value: "0.6"},
		{Name: "penwidth", Value: "2.0"},
		{Name: "color", Value: "#ffffff55"},
	}
)

func writeDefaults(buf *bytes.Buffer) {
	for _, a := range graphAttrs {
		fmt.Fprintf(buf, "  %s=%q;\n", a.Name, a.Value)
	}
	fmt.Fprintf(buf, "  node [%s];\n", fmtAttrs(nodeAttrs))
	fmt.Fprintf(buf, "  edge [%s];\n", fmtAttrs(edgeAttrs))
}

func writeBody(buf *bytes.Buffer, g *Graph, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, c := range g.clusters {
		buf.WriteString("\n")
		fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, c.id)
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, c.label)
		writeBody(buf, c, depth+1)
		fmt.Fprintf(buf, "%s}\n", indent)
	}

	if len(g.nodes) > 0 {
		buf.WriteString("\n")
	}
	for _, n := range g.nodes {
		attrs := append([]render.Attr{{Name: "label", Value: n.label}}, n.attrs...)
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.id, fmtAttrs(attrs))
	}

	if len(g.edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.edges {
		fmt.Fprintf(buf, "%s%q -> %q;\n", indent, e.source, e.target)
	}
}

func fmtAttrs(attrs []render.Attr) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, fmt.Sprintf("%s=%q", a.Name, a.Value))
	}
	return strings.Join(parts, ", ")
}

var _ render.Backend[*Graph] = (*Backend)(nil)
