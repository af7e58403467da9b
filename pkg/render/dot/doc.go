// Package dot renders dependency graphs as Graphviz DOT.
//
// # Usage
//
// The back end plugs into [render.Emit]:
//
//	b := dot.New()
//	out, err := b.Render(render.Emit(m, tree, b))
//
// or through the registry helpers:
//
//	reg := render.NewRegistry(dot.Renderer(), dot.SVGRenderer())
//	svg, err := reg.Render("svg", m, tree)
//
// Clusters become `subgraph "cluster_<path>"` blocks, so Graphviz draws them
// as rounded boxes. The graph uses a dark theme with left-to-right ranking.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package dot
