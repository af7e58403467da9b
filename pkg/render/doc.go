// Package render turns a dependency map and its cluster tree into output
// formats.
//
// # Overview
//
// [Emit] walks the map and tree once and drives a [Backend] through a fixed
// call sequence:
//
//  1. CreateGraph for the root graph
//  2. CreateCluster per cluster, parents before children
//  3. CreateNode per map key, inside the cluster of its directory
//  4. CreateEdge per dependency, inside the source cluster when both ends share
//     it and at the root otherwise
//
// Back ends live in subpackages:
//
//   - [dot]: Graphviz DOT, plus SVG/PNG/PDF rasterization
//   - [mermaid]: Mermaid flowcharts in a Markdown fence
//
// # Styles
//
// Node styles are expressed once as [Styles] (fill, stroke, text color and
// stroke width) and mapped to each back end's vocabulary through its
// [StyleTransformers].
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG with the external rsvg-convert tool.
//
// [dot]: github.com/matzehuels/eclaireur/pkg/render/dot
// [mermaid]: github.com/matzehuels/eclaireur/pkg/render/mermaid
package render
