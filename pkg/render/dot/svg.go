package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/eclaireur/pkg/render"
)

// Renderer returns the DOT source renderer, registered as "dot".
func Renderer() render.Renderer {
	return render.New("dot", ".dot", func() render.Backend[*Graph] { return New() })
}

// SVGRenderer lays the DOT source out with Graphviz, registered as "svg".
func SVGRenderer() render.Renderer {
	return render.Post("svg", ".svg", Renderer(), RenderSVG)
}

// PNGRenderer converts the SVG output to PNG at 2x scale, registered as "png".
func PNGRenderer() render.Renderer {
	return render.Post("png", ".png", SVGRenderer(), func(svg []byte) ([]byte, error) {
		return render.ToPNG(svg, 2.0)
	})
}

// PDFRenderer converts the SVG output to PDF, registered as "pdf".
func PDFRenderer() render.Renderer {
	return render.Post("pdf", ".pdf", SVGRenderer(), render.ToPDF)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root <svg> tag with a zero-origin viewBox so
// browsers scale the drawing instead of clipping it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
