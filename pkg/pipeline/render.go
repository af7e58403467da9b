package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/deps"
	"github.com/matzehuels/eclaireur/pkg/observability"
	"github.com/matzehuels/eclaireur/pkg/render"
	"github.com/matzehuels/eclaireur/pkg/render/dot"
	"github.com/matzehuels/eclaireur/pkg/render/mermaid"
)

// DefaultRegistry returns a registry holding every built-in renderer:
// dot, mermaid (alias "mmd"), svg, png and pdf.
func DefaultRegistry() *render.Registry {
	reg := render.NewRegistry(
		dot.Renderer(),
		mermaid.Renderer(),
		dot.SVGRenderer(),
		dot.PNGRenderer(),
		dot.PDFRenderer(),
	)
	reg.Alias("mmd", FormatMermaid)
	reg.Alias("gv", FormatDOT)
	return reg
}

// Render emits m and tree into every format, keyed by the requested name.
func Render(ctx context.Context, reg *render.Registry, m *deps.Map, tree *cluster.Tree, formats []string) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := reg.Render(format, m, tree)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
