package render

import (
	"sort"

	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/deps"
	"github.com/matzehuels/eclaireur/pkg/errors"
)

// Renderer produces one output format from a map and its cluster tree.
type Renderer interface {
	// Format is the registry name, e.g. "dot".
	Format() string
	// Extension is the default output file extension, e.g. ".dot".
	Extension() string
	Render(m *deps.Map, tree *cluster.Tree) ([]byte, error)
}

// New couples a back end factory with its format name. A fresh back end is
// created per Render call.
func New[G any](format, ext string, backend func() Backend[G]) Renderer {
	return &emitter[G]{format: format, ext: ext, backend: backend}
}

type emitter[G any] struct {
	format  string
	ext     string
	backend func() Backend[G]
}

func (e *emitter[G]) Format() string    { return e.format }
func (e *emitter[G]) Extension() string { return e.ext }

func (e *emitter[G]) Render(m *deps.Map, tree *cluster.Tree) ([]byte, error) {
	b := e.backend()
	return b.Render(Emit(m, tree, b))
}

// Post wraps a renderer with a conversion of its output, such as DOT to SVG.
func Post(format, ext string, base Renderer, convert func([]byte) ([]byte, error)) Renderer {
	return &post{format: format, ext: ext, base: base, convert: convert}
}

type post struct {
	format  string
	ext     string
	base    Renderer
	convert func([]byte) ([]byte, error)
}

func (p *post) Format() string    { return p.format }
func (p *post) Extension() string { return p.ext }

func (p *post) Render(m *deps.Map, tree *cluster.Tree) ([]byte, error) {
	out, err := p.base.Render(m, tree)
	if err != nil {
		return nil, err
	}
	return p.convert(out)
}

// Registry looks renderers up by format name.
type Registry struct {
	renderers map[string]Renderer
	aliases   map[string]string
}

// NewRegistry creates a registry holding renderers.
func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer), aliases: make(map[string]string)}
	for _, rr := range renderers {
		r.Register(rr)
	}
	return r
}

// Register adds or replaces a renderer.
func (r *Registry) Register(rr Renderer) {
	r.renderers[rr.Format()] = rr
}

// Alias makes name resolve to format.
func (r *Registry) Alias(name, format string) {
	r.aliases[name] = format
}

// Get returns the renderer for format or an INVALID_FORMAT error.
func (r *Registry) Get(format string) (Renderer, error) {
	if target, ok := r.aliases[format]; ok {
		format = target
	}
	if rr, ok := r.renderers[format]; ok {
		return rr, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (available: %v)", format, r.Formats())
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.renderers))
	for f := range r.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Has reports whether format or an alias of it is registered.
func (r *Registry) Has(format string) bool {
	_, err := r.Get(format)
	return err == nil
}

// Render dispatches to the renderer registered for format.
func (r *Registry) Render(format string, m *deps.Map, tree *cluster.Tree) ([]byte, error) {
	rr, err := r.Get(format)
	if err != nil {
		return nil, err
	}
	return rr.Render(m, tree)
}

