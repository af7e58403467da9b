// Package vue extracts imports from Vue single-file components.
//
// The extractor does not parse scripts itself. Every top-level <script> block
// is forwarded as a virtual file named after the component plus the block's
// lang attribute (App.vue.ts, App.vue.js), so the extractor configured for
// that language handles it.
package vue

import (
	"bytes"
	"context"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/eclaireur/pkg/deps"
)

// Name identifies the extractor in logs.
const Name = "vue"

// Extractor implements [deps.Extractor] for .vue files.
type Extractor struct{}

// New creates a Vue extractor.
func New() *Extractor { return &Extractor{} }

// Name returns "vue".
func (*Extractor) Name() string { return Name }

// Valid accepts .vue files.
func (*Extractor) Valid(info deps.FileInfo) bool { return info.Extension == ".vue" }

// ExtractImports forwards each script block and merges the results.
func (*Extractor) ExtractImports(ctx context.Context, info deps.FileInfo, forward deps.Forward, _ deps.ExtractOptions) ([]string, error) {
	blocks, err := Scripts(info.Contents)
	if err != nil {
		return nil, err
	}

	var out []string
	seen := make(map[string]struct{})
	for _, b := range blocks {
		imports, err := forward(ctx, deps.NewFileInfo(info.Path+"."+b.Lang, []byte(b.Content)))
		if err != nil {
			return nil, err
		}
		for _, imp := range imports {
			if _, ok := seen[imp]; !ok {
				seen[imp] = struct{}{}
				out = append(out, imp)
			}
		}
	}
	return out, nil
}

// Script is one top-level <script> block.
type Script struct {
	Lang    string // "js" unless a lang attribute says otherwise
	Setup   bool   // <script setup>
	Content string
}

// Scripts returns the top-level script blocks of a component in document
// order. Scripts nested in <template> are ignored.
func Scripts(src []byte) ([]Script, error) {
	z := html.NewTokenizer(bytes.NewReader(src))
	var (
		scripts   []Script
		templates int
		current   *Script
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return scripts, nil

		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "template":
				templates++
			case "script":
				if templates == 0 {
					current = newScript(tok)
				}
			}

		case html.SelfClosingTagToken:
			// <template /> and <script src="..." /> carry no content

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "template":
				if templates > 0 {
					templates--
				}
			case "script":
				if current != nil {
					scripts = append(scripts, *current)
					current = nil
				}
			}

		case html.TextToken:
			if current != nil {
				current.Content += string(z.Raw())
			}
		}
	}
}

func newScript(tok html.Token) *Script {
	s := &Script{Lang: "js"}
	for _, a := range tok.Attr {
		switch strings.ToLower(a.Key) {
		case "lang":
			if lang := strings.TrimSpace(a.Val); lang != "" {
				s.Lang = lang
			}
		case "setup":
			s.Setup = true
		}
	}
	return s
}
