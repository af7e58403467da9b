package javascript

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// language picks the grammar for a file extension.
func language(ext string) *sitter.Language {
	switch ext {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Specifiers returns the unique module specifiers referenced by source, in
// order of appearance. ext selects the grammar.
//
// Syntax errors do not fail the parse; specifiers found in the valid parts of
// the file are still returned.
func Specifiers(ctx context.Context, source []byte, ext string) ([]string, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language(ext))

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := &collector{source: source, seen: make(map[string]struct{})}
	c.walk(tree.RootNode())
	return c.specs, nil
}

type collector struct {
	source []byte
	specs  []string
	seen   map[string]struct{}
}

func (c *collector) add(n *sitter.Node) {
	if n == nil || n.Type() != "string" {
		return
	}
	spec := strings.Trim(n.Content(c.source), "\"'`")
	if spec == "" {
		return
	}
	if _, ok := c.seen[spec]; ok {
		return
	}
	c.seen[spec] = struct{}{}
	c.specs = append(c.specs, spec)
}

func (c *collector) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "import_statement", "export_statement":
		if !typeOnly(n) {
			c.add(n.ChildByFieldName("source"))
		}
	case "import_require_clause":
		c.add(n.ChildByFieldName("source"))
	case "call_expression":
		c.call(n)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		c.walk(n.Child(i))
	}
}

// call records import("x") and require("x") with a literal first argument.
func (c *collector) call(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if fn == nil || args == nil || args.NamedChildCount() == 0 {
		return
	}
	switch {
	case fn.Type() == "import":
	case fn.Type() == "identifier" && fn.Content(c.source) == "require":
	default:
		return
	}
	c.add(args.NamedChild(0))
}

// typeOnly reports whether an import or export statement carries the "type"
// modifier, as in `import type { A } from "./a"`.
func typeOnly(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() && child.Type() == "type" {
			return true
		}
	}
	return false
}
