// Package inspect audits Python sources for missing docstrings and type hints.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// Findings holds the two violation lists gathered in one traversal.
type Findings struct {
	Docstrings []string
	TypeHints  []string
}

// Inspector parses Python files relative to a root directory.
type Inspector struct {
	root string
}

// New creates an inspector resolving relative paths against root.
func New(root string) *Inspector {
	return &Inspector{root: root}
}

// InspectFile reads source and inspects it. A missing file is not an error: it
// yields a single docstring violation naming the file.
func (i *Inspector) InspectFile(ctx context.Context, source string) (Findings, error) {
	full := source
	if !filepath.IsAbs(full) {
		full = filepath.Join(i.root, source)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Findings{Docstrings: []string{fmt.Sprintf("%s not found for analysis", source)}}, nil
		}
		return Findings{}, fmt.Errorf("read %q: %w", source, err)
	}
	findings, err := Inspect(ctx, data)
	if err != nil {
		return Findings{}, fmt.Errorf("inspect %q: %w", source, err)
	}
	return findings, nil
}

// Inspect walks the parsed source breadth-first and records every definition
// lacking a docstring and every plain function lacking annotations.
func Inspect(ctx context.Context, src []byte) (Findings, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return Findings{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return Findings{}, fmt.Errorf("no root node in parse tree")
	}
	if root.HasError() {
		return Findings{}, ErrSyntax
	}

	var f Findings
	queue := []*sitter.Node{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		switch node.Type() {
		case "function_definition", "class_definition":
			name := node.ChildByFieldName("name").Content(src)
			if !hasDocstring(node.ChildByFieldName("body"), src) {
				f.Docstrings = append(f.Docstrings, name+" missing docstring")
			}
			if node.Type() == "function_definition" && !isAsync(node) {
				f.TypeHints = append(f.TypeHints, typeHintViolations(name, node, src)...)
			}
		}
		queue = append(queue, statementChildren(node)...)
	}
	return f, nil
}

// Nodes that only group statements; their children belong to the parent.
var transparent = map[string]bool{
	"block":                true,
	"decorated_definition": true,
	"else_clause":          true,
	"finally_clause":       true,
}

func statementChildren(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		if child == nil {
			continue
		}
		if transparent[child.Type()] {
			out = append(out, statementChildren(child)...)
			continue
		}
		out = append(out, child)
	}
	return out
}

func isAsync(node *sitter.Node) bool {
	for idx := 0; idx < int(node.ChildCount()); idx++ {
		child := node.Child(idx)
		if child == nil {
			continue
		}
		if child.Type() == "async" {
			return true
		}
		if child.Type() == "def" {
			return false
		}
	}
	return false
}

func hasDocstring(body *sitter.Node, src []byte) bool {
	if body == nil {
		return false
	}
	for idx := 0; idx < int(body.NamedChildCount()); idx++ {
		stmt := body.NamedChild(idx)
		if stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return false
		}
		expr := stmt.NamedChild(0)
		for expr.Type() == "parenthesized_expression" && expr.NamedChildCount() == 1 {
			expr = expr.NamedChild(0)
		}
		switch expr.Type() {
		case "string":
			text, ok := literalText(expr.Content(src))
			return ok && strings.TrimSpace(text) != ""
		case "concatenated_string":
			var sb strings.Builder
			for j := 0; j < int(expr.NamedChildCount()); j++ {
				part := expr.NamedChild(j)
				if part.Type() != "string" {
					continue
				}
				text, ok := literalText(part.Content(src))
				if !ok {
					return false
				}
				sb.WriteString(text)
			}
			return strings.TrimSpace(sb.String()) != ""
		default:
			return false
		}
	}
	return false
}

// literalText strips the prefix and quotes of a string literal. Bytes and
// f-strings are rejected since they never count as docstrings.
func literalText(lit string) (string, bool) {
	i := 0
	for i < len(lit) && lit[i] != '\'' && lit[i] != '"' {
		i++
	}
	prefix := strings.ToLower(lit[:i])
	if strings.ContainsAny(prefix, "bf") {
		return "", false
	}
	body := lit[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(body) >= 2*len(q) && strings.HasPrefix(body, q) && strings.HasSuffix(body, q) {
			return body[len(q) : len(body)-len(q)], true
		}
	}
	return body, true
}

func typeHintViolations(name string, fn *sitter.Node, src []byte) []string {
	var out []string
	if params := fn.ChildByFieldName("parameters"); params != nil {
		for _, p := range positionalParams(params, src) {
			if !p.annotated {
				out = append(out, fmt.Sprintf("%s missing type hint for %s", name, p.name))
			}
		}
	}
	if fn.ChildByFieldName("return_type") == nil {
		out = append(out, name+" missing return type hint")
	}
	return out
}

type param struct {
	name      string
	annotated bool
}

// positionalParams returns positional-or-keyword parameters only: anything
// before a "/" is positional-only and anything after "*" or "*args" is
// keyword-only.
func positionalParams(params *sitter.Node, src []byte) []param {
	var out []param
	for idx := 0; idx < int(params.NamedChildCount()); idx++ {
		p := params.NamedChild(idx)
		switch p.Type() {
		case "identifier":
			out = append(out, param{name: p.Content(src)})
		case "default_parameter":
			out = append(out, param{name: p.ChildByFieldName("name").Content(src)})
		case "typed_default_parameter":
			out = append(out, param{name: p.ChildByFieldName("name").Content(src), annotated: true})
		case "typed_parameter":
			first := p.NamedChild(0)
			if first == nil || first.Type() != "identifier" {
				return out
			}
			out = append(out, param{name: first.Content(src), annotated: true})
		case "positional_separator":
			out = nil
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return out
		}
	}
	return out
}
