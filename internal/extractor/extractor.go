package extractor

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

const declarationQuery = `
	(function_definition) @func
	(class_definition) @class
`

func parse(src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return tree, nil
}

// FindDeclarations lists the documentable units of a Python source file.
// The module comes first, followed by every class and function in source
// order, nested ones included.
func FindDeclarations(src []byte) ([]Declaration, error) {
	tree, err := parse(src)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()

	decls := []Declaration{{
		Kind:       KindModule,
		End:        len(src),
		EndLine:    int(root.EndPoint().Row),
		Attributes: moduleAttributes(root, src),
	}}

	query, err := sitter.NewQuery([]byte(declarationQuery), python.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	qc := sitter.NewQueryCursor()
	qc.Exec(query, root)

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			if d, ok := declaration(query.CaptureNameForId(c.Index), c.Node, src); ok {
				decls = append(decls, d)
			}
		}
	}

	slices.SortStableFunc(decls[1:], func(a, b Declaration) int {
		return a.Start - b.Start
	})
	return decls, nil
}

func declaration(capture string, node *sitter.Node, src []byte) (Declaration, bool) {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return Declaration{}, false
	}

	// The body colon is the last one before the body starts. Parameter
	// annotations and lambdas in defaults have colons of their own.
	var colon *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.StartByte() >= body.StartByte() {
			break
		}
		if child.Type() == ":" {
			colon = child
		}
	}
	if colon == nil {
		return Declaration{}, false
	}

	start := int(node.StartByte())
	d := Declaration{
		Name:      name.Content(src),
		Header:    string(src[start:colon.EndByte()]),
		Start:     start,
		HeaderEnd: int(colon.EndByte()),
		End:       int(node.EndByte()),
		StartLine: int(node.StartPoint().Row),
		EndLine:   int(node.EndPoint().Row),
		Indent:    lineIndent(src, start),
	}

	switch capture {
	case "func":
		d.Kind = KindFunction
		d.Raises = scanRaises(body, src)
		d.Keyword = scanKeyword(body, src)
	case "class":
		d.Kind = KindClass
		d.Attributes = classAttributes(body, src)
	default:
		return Declaration{}, false
	}
	return d, true
}

// lineIndent returns the whitespace that starts the line holding offset.
func lineIndent(src []byte, offset int) string {
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	line := src[lineStart:offset]
	trimmed := bytes.TrimLeft(line, " \t")
	return string(line[:len(line)-len(trimmed)])
}

// parseBlock parses a standalone block of source, such as the text of one
// method, after removing the indentation of its first line.
func parseBlock(block string) (*sitter.Node, []byte, error) {
	src := []byte(dedentBlock(block))
	tree, err := parse(src)
	if err != nil {
		return nil, nil, err
	}
	return tree.RootNode(), src, nil
}

// firstDefinition returns the first top-level function or class of root.
func firstDefinition(root *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() == "decorated_definition" {
			n = n.ChildByFieldName("definition")
		}
		if n != nil && n.Type() == kind {
			return n
		}
	}
	return nil
}

// dedentBlock drops leading blank lines and removes the indentation of the
// first remaining line from every line.
func dedentBlock(block string) string {
	lines := strings.SplitAfter(block, "\n")
	for len(lines) > 1 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	first := strings.TrimLeft(lines[0], " \t")
	margin := lines[0][:len(lines[0])-len(first)]
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "")
}
