package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var spaceFixer = strings.NewReplacer("[ ", "[", "( ", "(", " ]", "]", " )", ")", " ,", ",")

// ParseFunction tokenizes a `def` or `async def` header. Decorator lines
// may precede it. A first parameter named self or cls is dropped.
func ParseFunction(header string) (*Function, error) {
	node, src, err := parseHeader(header, "function_definition")
	if err != nil {
		return nil, err
	}

	fn := &Function{
		Name:  node.ChildByFieldName("name").Content(src),
		Async: node.Child(0).Type() == "async",
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnAnnotation = cleanAnnotation(ret.Content(src))
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = parseParams(params, src)
	}
	return fn, nil
}

// ParseClass tokenizes a `class` header.
func ParseClass(header string) (*Class, error) {
	node, src, err := parseHeader(header, "class_definition")
	if err != nil {
		return nil, err
	}

	class := &Class{Name: node.ChildByFieldName("name").Content(src)}
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			base := supers.NamedChild(i)
			switch base.Type() {
			case "comment", "keyword_argument", "dictionary_splat":
				continue
			}
			class.Bases = append(class.Bases, normalizeSpace(base.Content(src)))
		}
	}
	return class, nil
}

// parseHeader gives the header a one-statement body and parses it. Anything
// but a single well-formed declaration of the wanted kind is rejected.
func parseHeader(header, kind string) (*sitter.Node, []byte, error) {
	text := strings.TrimSpace(dedentBlock(header))
	if text == "" {
		return nil, nil, fmt.Errorf("%w: empty header", ErrMalformedDeclaration)
	}
	if !strings.HasSuffix(text, ":") {
		text += ":"
	}
	src := []byte(text + "\n    pass\n")

	tree, err := parse(src)
	if err != nil {
		return nil, nil, err
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, nil, fmt.Errorf("%w: %q", ErrMalformedDeclaration, firstLine(text))
	}

	var stmts []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if n := root.NamedChild(i); n.Type() != "comment" {
			stmts = append(stmts, n)
		}
	}
	if len(stmts) != 1 {
		return nil, nil, fmt.Errorf("%w: %q", ErrMalformedDeclaration, firstLine(text))
	}
	node := stmts[0]
	if node.Type() == "decorated_definition" {
		node = node.ChildByFieldName("definition")
	}
	if node == nil || node.Type() != kind {
		return nil, nil, fmt.Errorf("%w: not a %s: %q", ErrMalformedDeclaration,
			strings.TrimSuffix(kind, "_definition"), firstLine(text))
	}
	return node, src, nil
}

func parseParams(params *sitter.Node, src []byte) []Param {
	var out []Param
	kwOnly := false
	for i := 0; i < int(params.NamedChildCount()); i++ {
		n := params.NamedChild(i)
		var p Param
		switch n.Type() {
		case "identifier":
			p.Name = n.Content(src)
		case "typed_parameter":
			p = splat(n.NamedChild(0), src)
			p.Annotation = annotation(n.ChildByFieldName("type"), src)
		case "default_parameter":
			p.Name = n.ChildByFieldName("name").Content(src)
			setDefault(&p, n.ChildByFieldName("value"), src)
		case "typed_default_parameter":
			p.Name = n.ChildByFieldName("name").Content(src)
			p.Annotation = annotation(n.ChildByFieldName("type"), src)
			setDefault(&p, n.ChildByFieldName("value"), src)
		case "list_splat_pattern", "dictionary_splat_pattern":
			if n.NamedChildCount() == 0 {
				kwOnly = true
				continue
			}
			p = splat(n, src)
		case "keyword_separator":
			kwOnly = true
			continue
		default:
			// positional_separator, comment
			continue
		}

		p.KeywordOnly = kwOnly && !p.VarArg && !p.KwArg
		if p.VarArg {
			kwOnly = true
		}
		out = append(out, p)
	}

	if len(out) > 0 && !out[0].VarArg && !out[0].KwArg &&
		(out[0].Name == "self" || out[0].Name == "cls") {
		out = out[1:]
	}
	return out
}

func splat(n *sitter.Node, src []byte) Param {
	switch n.Type() {
	case "list_splat_pattern":
		return Param{Name: "*" + n.NamedChild(0).Content(src), VarArg: true}
	case "dictionary_splat_pattern":
		return Param{Name: "**" + n.NamedChild(0).Content(src), KwArg: true}
	}
	return Param{Name: n.Content(src)}
}

func setDefault(p *Param, value *sitter.Node, src []byte) {
	if value == nil {
		return
	}
	p.Optional = true
	p.Default = normalizeSpace(value.Content(src))
	if typ, ok := literalType(value, src); ok && typ != noneType {
		p.DefaultType = typ
	}
}

func annotation(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return cleanAnnotation(n.Content(src))
}

// cleanAnnotation normalizes whitespace and strips the quotes of string
// forward references and brackets that enclose the whole annotation.
func cleanAnnotation(s string) string {
	s = normalizeSpace(s)
	for {
		switch {
		case isQuoted(s, `"""`), isQuoted(s, `'''`):
			s = strings.TrimSpace(s[3 : len(s)-3])
		case isQuoted(s, `"`), isQuoted(s, `'`):
			s = strings.TrimSpace(s[1 : len(s)-1])
		case enclosed(s, '(', ')'), enclosed(s, '[', ']'):
			s = strings.TrimSpace(s[1 : len(s)-1])
		default:
			return s
		}
	}
}

func isQuoted(s, q string) bool {
	if len(s) < 2*len(q) || !strings.HasPrefix(s, q) || !strings.HasSuffix(s, q) {
		return false
	}
	return !strings.Contains(s[len(q):len(s)-len(q)], q)
}

// enclosed reports whether the opening bracket at s[0] is closed by the
// last byte of s.
func enclosed(s string, opening, closing byte) bool {
	if len(s) < 2 || s[0] != opening || s[len(s)-1] != closing {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 && i < len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func normalizeSpace(s string) string {
	return spaceFixer.Replace(strings.Join(strings.Fields(s), " "))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
