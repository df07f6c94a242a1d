package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// walk visits n and its named descendants depth first, in source order.
// Children are skipped when visit returns false.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if !visit(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}

func nestedScope(n *sitter.Node) bool {
	switch n.Type() {
	case "function_definition", "class_definition", "lambda":
		return true
	}
	return false
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() != "comment" {
			return child
		}
	}
	return nil
}

// scanRaises collects the exceptions raised directly by a function body,
// in order of first appearance. Bare re-raises are skipped.
func scanRaises(body *sitter.Node, src []byte) []string {
	var names []string
	seen := make(map[string]bool)
	walk(body, func(n *sitter.Node) bool {
		if nestedScope(n) {
			return false
		}
		if n.Type() != "raise_statement" {
			return true
		}
		exc := firstNamed(n)
		if exc == nil {
			return false
		}
		if exc.Type() == "call" {
			exc = exc.ChildByFieldName("function")
		}
		name := normalizeSpace(exc.Content(src))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return false
	})
	return names
}

// scanKeyword reports the last of `return <value>` and `yield` found in a
// function body. Bare returns do not count.
func scanKeyword(body *sitter.Node, src []byte) Keyword {
	kw := KeywordNone
	walk(body, func(n *sitter.Node) bool {
		if nestedScope(n) {
			return false
		}
		switch n.Type() {
		case "return_statement":
			if firstNamed(n) != nil {
				kw = KeywordReturn
			}
		case "yield":
			kw = KeywordYield
		}
		return true
	})
	return kw
}

// attributeSet accumulates attributes by name. The first annotated type
// wins, otherwise the first type that could be inferred.
type attributeSet struct {
	attrs []Attribute
	index map[string]int
}

func newAttributeSet() *attributeSet {
	return &attributeSet{index: make(map[string]int)}
}

func (s *attributeSet) add(name string, typ, value *sitter.Node, src []byte) {
	if name == "" || strings.HasPrefix(name, "_") {
		return
	}
	i, ok := s.index[name]
	if !ok {
		i = len(s.attrs)
		s.index[name] = i
		s.attrs = append(s.attrs, Attribute{Name: name})
	}
	a := &s.attrs[i]
	switch {
	case a.Annotated:
	case typ != nil:
		a.Type = cleanAnnotation(typ.Content(src))
		a.Annotated = true
	case a.Type == "" && value != nil:
		if t, ok := literalType(value, src); ok && t != noneType {
			a.Type = t
		}
	}
}

// assignment unrolls `a = b = value` into its targets, annotation and value.
func assignment(n *sitter.Node) (targets []*sitter.Node, typ, value *sitter.Node) {
	for n != nil && n.Type() == "assignment" {
		if left := n.ChildByFieldName("left"); left != nil {
			targets = append(targets, left)
		}
		if t := n.ChildByFieldName("type"); t != nil {
			typ = t
		}
		right := n.ChildByFieldName("right")
		if right != nil && right.Type() == "assignment" {
			n = right
			continue
		}
		value = right
		break
	}
	return targets, typ, value
}

// plainAssignments adds the `name = value` statements found directly in a
// block.
func (s *attributeSet) plainAssignments(block *sitter.Node, src []byte) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		targets, typ, value := assignment(firstNamed(stmt))
		for _, t := range targets {
			if t.Type() == "identifier" {
				s.add(t.Content(src), typ, value, src)
			}
		}
	}
}

// selfAssignments adds `self.name = value` statements found anywhere in a
// method body outside nested classes.
func (s *attributeSet) selfAssignments(body *sitter.Node, src []byte) {
	walk(body, func(n *sitter.Node) bool {
		if n.Type() == "class_definition" {
			return false
		}
		if n.Type() != "assignment" {
			return true
		}
		targets, typ, value := assignment(n)
		for _, t := range targets {
			if t.Type() != "attribute" {
				continue
			}
			obj := t.ChildByFieldName("object")
			attr := t.ChildByFieldName("attribute")
			if obj != nil && attr != nil && obj.Content(src) == "self" {
				s.add(attr.Content(src), typ, value, src)
			}
		}
		return false
	})
}

// classAttributes scans a class body for class-level assignments and
// instance attributes set in its methods.
func classAttributes(body *sitter.Node, src []byte) []Attribute {
	set := newAttributeSet()
	set.plainAssignments(body, src)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		n := body.NamedChild(i)
		if n.Type() == "decorated_definition" {
			n = n.ChildByFieldName("definition")
		}
		if n == nil || n.Type() != "function_definition" {
			continue
		}
		if fnBody := n.ChildByFieldName("body"); fnBody != nil {
			set.selfAssignments(fnBody, src)
		}
	}
	return set.attrs
}

func moduleAttributes(root *sitter.Node, src []byte) []Attribute {
	set := newAttributeSet()
	set.plainAssignments(root, src)
	return set.attrs
}

// ScanRaises parses the source of one function and lists the exceptions it
// raises.
func ScanRaises(block string) ([]string, error) {
	body, src, err := definitionBody(block, "function_definition")
	if err != nil {
		return nil, err
	}
	return scanRaises(body, src), nil
}

// ScanReturnKeyword parses the source of one function and reports whether
// it returns or yields.
func ScanReturnKeyword(block string) (Keyword, error) {
	body, src, err := definitionBody(block, "function_definition")
	if err != nil {
		return KeywordNone, err
	}
	return scanKeyword(body, src), nil
}

// ScanClassAttributes parses the source of one class and lists its public
// attributes.
func ScanClassAttributes(block string) ([]Attribute, error) {
	body, src, err := definitionBody(block, "class_definition")
	if err != nil {
		return nil, err
	}
	return classAttributes(body, src), nil
}

// ScanModuleAttributes lists the public names assigned at module level.
func ScanModuleAttributes(source string) ([]Attribute, error) {
	tree, err := parse([]byte(source))
	if err != nil {
		return nil, err
	}
	return moduleAttributes(tree.RootNode(), []byte(source)), nil
}

func definitionBody(block, kind string) (*sitter.Node, []byte, error) {
	root, src, err := parseBlock(block)
	if err != nil {
		return nil, nil, err
	}
	def := firstDefinition(root, kind)
	if def == nil || def.ChildByFieldName("body") == nil {
		return nil, nil, fmt.Errorf("%w: no %s found", ErrMalformedDeclaration, strings.TrimSuffix(kind, "_definition"))
	}
	return def.ChildByFieldName("body"), src, nil
}
