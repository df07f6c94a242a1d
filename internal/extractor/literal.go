package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const noneType = "NoneType"

// InferLiteralType reports the Python type name of a literal expression as
// a literal evaluator would produce it: int, float, complex, str, bytes,
// bool, list, tuple, dict, set or ellipsis. It reports false for None and
// for anything that is not a literal, such as names, calls or arithmetic.
func InferLiteralType(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	src := []byte("(" + text + "\n)\n")
	tree, err := parse(src)
	if err != nil {
		return "", false
	}
	root := tree.RootNode()
	if root.HasError() || root.NamedChildCount() != 1 {
		return "", false
	}
	stmt := root.NamedChild(0)
	if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
		return "", false
	}
	typ, ok := literalType(stmt.NamedChild(0), src)
	if !ok || typ == noneType {
		return "", false
	}
	return typ, true
}

// literalType infers the type of a literal node. None is a literal and is
// reported as NoneType so it can sit inside containers.
func literalType(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "integer", "float":
		text := n.Content(src)
		if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
			return "complex", true
		}
		if n.Type() == "integer" {
			return "int", true
		}
		return "float", true
	case "string":
		return stringType(n, src)
	case "concatenated_string":
		var typ string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			t, ok := stringType(child, src)
			if !ok || (typ != "" && t != typ) {
				return "", false
			}
			typ = t
		}
		return typ, typ != ""
	case "true", "false":
		return "bool", true
	case "none":
		return noneType, true
	case "ellipsis":
		return "ellipsis", true
	case "list", "tuple", "set":
		if !allLiteral(n, src) {
			return "", false
		}
		return n.Type(), true
	case "dictionary":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pair := n.NamedChild(i)
			switch pair.Type() {
			case "comment":
				continue
			case "pair":
				if _, ok := literalType(pair.ChildByFieldName("key"), src); !ok {
					return "", false
				}
				if _, ok := literalType(pair.ChildByFieldName("value"), src); !ok {
					return "", false
				}
			default:
				return "", false
			}
		}
		return "dict", true
	case "parenthesized_expression":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if inner := n.NamedChild(i); inner.Type() != "comment" {
				return literalType(inner, src)
			}
		}
		return "", false
	case "unary_operator":
		op := n.ChildByFieldName("operator")
		if op == nil || (op.Type() != "-" && op.Type() != "+") {
			return "", false
		}
		typ, ok := literalType(n.ChildByFieldName("argument"), src)
		if !ok || !isNumber(typ) {
			return "", false
		}
		return typ, true
	case "binary_operator":
		// Only complex literals such as 1+2j are accepted.
		op := n.ChildByFieldName("operator")
		if op == nil || (op.Type() != "-" && op.Type() != "+") {
			return "", false
		}
		left, ok := literalType(n.ChildByFieldName("left"), src)
		if !ok || (left != "int" && left != "float") {
			return "", false
		}
		right, ok := literalType(n.ChildByFieldName("right"), src)
		if !ok || right != "complex" {
			return "", false
		}
		return "complex", true
	}
	return "", false
}

func allLiteral(n *sitter.Node, src []byte) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if _, ok := literalType(child, src); !ok {
			return false
		}
	}
	return true
}

func stringType(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	text := n.Content(src)
	prefix := strings.ToLower(text[:strings.IndexAny(text, `"'`)+1])
	switch {
	case strings.Contains(prefix, "f"):
		return "", false
	case strings.Contains(prefix, "b"):
		return "bytes", true
	}
	return "str", true
}

func isNumber(typ string) bool {
	return typ == "int" || typ == "float" || typ == "complex"
}
