package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StyleSet selects docstring styles. It reads from YAML as a bool that
// applies to every style, a comma separated string, or a list of names.
type StyleSet struct {
	All    bool
	Styles []string
}

// Has reports whether style is selected.
func (s StyleSet) Has(style string) bool {
	if s.All {
		return true
	}
	for _, st := range s.Styles {
		if strings.EqualFold(st, style) {
			return true
		}
	}
	return false
}

func (s *StyleSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!bool" {
			*s = StyleSet{}
			return node.Decode(&s.All)
		}
		*s = StyleSet{Styles: splitStyles(node.Value)}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*s = StyleSet{Styles: splitStyles(strings.Join(names, ","))}
		return nil
	}
	return fmt.Errorf("line %d: start_with_newline must be a bool, a string or a list", node.Line)
}

func splitStyles(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
