package docstring

import (
	"maps"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Parameter is one documented entry of a structured section: a parameter,
// attribute, exception or return value.
type Parameter struct {
	Names       []string
	Type        string
	Description string
	// Tag records the order in which the entry was first seen, either in the
	// declaration or in the docstring block list.
	Tag int
	// DescriptionOnly marks prose kept verbatim because it did not match the
	// style's entry grammar.
	DescriptionOnly bool
	// Annotated is set when Type came from an explicit source annotation.
	Annotated bool
	Meta      map[string]string
}

// NewParameter returns a Parameter with a single name.
func NewParameter(name, typ, description string, tag int) *Parameter {
	return &Parameter{
		Names:       []string{name},
		Type:        typ,
		Description: description,
		Tag:         tag,
	}
}

// Name returns the names joined the way every style prints them.
func (p *Parameter) Name() string {
	return strings.Join(p.Names, ", ")
}

func (p *Parameter) indent(fallback string) string {
	if ind, ok := p.Meta["indent"]; ok {
		return ind
	}
	return fallback
}

func (p *Parameter) setIndent(indent string) {
	p.setMeta("indent", indent)
}

func (p *Parameter) setMeta(key, value string) {
	if p.Meta == nil {
		p.Meta = map[string]string{}
	}
	p.Meta[key] = value
}

func (p *Parameter) removeName(name string) {
	for i, n := range p.Names {
		if n == name {
			p.Names = append(p.Names[:i:i], p.Names[i+1:]...)
			return
		}
	}
}

func (p *Parameter) clone() *Parameter {
	c := *p
	c.Names = append([]string(nil), p.Names...)
	c.Meta = maps.Clone(p.Meta)
	return &c
}

// Params maps entry names to Parameters in insertion order. Several names may
// share one Parameter.
type Params = orderedmap.OrderedMap[string, *Parameter]

// NewParams returns an empty mapping.
func NewParams() *Params {
	return orderedmap.New[string, *Parameter]()
}

// Keys returns the mapping keys in order.
func Keys(params *Params) []string {
	if params == nil {
		return nil
	}
	keys := make([]string, 0, params.Len())
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns each distinct Parameter once, in order of first appearance.
func Values(params *Params) []*Parameter {
	if params == nil {
		return nil
	}
	seen := make(map[*Parameter]bool, params.Len())
	var out []*Parameter
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil || seen[pair.Value] {
			continue
		}
		seen[pair.Value] = true
		out = append(out, pair.Value)
	}
	return out
}

// cloneParams deep copies a mapping, keeping names that share a Parameter
// sharing the copy.
func cloneParams(params *Params) *Params {
	out := NewParams()
	if params == nil {
		return out
	}
	copies := make(map[*Parameter]*Parameter, params.Len())
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		c, ok := copies[pair.Value]
		if !ok {
			c = pair.Value.clone()
			copies[pair.Value] = c
		}
		out.Set(pair.Key, c)
	}
	return out
}
