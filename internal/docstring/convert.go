package docstring

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Convert returns a copy of d written in another style. Nothing is shared
// with d, which is left untouched. Empty sections are dropped and entry
// indentation is reset to the target style's.
func Convert(d *Docstring, style Style) (*Docstring, error) {
	def, err := lookup(style)
	if err != nil {
		return nil, err
	}
	out := &Docstring{
		def:              def,
		sections:         orderedmap.New[string, *Section](),
		trailingNewlines: d.trailingNewlines,
		singleLine:       d.singleLine,
		log:              d.log,
	}
	out.sections.Set(secSummary, nil)

	for _, sec := range d.Sections() {
		if sec.Empty() {
			continue
		}
		heading := sec.Heading
		if sec.Name == secParameters {
			heading = def.paramsHeading
		}
		ns := newSection(def, heading)
		if sec.Structured() {
			ns.Params = cloneParams(sec.Params)
			for _, p := range Values(ns.Params) {
				if !p.DescriptionOnly {
					p.setIndent(ns.Indent)
				}
			}
		} else {
			ns.Text = sec.Text
		}
		out.sections.Set(ns.Name, ns)
	}
	return out, nil
}
