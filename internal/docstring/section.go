package docstring

// Section is one headed block of a docstring. Structured sections hold an
// ordered Params mapping, all others keep their body as Text.
type Section struct {
	// Heading is the text written in the docstring, Name the canonical key.
	Heading string
	Name    string
	Params  *Params
	Text    string

	SectionIndent string
	Indent        string
	// LeadingBlank is set when a blank line preceded the section. Only field
	// list styles, which have no heading to separate sections, use it.
	LeadingBlank bool

	def *styleDef
}

func newSection(def *styleDef, heading string) *Section {
	name := CanonicalName(heading)
	sec := &Section{
		Heading:       heading,
		Name:          name,
		SectionIndent: def.sectionIndent,
		Indent:        def.indent,
		def:           def,
	}
	if structured[name] {
		sec.Params = NewParams()
		sec.SectionIndent = def.fieldIndent
	}
	return sec
}

// Structured reports whether the section holds entries rather than prose.
func (s *Section) Structured() bool {
	return s.Params != nil
}

// ReturnLike reports whether entries are keyed by position rather than name.
func (s *Section) ReturnLike() bool {
	return returnLike[s.Name]
}

// SetText replaces the section body, parsing entries for structured sections.
func (s *Section) SetText(text string) {
	text = stripTrailingNewlines(text, 1)
	if s.Structured() {
		if indent, _ := dedentVerbose(text, 0); indent != "" {
			s.SectionIndent = indent
		}
		s.Params = s.def.parseParams(s, text)
		return
	}
	indent, body := dedentVerbose(text, s.def.proseSkip)
	if indent != "" {
		s.SectionIndent = indent
	}
	s.Text = body
}

// Body renders the section content without its heading or outer indent.
func (s *Section) Body() string {
	if s.Structured() {
		return s.def.formatParams(s)
	}
	return s.Text
}

// Empty reports whether a structured section has no entries left.
func (s *Section) Empty() bool {
	return s.Structured() && s.Params.Len() == 0
}
