package docstring

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Docstring is a parsed docstring: an ordered set of sections keyed by
// canonical name. A nil section value marks a slot that is reserved by the
// template or was emptied by a merge.
type Docstring struct {
	def      *styleDef
	sections *orderedmap.OrderedMap[string, *Section]

	trailingNewlines int
	singleLine       bool

	log         logrus.FieldLogger
	diagnostics []Diagnostic
}

// Option configures a Docstring at construction.
type Option func(*Docstring)

// WithLogger routes merge diagnostics to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Docstring) {
		if l != nil {
			d.log = l
		}
	}
}

// WithTemplateOrder lays sections out in the style's canonical order instead
// of the order they were written in.
func WithTemplateOrder() Option {
	return func(d *Docstring) {
		for _, name := range d.def.template {
			if _, ok := d.sections.Get(name); !ok {
				d.sections.Set(name, nil)
			}
		}
	}
}

// New returns an empty Docstring of the given style.
func New(style Style, opts ...Option) (*Docstring, error) {
	def, err := lookup(style)
	if err != nil {
		return nil, err
	}
	d := &Docstring{
		def:        def,
		sections:   orderedmap.New[string, *Section](),
		singleLine: true,
		log:        logrus.StandardLogger(),
	}
	d.sections.Set(secSummary, nil)
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Parse reads the text between a docstring's quotes. Parsing never fails;
// text that matches no section grammar ends up in the summary.
func Parse(text string, style Style, opts ...Option) (*Docstring, error) {
	d, err := New(style, opts...)
	if err != nil {
		return nil, err
	}
	d.trailingNewlines = countTrailingNewlines(text)
	d.singleLine = !strings.Contains(strings.TrimRightFunc(text, unicode.IsSpace), "\n")
	for _, raw := range d.def.split(dedentDocstr(text, 1)) {
		sec := d.finalizeSection(raw.heading, raw.body)
		sec.LeadingBlank = sec.LeadingBlank || raw.leadingBlank
	}
	return d, nil
}

// Style returns the docstring convention.
func (d *Docstring) Style() Style {
	return d.def.style
}

// Section returns the section for a heading or canonical name, or nil.
func (d *Docstring) Section(name string) *Section {
	if sec, ok := d.sections.Get(name); ok {
		return sec
	}
	sec, _ := d.sections.Get(CanonicalName(name))
	return sec
}

// Exists reports whether a non-empty section is present.
func (d *Docstring) Exists(name string) bool {
	return d.Section(name) != nil
}

// Sections returns the present sections in order.
func (d *Docstring) Sections() []*Section {
	out := make([]*Section, 0, d.sections.Len())
	for pair := d.sections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value != nil {
			out = append(out, pair.Value)
		}
	}
	return out
}

// Summary returns the summary text, which may be empty.
func (d *Docstring) Summary() string {
	if sec := d.Section(secSummary); sec != nil {
		return sec.Text
	}
	return ""
}

// SetSummary replaces the summary text.
func (d *Docstring) SetSummary(text string) {
	d.finalizeSection(secSummary, "").SetText(text)
}

// Diagnostics returns the non-fatal findings recorded by merges.
func (d *Docstring) Diagnostics() []Diagnostic {
	return d.diagnostics
}

// AddSection parses body under heading and stores it, replacing any section
// with the same canonical name.
func (d *Docstring) AddSection(heading, body string) *Section {
	sec := newSection(d.def, heading)
	sec.SetText(body)
	d.sections.Set(sec.Name, sec)
	return sec
}

// finalizeSection parses body under heading. A heading seen twice extends
// the earlier section rather than replacing it.
func (d *Docstring) finalizeSection(heading, body string) *Section {
	sec := newSection(d.def, heading)
	sec.SetText(body)
	prev, ok := d.sections.Get(sec.Name)
	if !ok || prev == nil {
		d.sections.Set(sec.Name, sec)
		return sec
	}
	prev.absorb(sec)
	return prev
}

func (s *Section) absorb(other *Section) {
	if !s.Structured() {
		if isBlank(other.Text) {
			return
		}
		if isBlank(s.Text) {
			s.Text = other.Text
			return
		}
		s.Text = withBoundingNewlines(s.Text, 0, 2) + other.Text
		return
	}
	for pair := other.Params.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		if s.ReturnLike() || pair.Value.DescriptionOnly {
			key = strconv.Itoa(s.Params.Len())
		}
		if _, taken := s.Params.Get(key); !taken {
			s.Params.Set(key, pair.Value)
		}
	}
}

// Format renders the docstring. Every line but the first is indented by
// indent, the body indentation of the declaration.
func (d *Docstring) Format(indent string) string {
	body := strings.TrimRightFunc(d.def.render(d), unicode.IsSpace)
	trailing := d.trailingNewlines
	if trailing == 0 && d.singleLine && strings.Contains(body, "\n") {
		trailing = 1
	}
	s := indentDocstr(body+strings.Repeat("\n", trailing), indent, 1)
	if trailing > 0 {
		s += indent
	}
	return s
}

// String renders the docstring without outer indentation.
func (d *Docstring) String() string {
	return d.Format("")
}
