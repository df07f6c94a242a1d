package docstring

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style identifies a docstring convention.
type Style int

const (
	Google Style = iota
	Numpy
	Sphinx
)

var styleNames = map[Style]string{
	Google: "google",
	Numpy:  "numpy",
	Sphinx: "sphinx",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle maps a style name to its Style, ignoring case.
func ParseStyle(name string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for style, n := range styleNames {
		if n == key {
			return style, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// rawSection is one heading and its body, as split out of a docstring.
type rawSection struct {
	heading      string
	body         string
	leadingBlank bool
}

// styleDef is the strategy record behind a Style. All behavior that differs
// between conventions hangs off this table.
type styleDef struct {
	style Style
	// sectionIndent is the default body indent of unstructured sections and
	// fieldIndent the one of structured sections.
	sectionIndent string
	fieldIndent   string
	// indent is the default continuation indent of entry descriptions.
	indent        string
	paramsHeading string
	template      []string
	detect        *regexp.Regexp
	// proseSkip is the number of leading lines of an unstructured body that
	// sit on the heading line and are exempt from dedenting.
	proseSkip int

	split        func(s string) []rawSection
	parseParams  func(sec *Section, text string) *Params
	formatParams func(sec *Section) string
	render       func(d *Docstring) string
}

var registry = map[Style]*styleDef{}

// detectOrder lists styles in detection priority. A Numpy heading never
// looks like a Google one, the reverse is not true.
var detectOrder = []Style{Numpy, Google, Sphinx}

func register(def *styleDef) {
	registry[def.style] = def
}

func lookup(style Style) (*styleDef, error) {
	def, ok := registry[style]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, style)
	}
	return def, nil
}

// DetectStyle reports the first style whose section markers appear in text.
func DetectStyle(text string) (Style, bool) {
	s := dedentDocstr(text, 1)
	for _, style := range detectOrder {
		if registry[style].detect.MatchString(s) {
			return style, true
		}
	}
	return 0, false
}

var aliases = map[string]string{
	"Args":              "Parameters",
	"Arguments":         "Parameters",
	"Parameter":         "Parameters",
	"Params":            "Parameters",
	"Other Args":        "Other Parameters",
	"Other Arguments":   "Other Parameters",
	"Keyword Args":      "Keyword Arguments",
	"Kwargs":            "Keyword Arguments",
	"Deleted Args":      "Deleted Parameters",
	"Deleted Arguments": "Deleted Parameters",
	"Return":            "Returns",
	"Yield":             "Yields",
	"Raise":             "Raises",
	"Warnings":          "Warning",
	"Seealso":           "See Also",
}

const (
	secSummary          = "Summary"
	secParameters       = "Parameters"
	secOtherParameters  = "Other Parameters"
	secKeywordArguments = "Keyword Arguments"
	secAttributes       = "Attributes"
	secRaises           = "Raises"
	secReturns          = "Returns"
	secYields           = "Yields"
	secNoLongerReturned = "No Longer Returned"
	secNoLongerYielded  = "No Longer Yielded"
	deletedPrefix       = "Deleted "
	noLongerPrefix      = "No Longer "
)

var structured = map[string]bool{
	secParameters:        true,
	secOtherParameters:   true,
	secKeywordArguments:  true,
	secAttributes:        true,
	secRaises:            true,
	secReturns:           true,
	secYields:            true,
	"Deleted Parameters": true,
	"Deleted Attributes": true,
	"No Longer Raises":   true,
	secNoLongerReturned:  true,
	secNoLongerYielded:   true,
}

var returnLike = map[string]bool{
	secReturns:          true,
	secYields:           true,
	secNoLongerReturned: true,
	secNoLongerYielded:  true,
}

// CanonicalName resolves a heading to the name sections are keyed by.
// Headings are title-cased first so the lookup ignores case.
func CanonicalName(heading string) string {
	title := cases.Title(language.Und).String(strings.TrimSpace(heading))
	if alias, ok := aliases[title]; ok {
		return alias
	}
	return title
}

var napoleonTemplate = []string{
	secSummary,
	secParameters,
	secKeywordArguments,
	secReturns,
	secYields,
	secOtherParameters,
	"Deleted Parameters",
	secAttributes,
	"Deleted Attributes",
	"Methods",
	secRaises,
	"No Longer Raises",
	secNoLongerReturned,
	secNoLongerYielded,
	"Warns",
	"See Also",
	"Warning",
	"Note",
	"Notes",
	"References",
	"Example",
	"Examples",
}
