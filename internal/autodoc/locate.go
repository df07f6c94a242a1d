package autodoc

import (
	"strings"

	"autodocstring/internal/extractor"
)

// Lines a module docstring must stay below.
var preamblePrefixes = []string{"#!", "# -*-", "# pylint:"}

// site is where a declaration's docstring is, or where a new one goes.
type site struct {
	exists bool
	quote  string
	indent string

	// [start, end) is the whole literal for an existing docstring and the
	// replaced region for a new one.
	start, end int

	// Existing docstrings only: the text between the quotes, and the end
	// of the blanks trailing the closing quotes on their line.
	innerStart, innerEnd int
	trimEnd              int

	// New docstrings only.
	prefix, suffix string
}

// locate finds the docstring of d in src. A missing docstring yields the
// insertion point for one quoted with quote.
func locate(src string, d extractor.Declaration, quote string) (*site, error) {
	module := d.Kind == extractor.KindModule
	headerEnd := d.HeaderEnd
	headerLine := lineOf(src, headerEnd)
	if module {
		headerEnd = skipPreamble(src)
	}

	next := nextNonSpace(src, headerEnd)
	// A comment after the colon is not the body.
	if next >= 0 && !module && src[next] == '#' && lineOf(src, next) == headerLine {
		next = nextNonSpace(src, lineEnd(src, headerEnd))
	}

	indent, hasBody := bodyIndent(src, d.Indent, headerEnd, module)
	s := &site{indent: indent}

	if next >= 0 {
		if q, open := openingQuote(src, next); q != "" {
			closing := closingQuote(src, open, q)
			if closing < 0 {
				return nil, ErrUnterminatedDocstring
			}
			s.exists = true
			s.quote = q
			s.start, s.end = next, closing+len(q)
			s.innerStart, s.innerEnd = open, closing
			s.trimEnd = s.end
			if eol := lineEnd(src, s.end); strings.TrimSpace(src[s.end:eol]) == "" {
				s.trimEnd = eol
			}
			return s, nil
		}
	}

	s.quote = quote
	switch {
	case next >= 0 && lineOf(src, next) == headerLine:
		// The body starts on the declaration line; push it down.
		s.start, s.end = headerEnd, next
		s.prefix, s.suffix = "\n", "\n"+indent
		if module {
			s.prefix = ""
		}
	case hasBody:
		s.start = fullLineEnd(src, headerEnd)
		s.end = skipSpace(src, s.start)
		s.suffix = "\n" + indent
	default:
		s.start = fullLineEnd(src, headerEnd)
		s.end = s.start
		s.suffix = "\n"
		if s.start == len(src) && len(src) > 0 && src[len(src)-1] != '\n' {
			s.prefix = "\n"
		}
	}
	return s, nil
}

// apply writes text as the docstring at s and returns the new source.
// comment, when set, is placed on the lines after the closing quotes.
func (s *site) apply(src, text, comment string) string {
	var b strings.Builder
	if s.exists {
		b.WriteString(src[:s.innerStart])
		b.WriteString(text)
		b.WriteString(src[s.innerEnd:s.end])
		b.WriteString(comment)
		b.WriteString(src[s.trimEnd:])
		return b.String()
	}
	b.WriteString(src[:s.start])
	b.WriteString(s.prefix)
	b.WriteString(s.indent)
	b.WriteString(s.quote)
	b.WriteString(text)
	b.WriteString(s.quote)
	b.WriteString(s.suffix)
	b.WriteString(src[s.end:])
	return b.String()
}

// text returns the current docstring body, or "" for a new one.
func (s *site) text(src string) string {
	if !s.exists {
		return ""
	}
	return src[s.innerStart:s.innerEnd]
}

// openingQuote reports the quotes of a string literal starting at i, with
// an optional r or u prefix, and the offset right after them.
func openingQuote(src string, i int) (string, int) {
	switch src[i] {
	case 'r', 'R', 'u', 'U':
		i++
	}
	rest := src[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(rest, q) {
			return q, i + len(q)
		}
	}
	return "", i
}

// closingQuote returns the offset of the first q at or after from that is
// not preceded by a backslash, or -1.
func closingQuote(src string, from int, q string) int {
	for from <= len(src) {
		j := strings.Index(src[from:], q)
		if j < 0 {
			return -1
		}
		at := from + j
		if at > 0 && src[at-1] == '\\' {
			from = at + 1
			continue
		}
		return at
	}
	return -1
}

// bodyIndent returns the indentation of the body that follows the line
// ending at headerEnd. When nothing is indented deeper than the
// declaration, it guesses one level below declIndent. Module docstrings are
// never indented.
func bodyIndent(src, declIndent string, headerEnd int, module bool) (string, bool) {
	if module {
		return "", false
	}
	if next := nextNonSpace(src, lineEnd(src, headerEnd)); next >= 0 {
		start := strings.LastIndexByte(src[:next], '\n') + 1
		if indent := src[start:next]; columns(indent) > columns(declIndent) {
			return indent, true
		}
	}
	unit := "    "
	if strings.HasPrefix(declIndent, "\t") {
		unit = "\t"
	}
	return declIndent + unit, false
}

// skipPreamble returns the end of the shebang, coding and pylint lines at
// the top of src, or 0 when there are none.
func skipPreamble(src string) int {
	end, pos := 0, 0
	for pos < len(src) {
		eol := lineEnd(src, pos)
		line := src[pos:eol]
		if !hasAnyPrefix(line, preamblePrefixes) {
			break
		}
		end = eol
		pos = eol + 1
	}
	return end
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func nextNonSpace(src string, from int) int {
	for i := from; i < len(src); i++ {
		if !isSpace(src[i]) {
			return i
		}
	}
	return -1
}

func skipSpace(src string, from int) int {
	for from < len(src) && isSpace(src[from]) {
		from++
	}
	return from
}

// lineEnd returns the offset of the newline ending the line holding off,
// or len(src).
func lineEnd(src string, off int) int {
	if i := strings.IndexByte(src[off:], '\n'); i >= 0 {
		return off + i
	}
	return len(src)
}

// fullLineEnd is lineEnd past the newline itself.
func fullLineEnd(src string, off int) int {
	return min(lineEnd(src, off)+1, len(src))
}

func lineOf(src string, off int) int {
	return strings.Count(src[:off], "\n")
}

// columns measures indentation, with tabs four columns wide.
func columns(indent string) int {
	n := 0
	for _, c := range indent {
		if c == '\t' {
			n += 4
			continue
		}
		n++
	}
	return n
}
