package docstring

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Google and Numpy share the napoleon layout: a summary followed by headed
// sections, entries split into blocks that start on an unindented line.

var (
	googleSectionRe = regexp.MustCompile(`(?m)^[A-Za-z0-9][A-Za-z0-9 \t]*:\s*$\r?\n?`)
	numpySectionRe  = regexp.MustCompile(`(?m)^([A-Za-z0-9][A-Za-z0-9 \t]*)\s*\n-+\s*?$\r?\n?`)

	entryBlockRe = regexp.MustCompile(`(?m)^\S[^\r\n]*(?:\n[^\S\n]+\S[^\r\n]*|\n)*`)

	googleEntryRe = regexp.MustCompile(`(?s)^([^,\s]+(?:\s*,\s*[^,\s]+)*\s*)(?:\((.*)\))?\s*:\s*(.*)`)
	numpyEntryRe  = regexp.MustCompile(`(?s)^\s*([^,\s]+(?:\s*,\s*[^,\s]+)*)\s*(?::\s*(.*?))?[^\S\n]*?\n(\s+.*)`)
)

func init() {
	register(&styleDef{
		style:         Google,
		sectionIndent: "    ",
		fieldIndent:   "    ",
		indent:        "    ",
		paramsHeading: "Args",
		template:      napoleonTemplate,
		detect:        googleSectionRe,
		split: splitNapoleon(googleSectionRe, func(m string) string {
			return strings.TrimRight(strings.TrimRight(strings.TrimSpace(m), ":"), " \t\r\n")
		}),
		parseParams:  parseNapoleonParams(parseGoogleEntry),
		formatParams: formatGoogleParams,
		render: renderNapoleon(func(heading, body string) string {
			return heading + ":\n" + body
		}),
	})
	register(&styleDef{
		style:         Numpy,
		indent:        "    ",
		paramsHeading: "Parameters",
		template:      napoleonTemplate,
		detect:        numpySectionRe,
		split: splitNapoleon(numpySectionRe, func(m string) string {
			return strings.TrimRight(strings.TrimRight(strings.TrimSpace(m), "-"), " \t\r\n")
		}),
		parseParams:  parseNapoleonParams(parseNumpyEntry),
		formatParams: formatNumpyParams,
		render: renderNapoleon(func(heading, body string) string {
			return heading + "\n" + strings.Repeat("-", utf8.RuneCountInString(heading)) + "\n" + body
		}),
	})
}

func splitNapoleon(re *regexp.Regexp, name func(string) string) func(string) []rawSection {
	return func(s string) []rawSection {
		var out []rawSection
		heading, start := secSummary, 0
		for _, loc := range re.FindAllStringIndex(s, -1) {
			out = append(out, rawSection{heading: heading, body: s[start:loc[0]]})
			heading, start = name(s[loc[0]:loc[1]]), loc[1]
		}
		return append(out, rawSection{heading: heading, body: s[start:]})
	}
}

func renderNapoleon(heading func(heading, body string) string) func(*Docstring) string {
	return func(d *Docstring) string {
		var b strings.Builder
		if sum := d.Section(secSummary); sum != nil && !isBlank(sum.Text) {
			b.WriteString(withBoundingNewlines(sum.Text, 0, 1))
		}
		for _, sec := range d.Sections() {
			if sec.Name == secSummary {
				continue
			}
			body := indentDocstr(sec.Body(), sec.SectionIndent, 0)
			b.WriteString(withBoundingNewlines(heading(sec.Heading, body), 1, 1))
		}
		return b.String()
	}
}

// parseNapoleonParams builds the entry mapping of a structured section.
// Prose blocks and return entries are keyed by block index.
func parseNapoleonParams(entry func(block string, tag int) *Parameter) func(*Section, string) *Params {
	return func(sec *Section, text string) *Params {
		params := NewParams()
		for i, block := range entryBlockRe.FindAllString(dedentDocstr(text, 0), -1) {
			p := entry(block, i)
			switch {
			case p.DescriptionOnly:
				params.Set(p.Names[0], p)
			case sec.ReturnLike():
				p.Names = []string{p.Name()}
				params.Set(strconv.Itoa(i), p)
			default:
				for _, name := range p.Names {
					params.Set(name, p)
				}
			}
		}
		return params
	}
}

func prose(block string, tag int) *Parameter {
	return &Parameter{
		Names:           []string{strconv.Itoa(tag)},
		Description:     block,
		Tag:             tag,
		DescriptionOnly: true,
	}
}

func splitNames(names string) []string {
	parts := strings.Split(names, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseGoogleEntry reads `names (type): description`.
func parseGoogleEntry(block string, tag int) *Parameter {
	m := googleEntryRe.FindStringSubmatch(block)
	if m == nil {
		return prose(block, tag)
	}
	indent, descr := dedentVerbose(m[3], 1)
	p := &Parameter{Names: splitNames(m[1]), Type: m[2], Description: descr, Tag: tag}
	p.setIndent(indent)
	return p
}

// parseNumpyEntry reads a `names : type` line followed by an indented
// description.
func parseNumpyEntry(block string, tag int) *Parameter {
	m := numpyEntryRe.FindStringSubmatch(block)
	if m == nil {
		return prose(block, tag)
	}
	indent, descr := dedentVerbose(m[3], 0)
	p := &Parameter{Names: splitNames(m[1]), Type: m[2], Description: descr, Tag: tag}
	p.setIndent(indent)
	return p
}

func formatGoogleParams(sec *Section) string {
	var b strings.Builder
	for _, p := range Values(sec.Params) {
		if p.DescriptionOnly {
			b.WriteString(withBoundingNewlines(p.Description, 0, 1))
			continue
		}
		line := p.Name()
		if typ := strings.TrimSpace(p.Type); typ != "" {
			line += " (" + typ + ")"
		}
		if p.Description != "" {
			line += ": " + indentDocstr(p.Description, p.indent(sec.Indent), 1)
		}
		b.WriteString(withBoundingNewlines(line, 0, 1))
	}
	return b.String()
}

func formatNumpyParams(sec *Section) string {
	var b strings.Builder
	for _, p := range Values(sec.Params) {
		if p.DescriptionOnly {
			b.WriteString(withBoundingNewlines(p.Description, 0, 1))
			continue
		}
		entry := p.Name()
		if typ := strings.TrimSpace(p.Type); typ != "" {
			entry += " : " + typ
		}
		entry = withBoundingNewlines(entry, 0, 1)
		if p.Description != "" {
			entry += indentDocstr(p.Description, p.indent(sec.Indent), 0)
		}
		b.WriteString(withBoundingNewlines(entry, 0, 1))
	}
	return b.String()
}
