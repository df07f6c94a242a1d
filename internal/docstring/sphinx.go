package docstring

import (
	"regexp"
	"strconv"
	"strings"
)

// Sphinx docstrings have no headings. Structured sections are field lists
// (`:param name: description` plus `:type name: type`) and prose sections
// are directives (`.. note:: text`).

type sphinxField struct {
	section string
	// tags[0] is written when formatting, the others are accepted on input.
	tags    []string
	typeTag string
}

var sphinxFields = []sphinxField{
	{secParameters, []string{"param", "parameter", "arg", "argument"}, "type"},
	{secKeywordArguments, []string{"keyword", "key", "kwarg", "kwparam"}, "kwtype"},
	{secOtherParameters, []string{"otherparam"}, "othertype"},
	{secAttributes, []string{"ivar", "var", "cvar"}, "vartype"},
	{secRaises, []string{"raises", "raise", "except", "exception"}, ""},
	{secReturns, []string{"returns", "return"}, "rtype"},
	{secYields, []string{"yields", "yield"}, "ytype"},
	{"Deleted Parameters", []string{"deletedparam"}, "deletedtype"},
	{"Deleted Attributes", []string{"deletedivar"}, "deletedvartype"},
	{"No Longer Raises", []string{"nolongerraises"}, ""},
	{secNoLongerReturned, []string{"nolongerreturns"}, "nolongerrtype"},
	{secNoLongerYielded, []string{"nolongeryields"}, "nolongerytype"},
}

// metaInlineType marks an entry written as `:param TYPE NAME:`.
const metaInlineType = "inline_type"

type sphinxTag struct {
	section string
	isType  bool
}

var (
	sphinxTags     = map[string]sphinxTag{}
	sphinxSections = map[string]sphinxField{}

	sphinxMarkRe   = regexp.MustCompile(`(?m)^(?::([A-Za-z_]+)[^:\n]*:|\.\.[ \t]+([A-Za-z][\w-]*)::)`)
	sphinxDetectRe = regexp.MustCompile(`(?m)^(?::[A-Za-z_]+(?:[ \t][^:\n]*)?:(?:[ \t]|$)|\.\.[ \t]+[A-Za-z][\w-]*::)`)
	sphinxEntryRe  = regexp.MustCompile(`(?s)^:([A-Za-z_]+)([^:\n]*):(.*)`)
)

var sphinxTemplate = []string{
	secSummary,
	secParameters,
	secKeywordArguments,
	secOtherParameters,
	secReturns,
	secYields,
	secRaises,
	secAttributes,
	"Deleted Parameters",
	"Deleted Attributes",
	"No Longer Raises",
	secNoLongerReturned,
	secNoLongerYielded,
	"Note",
	"Warning",
	"See Also",
	"Example",
}

func init() {
	for _, f := range sphinxFields {
		sphinxSections[f.section] = f
		for _, tag := range f.tags {
			sphinxTags[tag] = sphinxTag{section: f.section}
		}
		if f.typeTag != "" {
			sphinxTags[f.typeTag] = sphinxTag{section: f.section, isType: true}
		}
	}
	register(&styleDef{
		style:         Sphinx,
		sectionIndent: "    ",
		indent:        "    ",
		paramsHeading: secParameters,
		template:      sphinxTemplate,
		detect:        sphinxDetectRe,
		proseSkip:     1,
		split:         splitSphinx,
		parseParams:   parseSphinxParams,
		formatParams:  formatSphinxParams,
		render:        renderSphinx,
	})
}

// splitSphinx groups field lines by the section their tag belongs to, in
// order of first appearance. Each directive is a section of its own.
func splitSphinx(s string) []rawSection {
	type mark struct {
		start, bodyStart int
		heading          string
		directive        bool
	}
	var marks []mark
	for _, m := range sphinxMarkRe.FindAllStringSubmatchIndex(s, -1) {
		switch {
		case m[2] >= 0:
			tag, ok := sphinxTags[s[m[2]:m[3]]]
			if !ok {
				continue
			}
			marks = append(marks, mark{start: m[0], bodyStart: m[0], heading: tag.section})
		default:
			word := s[m[4]:m[5]]
			marks = append(marks, mark{start: m[0], bodyStart: m[1], heading: CanonicalName(word), directive: true})
		}
	}

	end := len(s)
	if len(marks) > 0 {
		end = marks[0].start
	}
	out := []rawSection{{heading: secSummary, body: s[:end]}}
	fields := map[string]int{}
	for i, m := range marks {
		end := len(s)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		body := s[m.bodyStart:end]
		if idx, ok := fields[m.heading]; ok && !m.directive {
			out[idx].body += body
			continue
		}
		if !m.directive {
			fields[m.heading] = len(out)
		}
		out = append(out, rawSection{
			heading:      m.heading,
			body:         body,
			leadingBlank: strings.HasSuffix(s[:m.start], "\n\n"),
		})
	}
	return out
}

func parseSphinxParams(sec *Section, text string) *Params {
	params := NewParams()
	var pending *Parameter
	for i, block := range entryBlockRe.FindAllString(dedentDocstr(text, 0), -1) {
		m := sphinxEntryRe.FindStringSubmatch(block)
		if m == nil {
			params.Set(strconv.Itoa(i), prose(block, i))
			continue
		}
		tag, ok := sphinxTags[m[1]]
		if !ok || tag.section != sec.Name {
			params.Set(strconv.Itoa(i), prose(block, i))
			continue
		}
		arg := strings.TrimSpace(m[2])
		indent, descr := dedentVerbose(m[3], 1)

		if sec.ReturnLike() {
			if tag.isType {
				typ := strings.Join(strings.Fields(descr), " ")
				if pending != nil {
					pending.Names = []string{typ}
					pending.DescriptionOnly = false
					pending = nil
					continue
				}
				params.Set(strconv.Itoa(i), &Parameter{Names: []string{typ}, Tag: i})
				continue
			}
			p := &Parameter{
				Names:           []string{strconv.Itoa(i)},
				Description:     descr,
				Tag:             i,
				DescriptionOnly: true,
			}
			p.setIndent(indent)
			params.Set(strconv.Itoa(i), p)
			pending = p
			continue
		}

		if arg == "" {
			params.Set(strconv.Itoa(i), prose(block, i))
			continue
		}
		if tag.isType {
			typ := strings.Join(strings.Fields(descr), " ")
			if p, ok := params.Get(arg); ok {
				p.Type = typ
				delete(p.Meta, metaInlineType)
				continue
			}
			params.Set(arg, &Parameter{Names: []string{arg}, Type: typ, Tag: i})
			continue
		}

		names, typ := []string{arg}, ""
		if strings.Contains(arg, ",") {
			names = splitNames(arg)
		} else if words := strings.Fields(arg); len(words) > 1 {
			names, typ = words[len(words)-1:], strings.Join(words[:len(words)-1], " ")
		}
		if p, ok := params.Get(names[0]); ok && len(names) == 1 {
			p.Description = descr
			if typ != "" {
				p.Type = typ
				p.setMeta(metaInlineType, "true")
			}
			p.setIndent(indent)
			continue
		}
		p := &Parameter{Names: names, Type: typ, Description: descr, Tag: i}
		p.setIndent(indent)
		if typ != "" {
			p.setMeta(metaInlineType, "true")
		}
		for _, name := range names {
			params.Set(name, p)
		}
	}
	return params
}

func sphinxLine(tag, arg, descr, indent string) string {
	head := ":" + tag
	if arg != "" {
		head += " " + arg
	}
	head += ":"
	switch {
	case descr == "":
		return head + "\n"
	case strings.HasPrefix(descr, "\n"):
		return withBoundingNewlines(head+indentDocstr(descr, indent, 1), 0, 1)
	default:
		return withBoundingNewlines(head+" "+indentDocstr(descr, indent, 1), 0, 1)
	}
}

func formatSphinxParams(sec *Section) string {
	field, ok := sphinxSections[sec.Name]
	if !ok {
		field = sphinxSections[secParameters]
	}
	var b strings.Builder
	for _, p := range Values(sec.Params) {
		indent := p.indent(sec.Indent)
		if sec.ReturnLike() {
			if p.DescriptionOnly {
				b.WriteString(sphinxLine(field.tags[0], "", p.Description, indent))
				continue
			}
			typ := strings.TrimSpace(p.Type)
			if typ == "" {
				typ = p.Name()
			}
			if p.Description != "" {
				b.WriteString(sphinxLine(field.tags[0], "", p.Description, indent))
			}
			b.WriteString(":" + field.typeTag + ": " + typ + "\n")
			continue
		}
		if p.DescriptionOnly {
			b.WriteString(withBoundingNewlines(p.Description, 0, 1))
			continue
		}
		typ := strings.TrimSpace(p.Type)
		if typ != "" && p.Meta[metaInlineType] != "" {
			b.WriteString(sphinxLine(field.tags[0], typ+" "+p.Name(), p.Description, indent))
			continue
		}
		if p.Description != "" || typ == "" || field.typeTag == "" {
			b.WriteString(sphinxLine(field.tags[0], p.Name(), p.Description, indent))
		}
		if typ != "" && field.typeTag != "" {
			b.WriteString(":" + field.typeTag + " " + p.Name() + ": " + typ + "\n")
		}
	}
	return b.String()
}

func formatDirective(sec *Section) string {
	head := ".. " + strings.ToLower(strings.ReplaceAll(sec.Heading, " ", "")) + "::"
	switch {
	case sec.Text == "":
		return head + "\n"
	case strings.HasPrefix(sec.Text, "\n"):
		return head + indentDocstr(sec.Text, sec.SectionIndent, 1)
	default:
		return head + " " + indentDocstr(sec.Text, sec.SectionIndent, 1)
	}
}

func renderSphinx(d *Docstring) string {
	var b strings.Builder
	if sum := d.Section(secSummary); sum != nil && !isBlank(sum.Text) {
		b.WriteString(withBoundingNewlines(sum.Text, 0, 1))
	}
	prevField := false
	for _, sec := range d.Sections() {
		if sec.Name == secSummary {
			continue
		}
		if !sec.Structured() {
			b.WriteString(withBoundingNewlines(formatDirective(sec), 1, 1))
			prevField = false
			continue
		}
		lead := 1
		if prevField && !sec.LeadingBlank {
			lead = 0
		}
		body := indentDocstr(sec.Body(), sec.SectionIndent, 0)
		b.WriteString(withBoundingNewlines(body, lead, 1))
		prevField = true
	}
	return b.String()
}
