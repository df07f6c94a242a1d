package autodoc

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"autodocstring/internal/cache"
	"autodocstring/internal/docstring"
	"autodocstring/internal/extractor"
)

// Selection picks the declarations of a source that a run touches.
type Selection struct {
	// Lines are 0-based line numbers. Each one selects the innermost
	// declaration enclosing it. No lines selects every declaration.
	Lines []int
	// Quote is the quote style requested for new docstrings. It only wins
	// over the configured default when force_default_qstyle is off.
	Quote string
}

// Failure is a declaration that could not be documented.
type Failure struct {
	Name string
	Line int // 1-based
	Err  error
}

func (f Failure) Error() string {
	name := f.Name
	if name == "" {
		name = "<module>"
	}
	return fmt.Sprintf("%s (line %d): %v", name, f.Line, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report describes what a run did to one source.
type Report struct {
	Path        string
	Style       docstring.Style
	Documented  int
	Created     int
	Converted   int
	Failures    []Failure
	Diagnostics []docstring.Diagnostic
}

// Err joins the per-declaration failures, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

func (r *Report) fail(d extractor.Declaration, err error) {
	r.Failures = append(r.Failures, Failure{Name: d.Name, Line: d.StartLine + 1, Err: err})
}

// DocumentSource inserts or revises the docstrings of the selected
// declarations in src. Declarations are handled top to bottom and the
// source is re-scanned after every edit. A declaration that fails is
// recorded in the report and left as it was.
func (e *Engine) DocumentSource(path string, src []byte, sel Selection) ([]byte, *Report, error) {
	decls, err := extractor.FindDeclarations(src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	style, err := e.resolveStyle(path, src, decls)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{Path: path, Style: style}
	log := e.log.WithFields(logrus.Fields{"path": path, "style": style.String()})
	quote := e.quoteStyle(sel.Quote)

	cur, dirty := string(src), false
	for _, i := range selectDeclarations(decls, sel.Lines) {
		want := decls[i]
		if dirty {
			rescanned, err := extractor.FindDeclarations([]byte(cur))
			if err != nil {
				return nil, nil, fmt.Errorf("failed to rescan %s: %w", path, err)
			}
			if i >= len(rescanned) || rescanned[i].Kind != want.Kind || rescanned[i].Name != want.Name {
				report.fail(want, ErrDeclarationsShifted)
				continue
			}
			want = rescanned[i]
		}

		next, created, err := e.document(cur, want, style, quote, report)
		if err != nil {
			log.WithField("declaration", want.Name).Warnf("skipping declaration: %v", err)
			report.fail(want, err)
			continue
		}
		cur, dirty = next, true
		report.Documented++
		if created {
			report.Created++
		}
	}

	log.WithFields(logrus.Fields{
		"documented": report.Documented,
		"created":    report.Created,
		"failed":     len(report.Failures),
	}).Debug("documented source")
	return []byte(cur), report, nil
}

// document rewrites the docstring of one declaration.
func (e *Engine) document(src string, d extractor.Declaration, style docstring.Style, quote string, report *Report) (string, bool, error) {
	fresh, err := e.FreshDeclaration(d)
	if err != nil {
		return "", false, err
	}
	s, err := locate(src, d, quote)
	if err != nil {
		return "", false, err
	}

	old := s.text(src)
	doc, err := e.parse(old, style)
	if err != nil {
		return "", false, err
	}
	fresh.New = !s.exists
	text := e.MergeAndFormat(doc, fresh, s.indent)
	report.Diagnostics = append(report.Diagnostics, doc.Diagnostics()...)

	var comment string
	if s.exists && text != old && e.cfg.PreserveOriginalOnRewrite {
		comment = commentOut(src[s.start:s.end], s.indent)
	}
	return s.apply(src, text, comment), fresh.New, nil
}

// parse reads a docstring in whatever style it is written in, falling back
// to want, and converts it to want.
func (e *Engine) parse(text string, want docstring.Style) (*docstring.Docstring, error) {
	style, ok := docstring.DetectStyle(text)
	if !ok {
		style = want
	}
	opts := []docstring.Option{docstring.WithLogger(e.log)}
	if e.cfg.TemplateOrder {
		opts = append(opts, docstring.WithTemplateOrder())
	}
	doc, err := docstring.Parse(text, style, opts...)
	if err != nil {
		return nil, err
	}
	if style == want {
		return doc, nil
	}
	return docstring.Convert(doc, want)
}

// ConvertSource rewrites every existing docstring of src that is written in
// a detectable style other than target. Nothing else changes.
func (e *Engine) ConvertSource(path string, src []byte, target docstring.Style) ([]byte, *Report, error) {
	decls, err := extractor.FindDeclarations(src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	report := &Report{Path: path, Style: target}

	cur, dirty := string(src), false
	for i := range decls {
		if dirty {
			if decls, err = extractor.FindDeclarations([]byte(cur)); err != nil {
				return nil, nil, fmt.Errorf("failed to rescan %s: %w", path, err)
			}
			if i >= len(decls) {
				break
			}
		}
		d := decls[i]
		s, err := locate(cur, d, "")
		if err != nil {
			report.fail(d, err)
			continue
		}
		if !s.exists {
			continue
		}
		old := s.text(cur)
		style, ok := docstring.DetectStyle(old)
		if !ok || style == target {
			continue
		}
		doc, err := docstring.Parse(old, style, docstring.WithLogger(e.log))
		if err != nil {
			report.fail(d, err)
			continue
		}
		conv, err := docstring.Convert(doc, target)
		if err != nil {
			return nil, nil, err
		}
		cur, dirty = s.apply(cur, conv.Format(s.indent), ""), true
		report.Converted++
	}

	if report.Converted > 0 && e.styles != nil {
		e.styles.Forget(cache.BufferID(path, src))
	}
	return []byte(cur), report, nil
}

// DetectSource reports the style of the first docstring in src whose style
// can be told.
func (e *Engine) DetectSource(src []byte) (docstring.Style, bool, error) {
	decls, err := extractor.FindDeclarations(src)
	if err != nil {
		return 0, false, fmt.Errorf("failed to scan source: %w", err)
	}
	style, ok := detectBuffer(string(src), decls)
	return style, ok, nil
}

// resolveStyle returns the style docstrings of a buffer are written in.
// Auto styles follow the first detectable docstring, and the result is
// cached per buffer.
func (e *Engine) resolveStyle(path string, src []byte, decls []extractor.Declaration) (docstring.Style, error) {
	fallback, auto, err := e.cfg.DocStyle()
	if err != nil || !auto {
		return fallback, err
	}

	id := cache.BufferID(path, src)
	if e.styles != nil {
		if style, ok := e.styles.Get(id); ok {
			return style, nil
		}
	}
	style, ok := detectBuffer(string(src), decls)
	if !ok {
		style = fallback
	}
	if e.styles != nil {
		e.styles.Set(id, style)
	}
	return style, nil
}

func detectBuffer(src string, decls []extractor.Declaration) (docstring.Style, bool) {
	for _, d := range decls {
		s, err := locate(src, d, "")
		if err != nil || !s.exists {
			continue
		}
		if style, ok := docstring.DetectStyle(s.text(src)); ok {
			return style, true
		}
	}
	return 0, false
}

func (e *Engine) quoteStyle(requested string) string {
	if requested == "" || e.cfg.ForceDefaultQStyle {
		return e.cfg.DefaultQStyle
	}
	return requested
}

// selectDeclarations returns the indices of the declarations a run visits,
// in source order.
func selectDeclarations(decls []extractor.Declaration, lines []int) []int {
	if len(lines) == 0 {
		idx := make([]int, len(decls))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	var idx []int
	for _, line := range lines {
		best := -1
		for i, d := range decls {
			if d.Contains(line) && (best < 0 || d.Start >= decls[best].Start) {
				best = i
			}
		}
		if best >= 0 && !slices.Contains(idx, best) {
			idx = append(idx, best)
		}
	}
	slices.Sort(idx)
	return idx
}

// commentOut renders a replaced docstring literal as comment lines that
// follow the new one.
func commentOut(literal, indent string) string {
	var b strings.Builder
	for _, line := range strings.Split(literal, "\n") {
		b.WriteString("\n")
		b.WriteString(indent)
		line = strings.TrimPrefix(strings.TrimRight(line, " \t\r"), indent)
		if line == "" {
			b.WriteString("#")
			continue
		}
		b.WriteString("# ")
		b.WriteString(line)
	}
	return b.String()
}
