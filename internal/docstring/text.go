package docstring

import (
	"strings"
	"unicode"
)

// splitLines splits s after every '\n', keeping the line terminators.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// dedent removes the whitespace prefix shared by every non-blank line.
// Whitespace-only lines are reduced to their line terminator.
func dedent(s string) string {
	lines := splitLines(s)
	margin, found := "", false
	for i, line := range lines {
		body := strings.TrimRight(line, "\r\n")
		if strings.Trim(body, " \t") == "" {
			lines[i] = line[len(body):]
			continue
		}
		indent := leadingSpace(body)
		if !found {
			margin, found = indent, true
			continue
		}
		margin = commonPrefix(margin, indent)
	}
	if margin != "" {
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, margin)
		}
	}
	return strings.Join(lines, "")
}

// dedentDocstr left-strips the first n lines and dedents the remainder as a
// block. Docstrings usually start right after the opening quotes, so their
// first line carries no indentation while the rest do.
func dedentDocstr(s string, n int) string {
	lines := splitLines(s)
	if len(lines) == 0 {
		return ""
	}
	n = min(n, len(lines))
	var b strings.Builder
	for _, line := range lines[:n] {
		b.WriteString(strings.TrimLeft(line, " \t"))
	}
	b.WriteString(dedent(strings.Join(lines[n:], "")))
	return b.String()
}

// dedentVerbose is dedentDocstr that also reports the indentation removed
// from the first non-blank line after the first n.
func dedentVerbose(s string, n int) (string, string) {
	out := dedentDocstr(s, n)
	before, after := splitLines(s), splitLines(out)
	for i := n; i < len(before) && i < len(after); i++ {
		if isBlank(before[i]) {
			continue
		}
		if ind := strings.Index(before[i], after[i]); ind > 0 {
			return before[i][:ind], out
		}
		return "", out
	}
	return "", out
}

// indentDocstr prefixes indent to every non-blank line from the nth on.
// Blank lines lose any spaces or tabs.
func indentDocstr(s, indent string, n int) string {
	lines := splitLines(s)
	for i := n; i < len(lines); i++ {
		if isBlank(lines[i]) {
			lines[i] = strings.Trim(lines[i], " \t")
			continue
		}
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "")
}

func countLeadingNewlines(s string) int {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	if rest == "" {
		return 0
	}
	return strings.Count(s[:len(s)-len(rest)], "\n")
}

func countTrailingNewlines(s string) int {
	rest := strings.TrimRightFunc(s, unicode.IsSpace)
	return strings.Count(s[len(rest):], "\n")
}

// withBoundingNewlines pads s so it starts with at least nleading and ends
// with at least ntrailing newlines. It never removes any.
func withBoundingNewlines(s string, nleading, ntrailing int) string {
	lead := max(0, nleading-countLeadingNewlines(s))
	trail := max(0, ntrailing-countTrailingNewlines(s))
	return strings.Repeat("\n", lead) + s + strings.Repeat("\n", trail)
}

// stripTrailingNewlines removes up to n trailing line breaks along with any
// spaces or tabs after them.
func stripTrailingNewlines(s string, n int) string {
	for i := 0; i < n; i++ {
		t := strings.TrimRight(s, " \t")
		switch {
		case strings.HasSuffix(t, "\r\n"):
			s = t[:len(t)-2]
		case strings.HasSuffix(t, "\n"):
			s = t[:len(t)-1]
		default:
			return s
		}
	}
	return s
}
