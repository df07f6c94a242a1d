package docstring

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// DiagnosticKind classifies a non-fatal merge finding.
type DiagnosticKind int

const (
	// DataLoss means entries no longer in the declaration were moved to a
	// shadow section.
	DataLoss DiagnosticKind = iota
	// ArchiveOverwrite means a shadow section already held an entry with the
	// same name and it was replaced.
	ArchiveOverwrite
	// AmbiguousReturnKeyword means the body neither returns nor yields and
	// existing return documentation was archived.
	AmbiguousReturnKeyword
)

func (k DiagnosticKind) String() string {
	switch k {
	case DataLoss:
		return "data-loss"
	case ArchiveOverwrite:
		return "archive-overwrite"
	case AmbiguousReturnKeyword:
		return "ambiguous-return-keyword"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is one non-fatal merge finding.
type Diagnostic struct {
	Kind    DiagnosticKind
	Section string
	Names   []string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s in %s: %s", d.Kind, d.Section, strings.Join(d.Names, ", "))
}

func (d *Docstring) report(kind DiagnosticKind, section string, names ...string) {
	diag := Diagnostic{Kind: kind, Section: section, Names: names}
	d.diagnostics = append(d.diagnostics, diag)

	entry := d.log.WithFields(logrus.Fields{
		"kind":    kind.String(),
		"section": section,
	})
	switch kind {
	case ArchiveOverwrite:
		entry.Warnf("overwriting archived entries: %s", strings.Join(names, ", "))
	case AmbiguousReturnKeyword:
		entry.Warnf("no return or yield found, archiving: %s", strings.Join(names, ", "))
	default:
		entry.Warnf("moving entries no longer in the declaration: %s", strings.Join(names, ", "))
	}
}
