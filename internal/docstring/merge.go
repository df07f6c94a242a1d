package docstring

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ReturnKeyword is how a function body hands back results.
type ReturnKeyword int

const (
	NoReturn ReturnKeyword = iota
	Return
	Yield
)

func (k ReturnKeyword) String() string {
	switch k {
	case Return:
		return "return"
	case Yield:
		return "yield"
	}
	return "none"
}

// UpdateParameters reconciles the Parameters section with the declaration's
// parameters, given in declaration order. Names documented under Other
// Parameters or Keyword Arguments are left where they are.
func (d *Docstring) UpdateParameters(fresh []*Parameter) {
	d.updateSection(fresh, secParameters, d.def.paramsHeading, deletedPrefix, false,
		secOtherParameters, secKeywordArguments)
}

// UpdateAttributes reconciles the Attributes section.
func (d *Docstring) UpdateAttributes(fresh []*Parameter, sorted bool) {
	d.updateSection(fresh, secAttributes, secAttributes, deletedPrefix, sorted)
}

// UpdateExceptions reconciles the Raises section.
func (d *Docstring) UpdateExceptions(fresh []*Parameter, sorted bool) {
	d.updateSection(fresh, secRaises, secRaises, noLongerPrefix, sorted)
}

// updateSection merges fresh entries into the named section. Existing
// entries keep their descriptions, and their types unless the fresh entry is
// annotated. Entries that vanished from the declaration move to the section
// named archivePrefix+name instead of being dropped.
func (d *Docstring) updateSection(fresh []*Parameter, name, heading, archivePrefix string, sorted bool, others ...string) {
	sec := d.Section(name)
	if sec == nil && len(fresh) == 0 {
		return
	}
	if sec == nil {
		sec = d.finalizeSection(heading, "")
	}

	var otherSecs []*Section
	for _, o := range others {
		if s := d.Section(o); s != nil && s.Structured() {
			otherSecs = append(otherSecs, s)
		}
	}

	if sorted {
		fresh = slices.Clone(fresh)
		slices.SortStableFunc(fresh, func(a, b *Parameter) int {
			return strings.Compare(strings.ToLower(a.Names[0]), strings.ToLower(b.Names[0]))
		})
	}

	current := sec.Params
	claimed := make(map[*Parameter]bool)
	next := NewParams()
	for _, fp := range fresh {
		key := fp.Names[0]
		if old, ok := current.Delete(key); ok {
			// A multi-name entry is updated once, by its first name.
			if claimed[old] {
				next.Set(key, old)
				continue
			}
			claimed[old] = true
			if fp.Annotated {
				old.Type = fp.Type
				old.Annotated = true
			}
			next.Set(key, old)
			continue
		}

		covered := false
		for _, o := range otherSecs {
			if op, ok := o.Params.Get(key); ok {
				if fp.Annotated {
					op.Type = fp.Type
				}
				covered = true
			}
		}
		if !covered {
			next.Set(key, fp)
		}
	}

	for _, key := range Keys(current) {
		if p, _ := current.Get(key); p.DescriptionOnly {
			next.Set(key, p)
			current.Delete(key)
		}
	}
	current.Delete("")

	if current.Len() > 0 {
		d.archive(current, name, archivePrefix+name)
	}
	if next.Len() == 0 {
		d.sections.Set(sec.Name, nil)
		return
	}
	sec.Params = next
}

func (d *Docstring) archive(leftover *Params, from, to string) {
	d.report(DataLoss, from, Keys(leftover)...)

	arch := d.Section(to)
	if arch == nil {
		arch = d.finalizeSection(to, "")
	}
	moved := make(map[*Parameter]*Parameter)
	var overwritten []string
	for pair := leftover.Oldest(); pair != nil; pair = pair.Next() {
		key, p := pair.Key, pair.Value
		if prev, ok := arch.Params.Get(key); ok {
			overwritten = append(overwritten, key)
			prev.removeName(key)
		}
		p.removeName(key)
		if np, ok := moved[p]; ok {
			np.Names = append(np.Names, key)
			arch.Params.Set(key, np)
			continue
		}
		np := &Parameter{
			Names:       []string{key},
			Type:        p.Type,
			Description: p.Description,
			Tag:         p.Tag,
			Annotated:   p.Annotated,
			Meta:        maps.Clone(p.Meta),
		}
		moved[p] = np
		arch.Params.Set(key, np)
	}
	if len(overwritten) > 0 {
		d.report(ArchiveOverwrite, to, overwritten...)
	}
}

// UpdateReturns aligns the Returns and Yields sections with the keyword the
// body uses. Documentation under the other keyword is moved across when the
// right section is missing, and archived otherwise. A non-empty annotation
// replaces the documented type of the first entry.
func (d *Docstring) UpdateReturns(kw ReturnKeyword, annotation string) {
	if kw == NoReturn {
		names := d.archiveReturns(secReturns, secNoLongerReturned)
		names = append(names, d.archiveReturns(secYields, secNoLongerYielded)...)
		if len(names) > 0 {
			d.report(AmbiguousReturnKeyword, secReturns, names...)
		}
		return
	}

	target, other, otherArchive := secReturns, secYields, secNoLongerYielded
	if kw == Yield {
		target, other, otherArchive = secYields, secReturns, secNoLongerReturned
	}
	if d.Exists(other) {
		if d.Exists(target) {
			d.archiveReturns(other, otherArchive)
		} else {
			d.migrate(other, target)
		}
	}

	sec := d.Section(target)
	if annotation == "" || sec == nil || !sec.Structured() {
		return
	}
	entries := Values(sec.Params)
	if len(entries) == 0 {
		return
	}
	switch p := entries[0]; {
	case p.DescriptionOnly:
		// A field list return without its type line takes the annotation
		// as its type.
		if d.def.style == Sphinx {
			p.Names = []string{annotation}
			p.DescriptionOnly = false
			p.Annotated = true
		}
	case strings.TrimSpace(p.Type) != "":
		p.Type = annotation
		p.Annotated = true
	default:
		p.Names = []string{annotation}
		p.Annotated = true
	}
}

// AddDummyReturns adds a placeholder Returns or Yields entry when the
// section is missing.
func (d *Docstring) AddDummyReturns(kw ReturnKeyword, name, typ, description string) {
	target := secReturns
	switch kw {
	case NoReturn:
		return
	case Yield:
		target = secYields
	}
	if d.Exists(target) {
		return
	}
	if name == "" {
		name, typ = typ, ""
	}
	sec := d.finalizeSection(target, "")
	sec.Params.Set("0", &Parameter{Names: []string{name}, Type: typ, Description: description})
}

func (d *Docstring) archiveReturns(from, to string) []string {
	sec := d.Section(from)
	if sec == nil || !sec.Structured() {
		return nil
	}
	d.sections.Set(sec.Name, nil)
	entries := Values(sec.Params)
	if len(entries) == 0 {
		return nil
	}
	arch := d.Section(to)
	if arch == nil {
		arch = d.finalizeSection(to, "")
	}
	names := make([]string, 0, len(entries))
	for _, p := range entries {
		arch.Params.Set(strconv.Itoa(arch.Params.Len()), p)
		names = append(names, p.Name())
	}
	return names
}

// migrate moves a section's entries under a new heading in the same slot.
func (d *Docstring) migrate(from, to string) {
	old := d.Section(from)
	sec := newSection(d.def, to)
	sec.Params = old.Params
	sec.SectionIndent = old.SectionIndent
	sec.LeadingBlank = old.LeadingBlank

	_, reserved := d.sections.Get(sec.Name)
	d.sections.Set(sec.Name, sec)
	if !reserved {
		_ = d.sections.MoveBefore(sec.Name, old.Name)
	}
	d.sections.Set(old.Name, nil)
}
