package document

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ExtractOptions tunes the extraction pass.
type ExtractOptions struct {
	Dialect    Dialect
	ProposalID string // stamped on every produced section when set
}

// Extract parses a document into an ordered list of sections. It never fails:
// a document with no recognizable headings degrades to a single INTRO section
// holding the whole text.
func Extract(text string, opts ExtractOptions) []Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if opts.Dialect == DialectGeneric {
		return extractGeneric(text, opts)
	}
	return extractRoman(text, opts)
}

// normalize joins pages and unifies line endings. Page separator lines ("---")
// are dropped so headings split across page breaks still line up.
func normalize(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func newSection(number, title, text string, level int, parentID, path, proposalID string) Section {
	return Section{
		SectionID:       uuid.NewString(),
		SectionNumber:   number,
		SectionTitle:    title,
		SectionText:     strings.TrimSpace(text),
		HierarchyLevel:  level,
		ParentSectionID: parentID,
		HierarchyPath:   path,
		ProposalID:      proposalID,
	}
}

// sectionBuilder accumulates lines for the currently open section during the
// left-to-right scan.
type sectionBuilder struct {
	number   string
	title    string
	level    int
	parentID string
	path     string
	lines    []string
}

func (b *sectionBuilder) build(proposalID string) Section {
	return newSection(b.number, b.title, strings.Join(b.lines, "\n"), b.level, b.parentID, b.path, proposalID)
}

// extractRoman handles the Federal Register dialect. Pass one carves the
// intro, the top-level roman sections (each owning its full span, subsection
// text included) and the trailing regulatory block. Pass two re-scans every
// top-level span for letter subsections, so a subsection's text is always a
// substring of its parent's original span.
func extractRoman(text string, opts ExtractOptions) []Section {
	cls := NewLineClassifier(DialectRoman)
	lines := normalize(text)

	firstTop := -1
	for i, line := range lines {
		if _, ok := cls.Top(line); ok {
			firstTop = i
			break
		}
	}
	if firstTop == -1 {
		return extractWithoutTopLevel(lines, cls, opts)
	}

	var sections []Section
	intro := strings.TrimSpace(strings.Join(lines[:firstTop], "\n"))
	if intro != "" {
		sections = append(sections, newSection(NumberIntro, TitleIntro, intro, 0, "", "intro", opts.ProposalID))
	}

	var tops []Section
	var cur *sectionBuilder
	flush := func() {
		if cur != nil {
			tops = append(tops, cur.build(opts.ProposalID))
			cur = nil
		}
	}
	inRegulatory := false
	for _, line := range lines[firstTop:] {
		if h, ok := cls.Top(line); ok && !inRegulatory {
			flush()
			cur = &sectionBuilder{number: h.Number, title: h.Title, level: 1, path: h.Number, lines: []string{line}}
			continue
		}
		if cls.Regulatory(line) && !inRegulatory {
			flush()
			inRegulatory = true
			cur = &sectionBuilder{number: NumberRegulatory, title: TitleRegulatory, level: 1, path: NumberRegulatory, lines: []string{line}}
			continue
		}
		if cur != nil {
			cur.lines = append(cur.lines, line)
		}
	}
	flush()

	for _, top := range tops {
		sections = append(sections, top)
		if top.SectionNumber == NumberRegulatory {
			continue
		}
		sections = append(sections, carveSubsections(top, cls, opts.ProposalID)...)
	}
	return sections
}

// carveSubsections runs the inner pass over one top-level span. The scan only
// ever narrows the already-assigned span, so no subsection's text can exceed
// its parent's.
func carveSubsections(parent Section, cls *LineClassifier, proposalID string) []Section {
	var subs []Section
	var cur *sectionBuilder
	flush := func() {
		if cur != nil {
			subs = append(subs, cur.build(proposalID))
			cur = nil
		}
	}
	for _, line := range strings.Split(parent.SectionText, "\n") {
		if h, ok := cls.Sub(line); ok {
			flush()
			cur = &sectionBuilder{
				number:   h.Number,
				title:    h.Title,
				level:    2,
				parentID: parent.SectionID,
				path:     parent.SectionNumber + "." + h.Number,
				lines:    []string{line},
			}
			continue
		}
		if cur != nil {
			cur.lines = append(cur.lines, line)
		}
	}
	flush()
	return subs
}

// extractWithoutTopLevel covers documents with letter headings but no roman
// top-level markers: each letter section becomes a parent-less level-1
// section. With no headings at all, the whole document is one INTRO section.
func extractWithoutTopLevel(lines []string, cls *LineClassifier, opts ExtractOptions) []Section {
	hasSub := false
	for _, line := range lines {
		if _, ok := cls.Sub(line); ok {
			hasSub = true
			break
		}
	}
	if !hasSub {
		whole := strings.TrimSpace(strings.Join(lines, "\n"))
		return []Section{newSection(NumberIntro, TitleCompleteDocument, whole, 0, "", "intro", opts.ProposalID)}
	}

	var sections []Section
	var cur *sectionBuilder
	var introLines []string
	flush := func() {
		if cur != nil {
			sections = append(sections, cur.build(opts.ProposalID))
			cur = nil
		}
	}
	for _, line := range lines {
		if h, ok := cls.Sub(line); ok {
			flush()
			cur = &sectionBuilder{number: h.Number, title: h.Title, level: 1, path: h.Number, lines: []string{line}}
			continue
		}
		if cur != nil {
			cur.lines = append(cur.lines, line)
		} else {
			introLines = append(introLines, line)
		}
	}
	flush()

	intro := strings.TrimSpace(strings.Join(introLines, "\n"))
	if intro != "" {
		sections = append([]Section{newSection(NumberIntro, TitleIntro, intro, 0, "", "intro", opts.ProposalID)}, sections...)
	}
	return sections
}

// extractGeneric handles uniform markdown headings of arbitrary depth. The
// scan keeps a label stack for hierarchy paths; parents are resolved by a
// backward scan to the nearest prior section with a strictly smaller level.
func extractGeneric(text string, opts ExtractOptions) []Section {
	cls := NewLineClassifier(DialectGeneric)
	lines := normalize(text)

	var sections []Section
	var cur *sectionBuilder
	var stack []string // one label per open level, index = level-1
	flush := func() {
		if cur != nil {
			sections = append(sections, cur.build(opts.ProposalID))
			cur = nil
		}
	}
	for _, line := range lines {
		h, ok := cls.Generic(line)
		if !ok {
			if cur != nil {
				cur.lines = append(cur.lines, line)
			} else if strings.TrimSpace(line) != "" {
				cur = &sectionBuilder{number: NumberIntro, title: TitleIntro, level: 0, path: "intro", lines: []string{line}}
			}
			continue
		}
		flush()
		label := h.Title
		if len(label) > 10 {
			label = label[:10]
		}
		if h.Level-1 <= len(stack) {
			stack = append(stack[:h.Level-1], label)
		} else {
			stack = append(stack, label)
		}
		cur = &sectionBuilder{
			title: h.Title,
			level: h.Level,
			path:  strings.Join(stack, "."),
			lines: []string{line},
		}
	}
	flush()

	assignGenericParents(sections)
	return sections
}

// assignGenericParents walks sections in creation order; each section's
// parent is the nearest prior section with a strictly smaller level.
func assignGenericParents(sections []Section) {
	for i := range sections {
		for j := i - 1; j >= 0; j-- {
			if sections[j].HierarchyLevel < sections[i].HierarchyLevel {
				sections[i].ParentSectionID = sections[j].SectionID
				break
			}
		}
	}
}

// ParagraphFallback splits a document into substantial paragraphs when no
// heading scheme produced a useful structure. Each paragraph becomes a
// parent-less level-1 section numbered P1, P2, ...
func ParagraphFallback(text string, minLen int) []Section {
	var sections []Section
	n := 0
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) <= minLen {
			continue
		}
		n++
		title := para
		if idx := strings.IndexByte(title, '\n'); idx >= 0 {
			title = title[:idx]
		}
		if len(title) > 50 {
			title = title[:50] + "..."
		}
		num := "P" + strconv.Itoa(n)
		sections = append(sections, newSection(num, title, para, 1, "", num, ""))
	}
	return sections
}
