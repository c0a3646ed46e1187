package document

import "strings"

// DefaultMinSectionLength is the minimum trimmed text length a subsection
// must carry to survive Clean.
const DefaultMinSectionLength = 50

// Clean drops sections whose trimmed text is shorter than minLength.
// Sentinel sections, any section at level 0 or 1, and sections whose number
// appears in protected are always retained. Surviving sections get their
// text trimmed; the slice order is preserved.
func Clean(sections []Section, minLength int, protected []string) []Section {
	keep := make(map[string]bool, len(protected))
	for _, p := range protected {
		keep[p] = true
	}

	cleaned := make([]Section, 0, len(sections))
	for _, s := range sections {
		s.SectionText = strings.TrimSpace(s.SectionText)
		if len(s.SectionText) < minLength &&
			s.HierarchyLevel > 1 &&
			!s.IsSentinel() && !keep[s.SectionNumber] {
			continue
		}
		cleaned = append(cleaned, s)
	}
	return cleaned
}
