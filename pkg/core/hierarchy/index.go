// Package hierarchy builds fast lookup structures over a flat section list.
// The index is a derived, read-only view rebuilt fresh per matching run; it
// is never persisted.
package hierarchy

import "comment_analysis/pkg/core/document"

// Index provides id, parent-child and ancestor lookups over a section set.
type Index struct {
	ByID             map[string]document.Section
	ChildrenByParent map[string][]string // parent id -> direct child ids, input order
	AncestorsByID    map[string][]string // section id -> ancestors, nearest parent first
}

// Build constructs the index from a flat section list. Ancestor chains are
// resolved iteratively with a visited-set guard, so a cyclic parent reference
// (an upstream data error) terminates as "no further ancestors" instead of
// looping. Unknown parent ids are treated as "no parent".
func Build(sections []document.Section) *Index {
	idx := &Index{
		ByID:             make(map[string]document.Section, len(sections)),
		ChildrenByParent: make(map[string][]string),
		AncestorsByID:    make(map[string][]string, len(sections)),
	}
	for _, s := range sections {
		idx.ByID[s.SectionID] = s
		if s.ParentSectionID != "" {
			idx.ChildrenByParent[s.ParentSectionID] = append(idx.ChildrenByParent[s.ParentSectionID], s.SectionID)
		}
	}
	for _, s := range sections {
		if _, done := idx.AncestorsByID[s.SectionID]; !done {
			idx.resolveAncestors(s.SectionID)
		}
	}
	return idx
}

func (idx *Index) resolveAncestors(id string) []string {
	if cached, ok := idx.AncestorsByID[id]; ok {
		return cached
	}

	ancestors := []string{}
	visited := map[string]bool{id: true}
	cur := id
	for {
		section, ok := idx.ByID[cur]
		if !ok || section.ParentSectionID == "" {
			break
		}
		parent := section.ParentSectionID
		if visited[parent] {
			// Cycle: stop rather than loop forever.
			break
		}
		// Reuse an already-memoized chain when the parent has one, still
		// honoring the visited-set so corrupt cyclic chains stay cut.
		if chain, ok := idx.AncestorsByID[parent]; ok {
			ancestors = append(ancestors, parent)
			visited[parent] = true
			for _, a := range chain {
				if visited[a] {
					break
				}
				ancestors = append(ancestors, a)
				visited[a] = true
			}
			idx.AncestorsByID[id] = ancestors
			return ancestors
		}
		ancestors = append(ancestors, parent)
		visited[parent] = true
		cur = parent
	}

	idx.AncestorsByID[id] = ancestors
	return ancestors
}

// Ancestors returns the ancestor chain for a section id, nearest parent
// first. Unknown ids are orphans with an empty chain.
func (idx *Index) Ancestors(id string) []string {
	if chain, ok := idx.AncestorsByID[id]; ok {
		return chain
	}
	return nil
}
