// Package document turns a flat regulatory document (Federal Register markdown
// or plain text) into a hierarchy of sections with stable identity.
package document

import "comment_analysis/pkg/core/vector"

// Sentinel section numbers. These sections are always retained by Clean
// regardless of their text length.
const (
	NumberIntro      = "INTRO"
	NumberRegulatory = "REGULATORY"
)

// Default titles assigned to synthesized sections.
const (
	TitleIntro            = "Document Header and Supplementary Information"
	TitleCompleteDocument = "Complete Document"
	TitleRegulatory       = "Regulatory Text Amendments"
)

// Section is a node in the document hierarchy. Sections are created once
// during extraction and never mutated afterwards except for whitespace
// cleanup; ids are freshly minted so parents always precede children in
// creation order.
type Section struct {
	SectionID       string           `json:"section_id"`
	SectionNumber   string           `json:"section_number"`
	SectionTitle    string           `json:"section_title"`
	SectionText     string           `json:"section_text"`
	HierarchyLevel  int              `json:"hierarchy_level"`
	ParentSectionID string           `json:"parent_section_id,omitempty"`
	HierarchyPath   string           `json:"hierarchy_path,omitempty"`
	ProposalID      string           `json:"proposal_id,omitempty"`
	Embedding       vector.Embedding `json:"embedding,omitempty"`
}

// IsSentinel reports whether the section carries a protected sentinel number.
func (s *Section) IsSentinel() bool {
	return s.SectionNumber == NumberIntro || s.SectionNumber == NumberRegulatory
}
