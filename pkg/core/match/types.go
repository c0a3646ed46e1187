// Package match scores comments against document sections by embedding
// similarity and prunes the results so each comment keeps only its most
// specific section matches.
package match

// Match links one comment to one section with the cosine similarity of
// their embeddings.
type Match struct {
	CommentID       string  `json:"comment_id"`
	SectionID       string  `json:"section_id"`
	SimilarityScore float64 `json:"similarity_score"`
	ProposalID      string  `json:"proposal_id,omitempty"`
}
