package match

import (
	"testing"

	"comment_analysis/pkg/core/document"
	"comment_analysis/pkg/core/ingest"
)

func TestMatcherThresholdAndOrdering(t *testing.T) {
	// 2-d unit vectors give exact cosine scores against [1, 0].
	sections := []document.Section{
		{SectionID: "s-weak", Embedding: []float32{0.6, 0.8}},
		{SectionID: "s-exact", Embedding: []float32{1, 0}},
		{SectionID: "s-good", Embedding: []float32{0.8, 0.6}},
		{SectionID: "s-orthogonal", Embedding: []float32{0, 1}},
	}
	comments := []ingest.Comment{
		{CommentID: "c1", Embedding: []float32{1, 0}},
	}

	m := NewMatcher(Options{Threshold: 0.70, MaxPerComment: 5})
	matches := m.Match(comments, sections)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches above threshold, got %d: %+v", len(matches), matches)
	}
	if matches[0].SectionID != "s-exact" || matches[1].SectionID != "s-good" {
		t.Errorf("expected score-descending order [s-exact s-good], got [%s %s]",
			matches[0].SectionID, matches[1].SectionID)
	}
	if matches[0].SimilarityScore <= matches[1].SimilarityScore {
		t.Errorf("scores not descending: %f then %f",
			matches[0].SimilarityScore, matches[1].SimilarityScore)
	}
}

func TestMatcherCapsMatchesPerComment(t *testing.T) {
	var sections []document.Section
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		sections = append(sections, document.Section{
			SectionID: id, Embedding: []float32{1, 0},
		})
	}
	comments := []ingest.Comment{{CommentID: "c1", Embedding: []float32{1, 0}}}

	matches := NewMatcher(Options{}).Match(comments, sections)
	if len(matches) != DefaultMaxPerComment {
		t.Errorf("expected cap of %d matches, got %d", DefaultMaxPerComment, len(matches))
	}
}

func TestMatcherProposalScoping(t *testing.T) {
	sections := []document.Section{
		{SectionID: "own", ProposalID: "prop-1", Embedding: []float32{1, 0}},
		{SectionID: "other", ProposalID: "prop-2", Embedding: []float32{1, 0}},
		{SectionID: "unscoped", Embedding: []float32{1, 0}},
	}
	comments := []ingest.Comment{
		{CommentID: "c1", ProposalID: "prop-1", Embedding: []float32{1, 0}},
	}

	matches := NewMatcher(Options{}).Match(comments, sections)
	for _, m := range matches {
		if m.SectionID == "other" {
			t.Fatalf("comment matched a section from a different proposal: %+v", m)
		}
		if m.ProposalID != "prop-1" {
			t.Errorf("match should carry the comment's proposal id, got %q", m.ProposalID)
		}
	}
	if len(matches) != 2 {
		t.Errorf("expected matches against own and unscoped sections, got %d", len(matches))
	}
}

func TestMatcherMissingEmbeddings(t *testing.T) {
	sections := []document.Section{
		{SectionID: "s1", Embedding: []float32{1, 0}},
		{SectionID: "s2"}, // no embedding, scores 0.0
	}
	comments := []ingest.Comment{
		{CommentID: "no-embedding"},
		{CommentID: "ok", Embedding: []float32{1, 0}},
	}

	matches := NewMatcher(Options{}).Match(comments, sections)
	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 match, got %d: %+v", len(matches), matches)
	}
	if matches[0].CommentID != "ok" || matches[0].SectionID != "s1" {
		t.Errorf("unexpected match %+v", matches[0])
	}
}
