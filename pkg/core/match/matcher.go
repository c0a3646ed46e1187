package match

import (
	"fmt"
	"sort"

	"comment_analysis/pkg/core/document"
	"comment_analysis/pkg/core/ingest"
	"comment_analysis/pkg/core/vector"
)

const (
	// DefaultThreshold is the minimum cosine similarity for a
	// comment/section pair to count as a match.
	DefaultThreshold = 0.70

	// DefaultMaxPerComment caps how many matches a single comment keeps.
	DefaultMaxPerComment = 5
)

// Options tunes the matcher. Zero values fall back to the defaults.
type Options struct {
	Threshold     float64
	MaxPerComment int
}

// Matcher scores comments against sections. Comments or sections with a
// missing or unparseable embedding score 0.0 against everything and simply
// produce no matches.
type Matcher struct {
	opts Options
}

// NewMatcher creates a Matcher, filling in defaults for unset options.
func NewMatcher(opts Options) *Matcher {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MaxPerComment <= 0 {
		opts.MaxPerComment = DefaultMaxPerComment
	}
	return &Matcher{opts: opts}
}

// Match scores every comment against every section and returns, per
// comment, the top matches at or above the similarity threshold, ordered
// by score descending. When both a comment and a section carry a proposal
// id, pairs from different proposals are never compared.
func (m *Matcher) Match(comments []ingest.Comment, sections []document.Section) []Match {
	var out []Match
	for i := range comments {
		out = append(out, m.matchOne(&comments[i], sections)...)
	}
	fmt.Printf("Matcher: %d comments x %d sections -> %d matches (threshold %.2f)\n",
		len(comments), len(sections), len(out), m.opts.Threshold)
	return out
}

func (m *Matcher) matchOne(c *ingest.Comment, sections []document.Section) []Match {
	if len(c.Embedding) == 0 {
		return nil
	}

	var candidates []Match
	for i := range sections {
		s := &sections[i]
		if c.ProposalID != "" && s.ProposalID != "" && c.ProposalID != s.ProposalID {
			continue
		}
		score := vector.Cosine(c.Embedding, s.Embedding)
		if score < m.opts.Threshold {
			continue
		}
		proposalID := c.ProposalID
		if proposalID == "" {
			proposalID = s.ProposalID
		}
		candidates = append(candidates, Match{
			CommentID:       c.CommentID,
			SectionID:       s.SectionID,
			SimilarityScore: score,
			ProposalID:      proposalID,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SimilarityScore > candidates[j].SimilarityScore
	})
	if len(candidates) > m.opts.MaxPerComment {
		candidates = candidates[:m.opts.MaxPerComment]
	}
	return candidates
}
