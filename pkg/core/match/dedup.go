package match

import (
	"fmt"
	"sort"
)

// DefaultMargin is the relative factor a descendant section's score must
// clear over an overlapping ancestor for both matches to survive
// deduplication.
const DefaultMargin = 1.10

// MarginPolicy decides when a more specific (descendant) match is enough
// better than a broader (ancestor) match to justify keeping both. The
// margin is relative: the stronger side must exceed the weaker side's
// score multiplied by Factor.
type MarginPolicy struct {
	Factor float64
}

// Clears reports whether score beats the reference score by the margin.
func (p MarginPolicy) Clears(score, reference float64) bool {
	return score > reference*p.Factor
}

// Deduplicator removes hierarchically redundant matches. When a comment
// matches both a section and one of its ancestors, only the broader match
// survives unless the narrower one clears the margin policy.
type Deduplicator struct {
	policy MarginPolicy
}

// NewDeduplicator creates a Deduplicator with the given margin factor;
// zero or negative falls back to DefaultMargin.
func NewDeduplicator(margin float64) *Deduplicator {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Deduplicator{policy: MarginPolicy{Factor: margin}}
}

// Deduplicate filters matches per comment using the section ancestry in
// ancestorsByID (each chain ordered nearest ancestor first). Section ids
// missing from the ancestry map are treated as parentless and pass
// through untouched. The pass is idempotent: running it on its own output
// returns the same set.
//
// Per comment, candidates are walked in score-descending order. A
// candidate is dropped when any of its ancestors is already covered by an
// accepted match (or is itself a pending lower-scored candidate) and the
// candidate does not clear the margin over that ancestor's score. An
// accepted match covers its own section and every ancestor of it, which
// also suppresses weaker siblings under the same covered ancestor. A
// broader section processed after an accepted descendant is kept only
// when that descendant cleared the margin over it, preserving the rule
// that surviving ancestor/descendant pairs always differ by more than the
// margin.
func (d *Deduplicator) Deduplicate(matches []Match, ancestorsByID map[string][]string) []Match {
	grouped, order := groupByComment(matches)

	var out []Match
	for _, commentID := range order {
		out = append(out, d.dedupeComment(grouped[commentID], ancestorsByID)...)
	}
	if len(out) < len(matches) {
		fmt.Printf("Deduplicator: %d matches -> %d after hierarchy pruning\n", len(matches), len(out))
	}
	return out
}

func (d *Deduplicator) dedupeComment(candidates []Match, ancestorsByID map[string][]string) []Match {
	sorted := make([]Match, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SimilarityScore > sorted[j].SimilarityScore
	})

	// Highest candidate score per section, used as the reference for
	// ancestors that have not been processed yet.
	candidateScore := make(map[string]float64, len(sorted))
	for _, m := range sorted {
		if s, ok := candidateScore[m.SectionID]; !ok || m.SimilarityScore > s {
			candidateScore[m.SectionID] = m.SimilarityScore
		}
	}

	// coverage holds, for every covered section id, the score of the
	// strongest accepted match that covers it.
	coverage := make(map[string]float64)
	accepted := make(map[string]bool)

	var kept []Match
	for _, m := range sorted {
		if accepted[m.SectionID] {
			continue
		}

		// A section covered by an already-accepted descendant survives
		// only if that descendant cleared the margin over it.
		if covering, ok := coverage[m.SectionID]; ok && !d.policy.Clears(covering, m.SimilarityScore) {
			continue
		}

		redundant := false
		for _, ancestor := range ancestorsByID[m.SectionID] {
			reference, ok := coverage[ancestor]
			if !ok {
				reference, ok = candidateScore[ancestor]
			}
			if ok && !d.policy.Clears(m.SimilarityScore, reference) {
				redundant = true
				break
			}
		}
		if redundant {
			continue
		}

		kept = append(kept, m)
		accepted[m.SectionID] = true
		cover(coverage, m.SectionID, m.SimilarityScore)
		for _, ancestor := range ancestorsByID[m.SectionID] {
			cover(coverage, ancestor, m.SimilarityScore)
		}
	}
	return kept
}

func cover(coverage map[string]float64, sectionID string, score float64) {
	if existing, ok := coverage[sectionID]; !ok || score > existing {
		coverage[sectionID] = score
	}
}

func groupByComment(matches []Match) (map[string][]Match, []string) {
	grouped := make(map[string][]Match)
	var order []string
	for _, m := range matches {
		if _, seen := grouped[m.CommentID]; !seen {
			order = append(order, m.CommentID)
		}
		grouped[m.CommentID] = append(grouped[m.CommentID], m)
	}
	return grouped, order
}
