package match

import (
	"reflect"
	"testing"
)

// Ancestry used throughout: parent <- child1, child2; parent is top level.
var testAncestors = map[string][]string{
	"child1": {"parent"},
	"child2": {"parent"},
}

func TestDedupDropsChildInsideMargin(t *testing.T) {
	matches := []Match{
		{CommentID: "c1", SectionID: "parent", SimilarityScore: 0.90},
		{CommentID: "c1", SectionID: "child1", SimilarityScore: 0.92},
	}

	got := NewDeduplicator(1.10).Deduplicate(matches, testAncestors)

	// 0.92 does not clear 0.90 * 1.10, so only the broader match survives.
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(got), got)
	}
	if got[0].SectionID != "parent" {
		t.Errorf("expected the parent match to survive, got %s", got[0].SectionID)
	}
}

func TestDedupKeepsChildThatClearsMargin(t *testing.T) {
	matches := []Match{
		{CommentID: "c1", SectionID: "parent", SimilarityScore: 0.80},
		{CommentID: "c1", SectionID: "child1", SimilarityScore: 0.95},
	}

	got := NewDeduplicator(1.10).Deduplicate(matches, testAncestors)

	// 0.95 clears 0.80 * 1.10 = 0.88, so both matches survive.
	if len(got) != 2 {
		t.Fatalf("expected both matches to survive, got %d: %+v", len(got), got)
	}
	byID := map[string]bool{}
	for _, m := range got {
		byID[m.SectionID] = true
	}
	if !byID["parent"] || !byID["child1"] {
		t.Errorf("expected parent and child1, got %+v", got)
	}
}

func TestDedupSuppressesWeakerSibling(t *testing.T) {
	matches := []Match{
		{CommentID: "c1", SectionID: "parent", SimilarityScore: 0.80},
		{CommentID: "c1", SectionID: "child1", SimilarityScore: 0.95},
		{CommentID: "c1", SectionID: "child2", SimilarityScore: 0.85},
	}

	got := NewDeduplicator(1.10).Deduplicate(matches, testAncestors)

	for _, m := range got {
		if m.SectionID == "child2" {
			t.Fatalf("sibling under a covered parent should be suppressed: %+v", got)
		}
	}
}

func TestDedupChecksAllAncestors(t *testing.T) {
	ancestors := map[string][]string{
		"leaf": {"mid", "top"},
		"mid":  {"top"},
	}
	matches := []Match{
		{CommentID: "c1", SectionID: "leaf", SimilarityScore: 0.95},
		{CommentID: "c1", SectionID: "top", SimilarityScore: 0.90},
	}

	got := NewDeduplicator(1.10).Deduplicate(matches, ancestors)

	// The leaf's nearest ancestor has no match, but the top-level one
	// does, and 0.95 does not clear 0.90 * 1.10.
	if len(got) != 1 || got[0].SectionID != "top" {
		t.Fatalf("expected only the top-level match, got %+v", got)
	}
}

func TestDedupIdempotent(t *testing.T) {
	matches := []Match{
		{CommentID: "c1", SectionID: "parent", SimilarityScore: 0.80},
		{CommentID: "c1", SectionID: "child1", SimilarityScore: 0.95},
		{CommentID: "c1", SectionID: "child2", SimilarityScore: 0.85},
		{CommentID: "c2", SectionID: "parent", SimilarityScore: 0.90},
		{CommentID: "c2", SectionID: "child1", SimilarityScore: 0.92},
		{CommentID: "c3", SectionID: "child2", SimilarityScore: 0.75},
	}
	d := NewDeduplicator(1.10)

	once := d.Deduplicate(matches, testAncestors)
	twice := d.Deduplicate(once, testAncestors)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("deduplication not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDedupNoRedundantPairsSurvive(t *testing.T) {
	matches := []Match{
		{CommentID: "c1", SectionID: "parent", SimilarityScore: 0.82},
		{CommentID: "c1", SectionID: "child1", SimilarityScore: 0.88},
		{CommentID: "c1", SectionID: "child2", SimilarityScore: 0.97},
	}
	margin := 1.10

	got := NewDeduplicator(margin).Deduplicate(matches, testAncestors)

	score := map[string]float64{}
	for _, m := range got {
		score[m.SectionID] = m.SimilarityScore
	}
	for id, ancestors := range testAncestors {
		childScore, ok := score[id]
		if !ok {
			continue
		}
		for _, anc := range ancestors {
			ancScore, ok := score[anc]
			if !ok {
				continue
			}
			if childScore <= ancScore*margin {
				t.Errorf("surviving pair (%s, %s) violates margin: %f vs %f",
					anc, id, ancScore, childScore)
			}
		}
	}
}

func TestDedupUnknownSectionsPassThrough(t *testing.T) {
	matches := []Match{
		{CommentID: "c1", SectionID: "mystery-1", SimilarityScore: 0.91},
		{CommentID: "c1", SectionID: "mystery-2", SimilarityScore: 0.90},
	}

	got := NewDeduplicator(1.10).Deduplicate(matches, map[string][]string{})
	if len(got) != 2 {
		t.Errorf("unrelated sections should all survive, got %+v", got)
	}
}

func TestDedupGroupsPerComment(t *testing.T) {
	// The same section pair should be pruned independently per comment.
	matches := []Match{
		{CommentID: "c1", SectionID: "parent", SimilarityScore: 0.90},
		{CommentID: "c1", SectionID: "child1", SimilarityScore: 0.92},
		{CommentID: "c2", SectionID: "parent", SimilarityScore: 0.72},
		{CommentID: "c2", SectionID: "child1", SimilarityScore: 0.95},
	}

	got := NewDeduplicator(1.10).Deduplicate(matches, testAncestors)

	counts := map[string]int{}
	for _, m := range got {
		counts[m.CommentID]++
	}
	if counts["c1"] != 1 {
		t.Errorf("c1 should keep only the parent match, got %d", counts["c1"])
	}
	if counts["c2"] != 2 {
		t.Errorf("c2 should keep both matches, got %d", counts["c2"])
	}
}
