package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comment_analysis/pkg/core/match"
)

// DefaultMatchBatchSize bounds each insert batch so one bad row cannot
// take down a whole proposal's matches.
const DefaultMatchBatchSize = 50

// MatchesRepo stores comment-to-section matches. Writes replace the whole
// proposal: a full delete first, then batched inserts, so reruns never
// leave stale matches behind.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS comment_section_matches (
//   id BIGSERIAL PRIMARY KEY,
//   comment_id TEXT NOT NULL,
//   section_id TEXT NOT NULL,
//   similarity_score DOUBLE PRECISION NOT NULL,
//   proposal_id TEXT,
//   created_at TIMESTAMPTZ DEFAULT NOW()
// );
type MatchesRepo struct {
	pool *pgxpool.Pool

	// BatchSize is how many rows each insert batch carries. Zero or
	// negative falls back to DefaultMatchBatchSize.
	BatchSize int
}

// NewMatchesRepo creates a matches repository with the default batch size.
func NewMatchesRepo(pool *pgxpool.Pool) *MatchesRepo {
	return &MatchesRepo{pool: pool, BatchSize: DefaultMatchBatchSize}
}

func (r *MatchesRepo) batchSize() int {
	if r.BatchSize <= 0 {
		return DefaultMatchBatchSize
	}
	return r.BatchSize
}

// ReplaceForProposal deletes the proposal's existing matches and inserts
// the new set in batches. A failing batch is logged and skipped; the
// remaining batches still go in.
func (r *MatchesRepo) ReplaceForProposal(ctx context.Context, proposalID string, matches []match.Match) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	if _, err := r.pool.Exec(ctx,
		`DELETE FROM comment_section_matches WHERE proposal_id = $1`, proposalID); err != nil {
		return fmt.Errorf("failed to clear matches for proposal %s: %w", proposalID, err)
	}

	size := r.batchSize()
	inserted := 0
	for start := 0; start < len(matches); start += size {
		end := start + size
		if end > len(matches) {
			end = len(matches)
		}

		batch := &pgx.Batch{}
		for _, m := range matches[start:end] {
			batch.Queue(
				`INSERT INTO comment_section_matches (comment_id, section_id, similarity_score, proposal_id)
				 VALUES ($1, $2, $3, $4)`,
				m.CommentID, m.SectionID, m.SimilarityScore, proposalID)
		}

		if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
			fmt.Printf("Warning: match batch %d-%d failed: %v\n", start, end, err)
			continue
		}
		inserted += end - start
	}

	fmt.Printf("Saved %d/%d matches for proposal %s\n", inserted, len(matches), proposalID)
	return nil
}

// LoadByProposal returns the proposal's matches ordered by comment and
// score.
func (r *MatchesRepo) LoadByProposal(ctx context.Context, proposalID string) ([]match.Match, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT comment_id, section_id, similarity_score, COALESCE(proposal_id, '')
		FROM comment_section_matches
		WHERE proposal_id = $1
		ORDER BY comment_id, similarity_score DESC
	`

	rows, err := r.pool.Query(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	defer rows.Close()

	var matches []match.Match
	for rows.Next() {
		var m match.Match
		if err := rows.Scan(&m.CommentID, &m.SectionID, &m.SimilarityScore, &m.ProposalID); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// SectionMatchCount pairs a section with how many comments matched it.
type SectionMatchCount struct {
	SectionID     string  `json:"section_id"`
	SectionNumber string  `json:"section_number"`
	SectionTitle  string  `json:"section_title"`
	MatchCount    int     `json:"match_count"`
	AverageScore  float64 `json:"average_score"`
}

// TopSections returns the proposal's most-commented sections.
func (r *MatchesRepo) TopSections(ctx context.Context, proposalID string, limit int) ([]SectionMatchCount, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT m.section_id, COALESCE(s.section_number, ''), COALESCE(s.section_title, ''),
		       COUNT(*) AS match_count, AVG(m.similarity_score) AS average_score
		FROM comment_section_matches m
		LEFT JOIN document_sections s ON s.section_id = m.section_id
		WHERE m.proposal_id = $1
		GROUP BY m.section_id, s.section_number, s.section_title
		ORDER BY match_count DESC, average_score DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, proposalID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top sections: %w", err)
	}
	defer rows.Close()

	var counts []SectionMatchCount
	for rows.Next() {
		var c SectionMatchCount
		if err := rows.Scan(&c.SectionID, &c.SectionNumber, &c.SectionTitle, &c.MatchCount, &c.AverageScore); err != nil {
			return nil, fmt.Errorf("failed to scan top section: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
