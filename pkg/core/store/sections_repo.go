package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"comment_analysis/pkg/core/document"
	"comment_analysis/pkg/core/vector"
)

// SectionsRepo stores extracted document sections.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS document_sections (
//   section_id TEXT PRIMARY KEY,
//   section_number TEXT,
//   section_title TEXT,
//   section_text TEXT,
//   hierarchy_level INT,
//   parent_section_id TEXT,
//   hierarchy_path TEXT,
//   proposal_id TEXT,
//   embedding TEXT,
//   updated_at TIMESTAMPTZ DEFAULT NOW()
// );
type SectionsRepo struct {
	pool *pgxpool.Pool
}

// NewSectionsRepo creates a sections repository.
func NewSectionsRepo(pool *pgxpool.Pool) *SectionsRepo {
	return &SectionsRepo{pool: pool}
}

// SaveAll upserts every section by section_id.
func (r *SectionsRepo) SaveAll(ctx context.Context, sections []document.Section) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	query := `
		INSERT INTO document_sections (
			section_id, section_number, section_title, section_text,
			hierarchy_level, parent_section_id, hierarchy_path, proposal_id, embedding
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (section_id)
		DO UPDATE SET
			section_number = EXCLUDED.section_number,
			section_title = EXCLUDED.section_title,
			section_text = EXCLUDED.section_text,
			hierarchy_level = EXCLUDED.hierarchy_level,
			parent_section_id = EXCLUDED.parent_section_id,
			hierarchy_path = EXCLUDED.hierarchy_path,
			proposal_id = EXCLUDED.proposal_id,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
	`

	for _, s := range sections {
		_, err := r.pool.Exec(ctx, query,
			s.SectionID, s.SectionNumber, s.SectionTitle, s.SectionText,
			s.HierarchyLevel, nullable(s.ParentSectionID), nullable(s.HierarchyPath),
			nullable(s.ProposalID), vector.Serialize(s.Embedding))
		if err != nil {
			return fmt.Errorf("failed to save section %s: %w", s.SectionID, err)
		}
	}
	fmt.Printf("Saved %d sections\n", len(sections))
	return nil
}

// LoadByProposal returns every section of a proposal, parents before
// children where hierarchy levels differ.
func (r *SectionsRepo) LoadByProposal(ctx context.Context, proposalID string) ([]document.Section, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT section_id, section_number, section_title, section_text,
		       hierarchy_level, COALESCE(parent_section_id, ''),
		       COALESCE(hierarchy_path, ''), COALESCE(proposal_id, ''),
		       COALESCE(embedding, '')
		FROM document_sections
		WHERE proposal_id = $1
		ORDER BY hierarchy_level, section_number
	`

	rows, err := r.pool.Query(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	defer rows.Close()

	var sections []document.Section
	for rows.Next() {
		var s document.Section
		var embedding string
		if err := rows.Scan(&s.SectionID, &s.SectionNumber, &s.SectionTitle, &s.SectionText,
			&s.HierarchyLevel, &s.ParentSectionID, &s.HierarchyPath, &s.ProposalID, &embedding); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		s.Embedding = vector.Parse(embedding)
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// nullable maps empty strings to NULL so optional columns stay clean.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
