package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"comment_analysis/pkg/core/ingest"
	"comment_analysis/pkg/core/vector"
)

// CommentsRepo stores scraped comments and their embeddings.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS comments (
//   comment_id TEXT PRIMARY KEY,
//   title TEXT,
//   commenter_name TEXT,
//   organization TEXT,
//   comment_date TEXT,
//   comment_text TEXT,
//   combined_text TEXT,
//   source_url TEXT,
//   proposal_id TEXT,
//   attachments JSONB,
//   embedding TEXT,
//   updated_at TIMESTAMPTZ DEFAULT NOW()
// );
type CommentsRepo struct {
	pool *pgxpool.Pool
}

// NewCommentsRepo creates a comments repository.
func NewCommentsRepo(pool *pgxpool.Pool) *CommentsRepo {
	return &CommentsRepo{pool: pool}
}

// SaveAll upserts every comment by comment_id.
func (r *CommentsRepo) SaveAll(ctx context.Context, comments []ingest.Comment) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	query := `
		INSERT INTO comments (
			comment_id, title, commenter_name, organization, comment_date,
			comment_text, combined_text, source_url, proposal_id, attachments, embedding
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (comment_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			commenter_name = EXCLUDED.commenter_name,
			organization = EXCLUDED.organization,
			comment_date = EXCLUDED.comment_date,
			comment_text = EXCLUDED.comment_text,
			combined_text = EXCLUDED.combined_text,
			source_url = EXCLUDED.source_url,
			proposal_id = EXCLUDED.proposal_id,
			attachments = EXCLUDED.attachments,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
	`

	for _, c := range comments {
		var attachmentsJSON []byte
		if len(c.Attachments) > 0 {
			var err error
			attachmentsJSON, err = json.Marshal(c.Attachments)
			if err != nil {
				return fmt.Errorf("failed to marshal attachments for %s: %w", c.CommentID, err)
			}
		}

		_, err := r.pool.Exec(ctx, query,
			c.CommentID, c.Title, c.CommenterName, c.Organization, c.CommentDate,
			c.BodyText(), c.CombinedText, nullable(c.SourceURL), nullable(c.ProposalID),
			attachmentsJSON, vector.Serialize(c.Embedding))
		if err != nil {
			return fmt.Errorf("failed to save comment %s: %w", c.CommentID, err)
		}
	}
	fmt.Printf("Saved %d comments\n", len(comments))
	return nil
}

// LoadByProposal returns every comment of a proposal.
func (r *CommentsRepo) LoadByProposal(ctx context.Context, proposalID string) ([]ingest.Comment, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT comment_id, COALESCE(title, ''), COALESCE(commenter_name, ''),
		       COALESCE(organization, ''), COALESCE(comment_date, ''),
		       COALESCE(comment_text, ''), COALESCE(combined_text, ''),
		       COALESCE(source_url, ''), COALESCE(proposal_id, ''),
		       COALESCE(embedding, '')
		FROM comments
		WHERE proposal_id = $1
	`

	rows, err := r.pool.Query(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	defer rows.Close()

	var comments []ingest.Comment
	for rows.Next() {
		var c ingest.Comment
		var embedding string
		if err := rows.Scan(&c.CommentID, &c.Title, &c.CommenterName, &c.Organization,
			&c.CommentDate, &c.CommentText, &c.CombinedText, &c.SourceURL,
			&c.ProposalID, &embedding); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Embedding = vector.Parse(embedding)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
