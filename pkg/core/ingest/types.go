// Package ingest loads public comments from scraped JSON exports and
// enriches them with attachment text so downstream embedding and matching
// see one combined body per comment.
package ingest

import (
	"strings"

	"comment_analysis/pkg/core/vector"
)

// Attachment is a file reference attached to a comment, as recorded by the
// scraper. ExtractedText is filled in by the attachment processor.
type Attachment struct {
	Filename      string `json:"filename,omitempty"`
	Link          string `json:"link,omitempty"`
	ExtractedText string `json:"extracted_text,omitempty"`
}

// Comment is one public comment on a proposal. Source exports disagree on
// which field carries the body, so several are accepted; BodyText resolves
// the priority order.
type Comment struct {
	CommentID     string           `json:"comment_id"`
	Title         string           `json:"title,omitempty"`
	CommenterName string           `json:"commenter_name,omitempty"`
	Organization  string           `json:"organization,omitempty"`
	CommentDate   string           `json:"comment_date,omitempty"`
	CommentText   string           `json:"comment_text,omitempty"`
	Text          string           `json:"text,omitempty"`
	Content       string           `json:"content,omitempty"`
	Markdown      string           `json:"markdown,omitempty"`
	CombinedText  string           `json:"combined_text,omitempty"`
	SourceURL     string           `json:"source_url,omitempty"`
	ProposalID    string           `json:"proposal_id,omitempty"`
	Attachments   []Attachment     `json:"attachments,omitempty"`
	Embedding     vector.Embedding `json:"embedding,omitempty"`
}

// BodyText returns the comment body, preferring comment_text, then text,
// then content, then markdown.
func (c *Comment) BodyText() string {
	for _, candidate := range []string{c.CommentText, c.Text, c.Content, c.Markdown} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// EmbeddingText returns the text that should be embedded for this comment:
// the combined body-plus-attachments text when present, otherwise the bare
// body.
func (c *Comment) EmbeddingText() string {
	if strings.TrimSpace(c.CombinedText) != "" {
		return c.CombinedText
	}
	return c.BodyText()
}
