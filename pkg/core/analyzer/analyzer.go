// Package analyzer runs language-model analysis over comments and, when
// pattern-based extraction comes up short, over whole documents.
package analyzer

import (
	"context"
	"fmt"

	"comment_analysis/pkg/core/ingest"
	"comment_analysis/pkg/core/llm"
	"comment_analysis/pkg/core/utils"
)

// excerptLength is how much comment text travels with each result.
const excerptLength = 500

// PromptRunner is the slice of llm.Manager the analyzer needs.
type PromptRunner interface {
	ExecutePrompt(ctx context.Context, task string, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

var _ PromptRunner = (*llm.Manager)(nil)

// Result is the per-comment analysis output.
type Result struct {
	CommentID       string `json:"comment_id"`
	Title           string `json:"title,omitempty"`
	SectionAnalysis string `json:"section_analysis"`
	CommentExcerpt  string `json:"comment_text"`
}

// CommentAnalyzer asks an LLM which document sections each comment
// addresses.
type CommentAnalyzer struct {
	manager       PromptRunner
	documentTitle string
}

// NewCommentAnalyzer creates an analyzer for comments on the named
// regulatory document.
func NewCommentAnalyzer(manager PromptRunner, documentTitle string) *CommentAnalyzer {
	return &CommentAnalyzer{manager: manager, documentTitle: documentTitle}
}

// Analyze identifies the sections one comment addresses.
func (a *CommentAnalyzer) Analyze(ctx context.Context, c ingest.Comment) (Result, error) {
	result := Result{
		CommentID:      c.CommentID,
		Title:          c.Title,
		CommentExcerpt: excerpt(c.BodyText()),
	}

	prompt := fmt.Sprintf(`Analyze the following public comment and identify which specific sections of the regulatory document
%q it is addressing.

Comment ID: %s
Comment Title: %s

Comment Text:
%s

Please identify the specific sections this comment addresses. Example format:
Section IV.B.2: Proposed Requirements for Puncturing and Draining
Section VI: Requests for Comment

Only list sections that are clearly addressed in the comment. If no specific sections can be identified, state "No specific sections identified".`,
		a.documentTitle, c.CommentID, c.Title, c.BodyText())

	systemPrompt := "You are an expert policy analyst who specializes in identifying which sections of regulatory documents public comments are addressing."

	analysis, err := a.manager.ExecutePrompt(ctx, "analysis", prompt, systemPrompt, nil)
	if err != nil {
		return result, fmt.Errorf("comment %s analysis failed: %w", c.CommentID, err)
	}

	result.SectionAnalysis = utils.CleanMarkdown(analysis)
	return result, nil
}

// AnalyzeAll analyzes every comment, recording failures inline so one bad
// comment never aborts the batch.
func (a *CommentAnalyzer) AnalyzeAll(ctx context.Context, comments []ingest.Comment) []Result {
	results := make([]Result, 0, len(comments))
	for i, c := range comments {
		fmt.Printf("Analyzing comment %d/%d: %s\n", i+1, len(comments), c.CommentID)
		result, err := a.Analyze(ctx, c)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
			result.SectionAnalysis = fmt.Sprintf("Error during analysis: %v", err)
		}
		results = append(results, result)
	}
	return results
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) > excerptLength {
		return string(runes[:excerptLength]) + "..."
	}
	return text
}
