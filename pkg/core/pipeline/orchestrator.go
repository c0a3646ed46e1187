// Package pipeline wires extraction, embedding, matching, and storage into
// one run per proposal.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"comment_analysis/pkg/core/analyzer"
	"comment_analysis/pkg/core/document"
	"comment_analysis/pkg/core/embedding"
	"comment_analysis/pkg/core/hierarchy"
	"comment_analysis/pkg/core/ingest"
	"comment_analysis/pkg/core/match"
)

// SectionStore persists extracted sections.
type SectionStore interface {
	SaveAll(ctx context.Context, sections []document.Section) error
}

// CommentStore persists ingested comments.
type CommentStore interface {
	SaveAll(ctx context.Context, comments []ingest.Comment) error
}

// MatchStore persists a proposal's matches, replacing earlier runs.
type MatchStore interface {
	ReplaceForProposal(ctx context.Context, proposalID string, matches []match.Match) error
}

// Result is everything one pipeline run produced.
type Result struct {
	Sections []document.Section
	Comments []ingest.Comment
	Matches  []match.Match
}

// Orchestrator manages the end-to-end flow: extract sections from the
// document, embed sections and comments, match, deduplicate, store.
type Orchestrator struct {
	config   Config
	embedder *embedding.Embedder
	runner   analyzer.PromptRunner // optional, enables LLM sectioning fallback

	sections SectionStore
	comments CommentStore
	matches  MatchStore
}

// NewOrchestrator creates an orchestrator. The provider is wrapped with
// truncation and shrink-retry handling. Stores may be nil to run without
// persistence; runner may be nil to disable the LLM sectioning fallback.
func NewOrchestrator(config Config, provider embedding.Provider, runner analyzer.PromptRunner) *Orchestrator {
	config.ApplyDefaults()
	return &Orchestrator{
		config:   config,
		embedder: embedding.NewEmbedder(provider, config.EmbedMaxChars),
		runner:   runner,
	}
}

// SetStores injects the persistence layer.
func (o *Orchestrator) SetStores(sections SectionStore, comments CommentStore, matches MatchStore) {
	o.sections = sections
	o.comments = comments
	o.matches = matches
}

// Run executes the full pipeline for one proposal document and its
// comments.
func (o *Orchestrator) Run(ctx context.Context, documentText string, comments []ingest.Comment) (*Result, error) {
	fmt.Printf("Starting pipeline for proposal %s...\n", o.config.ProposalID)
	start := time.Now()

	// 1. Section extraction
	sections := o.extractSections(ctx, documentText)
	if len(sections) == 0 {
		return nil, fmt.Errorf("no sections extracted from document")
	}
	fmt.Printf("Extracted %d sections\n", len(sections))

	// 2. Embeddings
	if err := o.embedSections(ctx, sections); err != nil {
		return nil, fmt.Errorf("section embedding failed: %w", err)
	}
	if err := o.embedComments(ctx, comments); err != nil {
		return nil, fmt.Errorf("comment embedding failed: %w", err)
	}

	// 3. Matching and hierarchical pruning
	matcher := match.NewMatcher(match.Options{
		Threshold:     o.config.SimilarityThreshold,
		MaxPerComment: o.config.MaxMatchesPerComment,
	})
	raw := matcher.Match(comments, sections)

	index := hierarchy.Build(sections)
	deduped := match.NewDeduplicator(o.config.DedupMargin).Deduplicate(raw, index.AncestorsByID)

	// 4. Storage
	if o.sections != nil {
		if err := o.sections.SaveAll(ctx, sections); err != nil {
			return nil, fmt.Errorf("failed to store sections: %w", err)
		}
	}
	if o.comments != nil {
		if err := o.comments.SaveAll(ctx, comments); err != nil {
			return nil, fmt.Errorf("failed to store comments: %w", err)
		}
	}
	if o.matches != nil {
		if err := o.matches.ReplaceForProposal(ctx, o.config.ProposalID, deduped); err != nil {
			return nil, fmt.Errorf("failed to store matches: %w", err)
		}
	}

	fmt.Printf("Pipeline completed for %s in %v: %d sections, %d comments, %d matches\n",
		o.config.ProposalID, time.Since(start), len(sections), len(comments), len(deduped))
	return &Result{Sections: sections, Comments: comments, Matches: deduped}, nil
}

// extractSections runs pattern extraction, falling back to LLM sectioning
// for poorly structured documents and to paragraph splitting as the last
// resort.
func (o *Orchestrator) extractSections(ctx context.Context, text string) []document.Section {
	sections := document.Extract(text, document.ExtractOptions{
		Dialect:    document.DialectRoman,
		ProposalID: o.config.ProposalID,
	})
	sections = document.Clean(sections, o.config.MinSectionLength, nil)

	if analyzer.ShouldUseLLMSectioning(sections) && o.runner != nil {
		fmt.Printf("Only %d sections from pattern extraction, trying LLM sectioning...\n", len(sections))
		llmSections, err := analyzer.SectionWithLLM(ctx, o.runner, text, o.config.ProposalID)
		if err != nil {
			fmt.Printf("Warning: LLM sectioning failed: %v\n", err)
		} else if len(llmSections) > len(sections) {
			sections = llmSections
		}
	}
	if len(sections) == 0 {
		sections = document.ParagraphFallback(text, o.config.MinSectionLength)
	}
	return sections
}

func (o *Orchestrator) embedSections(ctx context.Context, sections []document.Section) error {
	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.SectionTitle + "\n\n" + s.SectionText
	}
	vectors, err := embedding.EmbedAll(ctx, o.embedder, texts, o.batchOptions())
	if err != nil {
		return err
	}
	for i := range sections {
		sections[i].Embedding = vectors[i]
	}
	return nil
}

// embedComments fills in embeddings for comments that arrived without one;
// stored comments from earlier runs keep theirs.
func (o *Orchestrator) embedComments(ctx context.Context, comments []ingest.Comment) error {
	var texts []string
	var targets []int
	for i := range comments {
		if len(comments[i].Embedding) == 0 {
			texts = append(texts, comments[i].EmbeddingText())
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	vectors, err := embedding.EmbedAll(ctx, o.embedder, texts, o.batchOptions())
	if err != nil {
		return err
	}
	for n, i := range targets {
		comments[i].Embedding = vectors[n]
	}
	return nil
}

func (o *Orchestrator) batchOptions() embedding.BatchOptions {
	return embedding.BatchOptions{
		Workers:        o.config.EmbedWorkers,
		RequestsPerSec: o.config.EmbedRequestsPerSec,
	}
}
