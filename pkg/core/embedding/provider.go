// Package embedding produces text embeddings for sections and comments,
// handling provider limits by truncating at sentence boundaries and
// shrinking the input on over-length errors.
package embedding

import (
	"context"
	"fmt"
	"strings"
)

// Provider is a single-text embedding backend.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

const (
	// DefaultMaxChars approximates the 7000-token request limit at
	// roughly 4 characters per token.
	DefaultMaxChars = 28000

	// maxShrinkAttempts bounds the halve-and-retry loop on over-length
	// errors.
	maxShrinkAttempts = 3
)

// Embedder wraps a Provider with input-size handling: text is truncated to
// a character budget before each call, and over-length rejections shrink
// the budget by half and retry. When retries are exhausted the text is
// skipped with an empty embedding rather than failing the whole batch.
type Embedder struct {
	provider Provider
	maxChars int
}

// NewEmbedder creates an Embedder; maxChars <= 0 uses DefaultMaxChars.
func NewEmbedder(provider Provider, maxChars int) *Embedder {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Embedder{provider: provider, maxChars: maxChars}
}

// Embed returns the embedding for text. Empty input yields an empty
// embedding without calling the provider.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	limit := e.maxChars
	for attempt := 0; attempt <= maxShrinkAttempts; attempt++ {
		vec, err := e.provider.Embed(ctx, TruncateText(text, limit))
		if err == nil {
			return vec, nil
		}
		if !isOverLength(err) {
			return nil, err
		}
		fmt.Printf("Embedding input over limit at %d chars, retrying at %d\n", limit, limit/2)
		limit /= 2
	}

	fmt.Printf("Warning: embedding skipped after %d shrink attempts\n", maxShrinkAttempts)
	return nil, nil
}

// TruncateText cuts text to at most maxChars characters, preferring the
// last sentence boundary that falls in the final fifth of the cut so a
// sentence is not split mid-way. The cut lands on a rune boundary.
func TruncateText(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	cut := string(runes[:maxChars])
	if idx := strings.LastIndex(cut, ". "); idx >= len(cut)*4/5 {
		return cut[:idx+1]
	}
	return cut
}

// isOverLength recognizes provider rejections caused by input size.
func isOverLength(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "token") ||
		strings.Contains(msg, "context length") ||
		strings.Contains(msg, "payload size") ||
		strings.Contains(msg, "too long")
}
