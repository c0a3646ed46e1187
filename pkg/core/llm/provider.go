// Package llm provides the language-model backends used for comment
// analysis and for sectioning documents whose structure defeats the
// pattern-based extractor.
package llm

import "context"

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}
