package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"comment_analysis/pkg/core/document"
	"comment_analysis/pkg/core/embedding"
	"comment_analysis/pkg/core/llm"
	"comment_analysis/pkg/core/match"
	"comment_analysis/pkg/core/store"
	"comment_analysis/pkg/core/utils"
)

// Config carries every pipeline tunable. Zero values are filled in by
// ApplyDefaults so a partial YAML file is enough.
type Config struct {
	ProposalID    string `yaml:"proposal_id" json:"proposal_id"`
	DocumentTitle string `yaml:"document_title" json:"document_title"`

	SimilarityThreshold  float64 `yaml:"similarity_threshold" json:"similarity_threshold"`
	MaxMatchesPerComment int     `yaml:"max_matches_per_comment" json:"max_matches_per_comment"`
	DedupMargin          float64 `yaml:"dedup_margin" json:"dedup_margin"`
	MinSectionLength     int     `yaml:"min_section_length" json:"min_section_length"`

	EmbedProvider       string  `yaml:"embed_provider" json:"embed_provider"` // "gemini" or "openai"
	EmbedModel          string  `yaml:"embed_model" json:"embed_model"`
	EmbedMaxChars       int     `yaml:"embed_max_chars" json:"embed_max_chars"`
	EmbedWorkers        int     `yaml:"embed_workers" json:"embed_workers"`
	EmbedRequestsPerSec float64 `yaml:"embed_requests_per_sec" json:"embed_requests_per_sec"`

	StoreBatchSize int `yaml:"store_batch_size" json:"store_batch_size"`

	LLM llm.Config `yaml:"llm" json:"llm"`
}

// ApplyDefaults fills unset fields with the operational defaults.
func (c *Config) ApplyDefaults() {
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = match.DefaultThreshold
	}
	if c.MaxMatchesPerComment <= 0 {
		c.MaxMatchesPerComment = match.DefaultMaxPerComment
	}
	if c.DedupMargin <= 0 {
		c.DedupMargin = match.DefaultMargin
	}
	if c.MinSectionLength <= 0 {
		c.MinSectionLength = document.DefaultMinSectionLength
	}
	if c.EmbedProvider == "" {
		c.EmbedProvider = "gemini"
	}
	if c.EmbedMaxChars <= 0 {
		c.EmbedMaxChars = embedding.DefaultMaxChars
	}
	if c.EmbedWorkers <= 0 {
		c.EmbedWorkers = 4
	}
	if c.StoreBatchSize <= 0 {
		c.StoreBatchSize = store.DefaultMatchBatchSize
	}
}

// LoadConfig reads a YAML (or HJSON, by extension) config file and applies
// defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".hjson") || strings.HasSuffix(path, ".json") {
		if err := utils.ParseHJSONToStruct(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
