package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"comment_analysis/pkg/core/match"
	"comment_analysis/pkg/core/store"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigYAMLAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "pipeline.yaml", `
proposal_id: prop-1
document_title: Waste Rule
similarity_threshold: 0.8
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ProposalID != "prop-1" {
		t.Errorf("proposal id = %q", cfg.ProposalID)
	}
	if cfg.SimilarityThreshold != 0.8 {
		t.Errorf("threshold = %v, want 0.8", cfg.SimilarityThreshold)
	}
	if cfg.MaxMatchesPerComment != match.DefaultMaxPerComment {
		t.Errorf("max matches = %d, want default %d", cfg.MaxMatchesPerComment, match.DefaultMaxPerComment)
	}
	if cfg.DedupMargin != match.DefaultMargin {
		t.Errorf("margin = %v, want default %v", cfg.DedupMargin, match.DefaultMargin)
	}
	if cfg.EmbedProvider != "gemini" {
		t.Errorf("embed provider = %q, want gemini default", cfg.EmbedProvider)
	}
	if cfg.StoreBatchSize != store.DefaultMatchBatchSize {
		t.Errorf("store batch size = %d, want default %d", cfg.StoreBatchSize, store.DefaultMatchBatchSize)
	}
}

func TestLoadConfigHJSON(t *testing.T) {
	path := writeConfigFile(t, "pipeline.hjson", `{
  // run settings
  proposal_id: prop-2
  dedup_margin: 1.25
}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ProposalID != "prop-2" {
		t.Errorf("proposal id = %q", cfg.ProposalID)
	}
	if cfg.DedupMargin != 1.25 {
		t.Errorf("margin = %v, want 1.25", cfg.DedupMargin)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
