package store

import "testing"

func TestNewMatchesRepoDefaultBatchSize(t *testing.T) {
	r := NewMatchesRepo(nil)
	if r.BatchSize != DefaultMatchBatchSize {
		t.Errorf("batch size = %d, want default %d", r.BatchSize, DefaultMatchBatchSize)
	}
}

func TestMatchesRepoBatchSizeOverride(t *testing.T) {
	r := NewMatchesRepo(nil)
	r.BatchSize = 200
	if got := r.batchSize(); got != 200 {
		t.Errorf("batch size = %d, want 200", got)
	}

	r.BatchSize = 0
	if got := r.batchSize(); got != DefaultMatchBatchSize {
		t.Errorf("zero batch size should fall back to %d, got %d", DefaultMatchBatchSize, got)
	}
}
