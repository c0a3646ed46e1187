package sections

import (
	"context"
	"encoding/json"
	"net/http"

	"comment_analysis/pkg/core/document"
)

// Store loads persisted sections for a proposal.
type Store interface {
	LoadByProposal(ctx context.Context, proposalID string) ([]document.Section, error)
}

type ExtractRequest struct {
	Text             string `json:"text"`
	ProposalID       string `json:"proposal_id"`
	MinSectionLength int    `json:"min_section_length"`
}

type ExtractResponse struct {
	ProposalID string             `json:"proposal_id"`
	Count      int                `json:"count"`
	Sections   []document.Section `json:"sections"`
}

// Handler holds dependencies for section endpoints
type Handler struct {
	Store Store
}

// NewHandler creates a new sections handler
func NewHandler(store Store) *Handler {
	return &Handler{
		Store: store,
	}
}

// HandleList returns the persisted sections for a proposal.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	proposalID := r.URL.Query().Get("proposal_id")
	if proposalID == "" {
		http.Error(w, "proposal_id is required", http.StatusBadRequest)
		return
	}

	secs, err := h.Store.LoadByProposal(r.Context(), proposalID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(ExtractResponse{
		ProposalID: proposalID,
		Count:      len(secs),
		Sections:   secs,
	})
}

// HandleExtract runs pattern-based section extraction on raw document text
// without persisting anything.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req ExtractRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	secs := document.Extract(req.Text, document.ExtractOptions{
		Dialect:    document.DialectRoman,
		ProposalID: req.ProposalID,
	})
	minLen := req.MinSectionLength
	if minLen <= 0 {
		minLen = document.DefaultMinSectionLength
	}
	secs = document.Clean(secs, minLen, nil)

	json.NewEncoder(w).Encode(ExtractResponse{
		ProposalID: req.ProposalID,
		Count:      len(secs),
		Sections:   secs,
	})
}
