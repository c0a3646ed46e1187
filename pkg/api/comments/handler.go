package comments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"comment_analysis/pkg/core/ingest"
)

// Store persists and loads comments for a proposal.
type Store interface {
	SaveAll(ctx context.Context, comments []ingest.Comment) error
	LoadByProposal(ctx context.Context, proposalID string) ([]ingest.Comment, error)
}

type ListResponse struct {
	ProposalID string           `json:"proposal_id"`
	Count      int              `json:"count"`
	Comments   []ingest.Comment `json:"comments"`
}

type IngestResponse struct {
	ProposalID string `json:"proposal_id"`
	Saved      int    `json:"saved"`
}

// Handler holds dependencies for comment endpoints
type Handler struct {
	Store Store
}

// NewHandler creates a new comments handler
func NewHandler(store Store) *Handler {
	return &Handler{
		Store: store,
	}
}

// HandleList returns the persisted comments for a proposal.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	proposalID := r.URL.Query().Get("proposal_id")
	if proposalID == "" {
		http.Error(w, "proposal_id is required", http.StatusBadRequest)
		return
	}

	cs, err := h.Store.LoadByProposal(r.Context(), proposalID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(ListResponse{
		ProposalID: proposalID,
		Count:      len(cs),
		Comments:   cs,
	})
}

// HandleIngest accepts a comment payload (bare array or wrapped), stamps the
// proposal id, and persists the comments.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	proposalID := r.URL.Query().Get("proposal_id")
	if proposalID == "" {
		http.Error(w, "proposal_id is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cs, err := ingest.ParseComments(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for i := range cs {
		if cs[i].ProposalID == "" {
			cs[i].ProposalID = proposalID
		}
	}

	if err := h.Store.SaveAll(r.Context(), cs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(IngestResponse{
		ProposalID: proposalID,
		Saved:      len(cs),
	})
}
