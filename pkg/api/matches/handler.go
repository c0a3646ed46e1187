package matches

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"comment_analysis/pkg/core/match"
	"comment_analysis/pkg/core/store"
)

// Store loads persisted match results for a proposal.
type Store interface {
	LoadByProposal(ctx context.Context, proposalID string) ([]match.Match, error)
	TopSections(ctx context.Context, proposalID string, limit int) ([]store.SectionMatchCount, error)
}

type ListResponse struct {
	ProposalID string        `json:"proposal_id"`
	Count      int           `json:"count"`
	Matches    []match.Match `json:"matches"`
}

type TopResponse struct {
	ProposalID string                    `json:"proposal_id"`
	Sections   []store.SectionMatchCount `json:"sections"`
}

// Handler holds dependencies for match endpoints
type Handler struct {
	Store Store
}

// NewHandler creates a new matches handler
func NewHandler(s Store) *Handler {
	return &Handler{
		Store: s,
	}
}

// HandleList returns all matches for a proposal ordered by comment and score.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	proposalID := r.URL.Query().Get("proposal_id")
	if proposalID == "" {
		http.Error(w, "proposal_id is required", http.StatusBadRequest)
		return
	}

	ms, err := h.Store.LoadByProposal(r.Context(), proposalID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(ListResponse{
		ProposalID: proposalID,
		Count:      len(ms),
		Matches:    ms,
	})
}

// HandleTopSections returns the sections drawing the most comments.
func (h *Handler) HandleTopSections(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	proposalID := r.URL.Query().Get("proposal_id")
	if proposalID == "" {
		http.Error(w, "proposal_id is required", http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	secs, err := h.Store.TopSections(r.Context(), proposalID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(TopResponse{
		ProposalID: proposalID,
		Sections:   secs,
	})
}
