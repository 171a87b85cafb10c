package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldline/lead-relay/internal/entity"
)

// ReviewHandler exposes the manual-reconciliation outbox to operators.
type ReviewHandler struct {
	Reviews entity.ReviewRepositoryInterface
}

func NewReviewHandler(reviews entity.ReviewRepositoryInterface) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

func (h *ReviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Reviews.ListOpen(r.Context(), 100)
	if err != nil {
		log.Printf("❌ Failed to list review entries: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "list failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "entries": entries})
}

func (h *ReviewHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Reviews.Resolve(r.Context(), id); err != nil {
		log.Printf("❌ Failed to resolve review entry %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "resolve failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
