package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/fieldline/lead-relay/internal/infra/http/middleware"
	"github.com/fieldline/lead-relay/internal/usecase"
)

type RefreshAdSpendInterface interface {
	Execute(ctx context.Context, force bool) (*usecase.RefreshAdSpendOutput, error)
}

type AdSpendHandler struct {
	UC RefreshAdSpendInterface
}

func NewAdSpendHandler(uc RefreshAdSpendInterface) *AdSpendHandler {
	return &AdSpendHandler{UC: uc}
}

// HandleRefresh triggers the gated refresh. Outside the eligible day it
// still answers 200, reporting when the refresh will next run.
func (h *AdSpendHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	out, err := h.UC.Execute(r.Context(), force)
	if err != nil {
		log.Printf("❌ Ad-spend refresh failed: %v", err)
		if usecase.IsUpstreamError(err) {
			middleware.RecordIntegrationError(upstreamService(err))
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "refresh failed"})
		return
	}

	if out.Executed {
		middleware.RecordAdSpendRefresh()
		middleware.RecordRollupUpdate()
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"period":  out.Period,
			"summary": out.Summary,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"executed":      false,
		"next_eligible": out.NextEligible.Format("2006-01-02"),
	})
}
