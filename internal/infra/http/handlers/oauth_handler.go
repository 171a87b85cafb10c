package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
)

type BooksAuthorizer interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code, realmID string) error
}

// OAuthHandler drives the accounting platform's authorization-code
// flow. The exchanged tokens land in the record store, not here.
type OAuthHandler struct {
	Books BooksAuthorizer
}

func NewOAuthHandler(books BooksAuthorizer) *OAuthHandler {
	return &OAuthHandler{Books: books}
}

func (h *OAuthHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.Redirect(w, r, h.Books.AuthorizeURL(state), http.StatusFound)
}

func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	realmID := r.URL.Query().Get("realmId")

	if code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "missing code"})
		return
	}

	if err := h.Books.ExchangeCode(r.Context(), code, realmID); err != nil {
		log.Printf("❌ OAuth code exchange failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "exchange failed"})
		return
	}

	log.Println("🔑 Accounting platform connected")
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
