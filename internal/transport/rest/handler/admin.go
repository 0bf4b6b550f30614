package handler

import (
	"concierge/internal/model"
	"net/http"

	"github.com/gorilla/mux"
)

// AdminHandler exposes read-only knowledge-base inspection. The knowledge
// base is immutable after load, so there is nothing to write.
type AdminHandler struct {
	kb *model.KnowledgeBase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(kb *model.KnowledgeBase) *AdminHandler {
	return &AdminHandler{kb: kb}
}

// ListIntents handles GET /v1/admin/intents
func (h *AdminHandler) ListIntents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"intents":           h.kb.Intents,
		"fallbackResponses": h.kb.FallbackResponses,
	})
}

// GetIntent handles GET /v1/admin/intents/{name}
func (h *AdminHandler) GetIntent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	intent := h.kb.Find(name)
	if intent == nil {
		writeError(w, http.StatusNotFound, "intent not found")
		return
	}

	writeJSON(w, http.StatusOK, intent)
}
