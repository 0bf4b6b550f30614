package handler

import (
	"concierge/internal/model"
	"concierge/internal/service"
	"encoding/json"
	"net/http"
	"strings"
)

// ChatHandler handles the chat endpoint
type ChatHandler struct {
	chatSvc *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Chat handles POST /v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Empty or missing messages are rejected here; the pipeline itself
	// never sees them.
	if isEmptyMessage(req.Message) {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	writeJSON(w, http.StatusOK, h.chatSvc.Chat(r.Context(), req.Message))
}

func isEmptyMessage(m any) bool {
	if m == nil {
		return true
	}
	if s, ok := m.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	// non-string values (numbers, booleans) are coerced downstream
	return false
}
