package ws

import (
	"concierge/internal/model"
	"concierge/internal/service"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler serves the WebSocket chat endpoint. Each text frame is an
// independent request through the pipeline; no state is kept between
// frames.
type Handler struct {
	chatSvc *service.ChatService
}

// NewHandler creates a new WebSocket handler
func NewHandler(chatSvc *service.ChatService) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// ChatWS handles GET /v1/ws/chat
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var req model.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if isEmptyMessage(req.Message) {
			if err := conn.WriteJSON(map[string]string{"error": "message is required"}); err != nil {
				return
			}
			continue
		}

		envelope := h.chatSvc.Chat(r.Context(), req.Message)
		if err := conn.WriteJSON(envelope); err != nil {
			return
		}
	}
}

func isEmptyMessage(m any) bool {
	if m == nil {
		return true
	}
	s, ok := m.(string)
	return ok && s == ""
}
