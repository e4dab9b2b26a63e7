package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatservice "github.com/surajkumar989/NeuralSync/internal/service/chat"
)

// WebSocketHandler runs a duplex chat connection: one inbound message
// frame per user message, one outbound frame per persisted turn.
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket chat handler.
func NewWebSocketHandler(chatSvc *chatservice.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the websocket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type inboundFrame struct {
	Message string `json:"message"`
}

type outboundFrame struct {
	Type        string      `json:"type"`
	Turn        interface{} `json:"turn,omitempty"`
	HashPreview string      `json:"hashPreview,omitempty"`
	Error       string      `json:"error,omitempty"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] chat connection opened from %s", r.RemoteAddr)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}

		turn, err := h.chatSvc.Exchange(r.Context(), "", frame.Message)
		if err != nil {
			msg := "failed to process message"
			if errors.Is(err, chatservice.ErrEmptyMessage) {
				msg = "message is required"
			}
			if writeErr := conn.WriteJSON(outboundFrame{Type: "error", Error: msg}); writeErr != nil {
				log.Printf("[ws] write error: %v", writeErr)
				return
			}
			continue
		}

		reply := outboundFrame{
			Type:        "turn",
			Turn:        turn,
			HashPreview: HashPreview(turn.Fingerprint),
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("[ws] write error: %v", err)
			return
		}
	}
}
