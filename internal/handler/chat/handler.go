package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/surajkumar989/NeuralSync/internal/service/chat"
	"github.com/surajkumar989/NeuralSync/internal/store"
	"github.com/surajkumar989/NeuralSync/pkg/utils"
)

// previewLength is how much of the hex fingerprint the chat UI shows
// next to a reply.
const previewLength = 16

// Handler serves the chat exchange endpoints.
type Handler struct {
	chatSvc *chatservice.Service
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/chat", h.handleChat)
}

// handleCreateSession provisions an anonymous session.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleChat runs one exchange and returns the persisted turn.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.chatSvc.Exchange(r.Context(), payload.SessionID, payload.Message)
	if err != nil {
		switch {
		case errors.Is(err, chatservice.ErrEmptyMessage), errors.Is(err, store.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, "message is required")
		case errors.Is(err, chatservice.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, "session not found")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "failed to process message")
		}
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"turn":        turn,
		"hashPreview": HashPreview(turn.Fingerprint),
	})
}

// HashPreview shortens a fingerprint for display, matching the chat
// UI's "abc123…" affordance.
func HashPreview(fingerprint string) string {
	if len(fingerprint) <= previewLength {
		return fingerprint
	}
	return fingerprint[:previewLength] + "..."
}
