package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/surajkumar989/NeuralSync/internal/integrity"
	chatservice "github.com/surajkumar989/NeuralSync/internal/service/chat"
	"github.com/surajkumar989/NeuralSync/internal/store"
	"github.com/surajkumar989/NeuralSync/pkg/utils"
)

// Handler serves the conversation history and verification endpoints.
type Handler struct {
	turns   store.ConversationStore
	chatSvc *chatservice.Service
}

// New creates the history handler.
func New(turns store.ConversationStore, chatSvc *chatservice.Service) *Handler {
	return &Handler{turns: turns, chatSvc: chatSvc}
}

// RegisterRoutes mounts the history routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.handleList)
	r.Get("/history/{id}", h.handleGet)
	r.Get("/history/{id}/verify", h.handleVerify)
}

// handleList returns one page of history, filtered and sorted per the
// query string.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := store.ListOptions{
		Query:  q.Get("q"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("perPage")); err == nil {
		opts.PerPage = perPage
	}

	page, err := h.turns.ListTurns(r.Context(), opts)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, page)
}

// handleGet returns one stored turn.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	turn, err := h.turns.GetTurn(r.Context(), id)
	if errors.Is(err, store.ErrTurnNotFound) {
		utils.RespondError(w, http.StatusNotFound, "turn not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load turn")
		return
	}

	utils.RespondJSON(w, http.StatusOK, turn)
}

// handleVerify recomputes a turn's fingerprint. Without a query
// parameter the stored fingerprint is checked; with ?fingerprint= the
// caller's claimed value is checked instead. A mismatch is a normal
// false result, never an error status.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	claimed := r.URL.Query().Get("fingerprint")

	var (
		valid bool
		err   error
	)
	var result struct {
		ID          int64  `json:"id"`
		Valid       bool   `json:"valid"`
		Fingerprint string `json:"fingerprint"`
	}

	if claimed == "" {
		storedTurn, ok, verr := h.chatSvc.VerifyTurn(r.Context(), id)
		valid, err = ok, verr
		result.Fingerprint = storedTurn.Fingerprint
	} else {
		_, ok, verr := h.chatSvc.VerifyClaim(r.Context(), id, claimed)
		valid, err = ok, verr
		result.Fingerprint = claimed
	}

	switch {
	case errors.Is(err, store.ErrTurnNotFound):
		utils.RespondError(w, http.StatusNotFound, "turn not found")
		return
	case errors.Is(err, integrity.ErrInvalidInput):
		utils.RespondError(w, http.StatusBadRequest, "malformed fingerprint")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "verification failed")
		return
	}

	result.ID = id
	result.Valid = valid
	utils.RespondJSON(w, http.StatusOK, result)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		utils.RespondError(w, http.StatusBadRequest, "invalid turn id")
		return 0, false
	}
	return id, true
}
